package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// HostedStorageProvider pushes objects to a hosted object store over its
// signed-upload HTTP API. Authentication is a static bearer token carried
// by an oauth2 client.
type HostedStorageProvider struct {
	baseURL string
	bucket  string
	client  *http.Client
}

// NewHostedStorageProvider constructs a provider for the store at baseURL,
// writing into bucket with the given service token.
func NewHostedStorageProvider(baseURL, bucket, token string) *HostedStorageProvider {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &HostedStorageProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
		client:  oauth2.NewClient(context.Background(), src),
	}
}

// Put uploads the object and returns its public URL.
func (p *HostedStorageProvider) Put(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", p.baseURL, p.bucket, objectName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Upsert", "false")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("storage responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", p.baseURL, p.bucket, objectName), nil
}
