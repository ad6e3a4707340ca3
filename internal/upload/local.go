package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorageProvider writes objects under a base directory and serves
// them from a static file route. Used in development and tests.
type LocalStorageProvider struct {
	basePath string
	baseURL  string
}

// NewLocalStorageProvider constructs a provider rooted at basePath. URLs
// are formed by joining baseURL with the dated object path.
func NewLocalStorageProvider(basePath, baseURL string) *LocalStorageProvider {
	return &LocalStorageProvider{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Put stores the object under {base}/{yyyy}/{mm}/{objectName}.
func (p *LocalStorageProvider) Put(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	now := time.Now().UTC()
	relDir := filepath.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", now.Month()))
	dir := filepath.Join(p.basePath, relDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}

	fullPath := filepath.Join(dir, objectName)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	if p.baseURL == "" {
		return fullPath, nil
	}
	return p.baseURL + "/" + relDir + "/" + objectName, nil
}
