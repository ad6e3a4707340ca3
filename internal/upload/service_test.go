package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinarex/pkg/errors"
	"dinarex/pkg/logger"
)

type fakeProvider struct {
	objectName  string
	contentType string
	data        []byte
	err         error
}

func (p *fakeProvider) Put(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	p.objectName = objectName
	p.contentType = contentType
	p.data = data
	if p.err != nil {
		return "", p.err
	}
	return "https://store.example/" + objectName, nil
}

func newFixedClockService(provider StorageProvider, at time.Time) *Service {
	s := NewService(provider, DefaultConfig(), logger.NewNop())
	s.now = func() time.Time { return at }
	return s
}

func TestUpload_ObjectNameFormat(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	provider := &fakeProvider{}
	service := newFixedClockService(provider, at)

	res, err := service.Upload(context.Background(), &Request{
		Kind:     "id",
		FileName: "passport scan (1).jpg",
		Data:     []byte("jpeg bytes"),
	})

	require.NoError(t, err)
	expected := fmt.Sprintf("id-%d-passport_scan__1_.jpg", at.UnixMilli())
	assert.Equal(t, expected, res.ObjectName)
	assert.Equal(t, expected, provider.objectName)
	assert.Equal(t, "https://store.example/"+expected, res.URL)
	assert.Equal(t, int64(10), res.Size)
	assert.Len(t, res.ChecksumSHA256, 64)
	assert.Equal(t, "image/jpeg", provider.contentType)
}

func TestUpload_DistinctTimestampsDistinctNames(t *testing.T) {
	provider := &fakeProvider{}
	s1 := newFixedClockService(provider, time.UnixMilli(1000))
	s2 := newFixedClockService(provider, time.UnixMilli(1001))

	req := &Request{Kind: "receipt", FileName: "receipt.pdf", Data: []byte("pdf")}

	r1, err := s1.Upload(context.Background(), req)
	require.NoError(t, err)
	r2, err := s2.Upload(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, r1.ObjectName, r2.ObjectName)
}

func TestUpload_RejectsEmptyFile(t *testing.T) {
	service := newFixedClockService(&fakeProvider{}, time.Now())

	_, err := service.Upload(context.Background(), &Request{Kind: "id", FileName: "a.jpg"})

	assert.ErrorIs(t, err, errors.ErrFileMissing)
}

func TestUpload_RejectsOversizeFile(t *testing.T) {
	provider := &fakeProvider{}
	service := NewService(provider, Config{
		MaxFileSize:       16,
		AllowedExtensions: []string{".jpg"},
	}, logger.NewNop())

	_, err := service.Upload(context.Background(), &Request{
		Kind:     "id",
		FileName: "big.jpg",
		Data:     []byte(strings.Repeat("x", 17)),
	})

	assert.ErrorIs(t, err, errors.ErrFileTooLarge)
	assert.Empty(t, provider.objectName, "oversize files never reach storage")
}

func TestUpload_RejectsDisallowedExtension(t *testing.T) {
	service := newFixedClockService(&fakeProvider{}, time.Now())

	_, err := service.Upload(context.Background(), &Request{
		Kind:     "id",
		FileName: "malware.exe",
		Data:     []byte("mz"),
	})

	assert.ErrorIs(t, err, errors.ErrFileTypeNotAllowed)
}

func TestUpload_ProviderFailurePropagates(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("bucket gone")}
	service := newFixedClockService(provider, time.Now())

	_, err := service.Upload(context.Background(), &Request{
		Kind:     "receipt",
		FileName: "r.png",
		Data:     []byte("png"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage provider put failed")
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"passport.jpg", "passport.jpg"},
		{"  spaced name.png ", "spaced_name.png"},
		{"../../etc/passwd", "passwd"},
		{"weird$chars!.pdf", "weird_chars_.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFileName(tt.in), tt.in)
	}
}

func TestLocalStorageProvider(t *testing.T) {
	base := t.TempDir()
	provider := NewLocalStorageProvider(base, "http://localhost:8080/files")

	url, err := provider.Put(context.Background(), "id-1-passport.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)

	now := time.Now().UTC()
	rel := filepath.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", now.Month()), "id-1-passport.jpg")
	data, err := os.ReadFile(filepath.Join(base, rel))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
	assert.Contains(t, url, "id-1-passport.jpg")
}
