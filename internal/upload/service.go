// Package upload moves customer documents into durable storage before an
// order is created. Uploads run one at a time so a failure is attributable
// to a single named document.
package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"dinarex/pkg/errors"
	"dinarex/pkg/logger"
)

// Uploader is the contract the submission pipeline consumes.
type Uploader interface {
	Upload(ctx context.Context, req *Request) (*Result, error)
}

// StorageProvider is a storage backend able to persist a named object and
// hand back a durable URL.
type StorageProvider interface {
	Put(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// Request names a single document to store. Kind is a short slug such as
// "id" or "receipt" and becomes part of the object name.
type Request struct {
	Kind     string
	FileName string
	Data     []byte
}

// Result describes the stored object.
type Result struct {
	URL            string
	ObjectName     string
	Size           int64
	ChecksumSHA256 string
	UploadedAt     time.Time
}

// Config bounds what the service accepts.
type Config struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

// DefaultConfig caps files at 10MB and allows common document formats.
func DefaultConfig() Config {
	return Config{
		MaxFileSize:       10 * 1024 * 1024,
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".pdf", ".heic", ".webp"},
	}
}

// Service validates files and stores them through a provider.
type Service struct {
	provider StorageProvider
	cfg      Config
	logger   logger.Logger
	now      func() time.Time
}

// NewService constructs a Service. A zero MaxFileSize falls back to the
// default config.
func NewService(provider StorageProvider, cfg Config, log logger.Logger) *Service {
	if cfg.MaxFileSize == 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
	}
}

// Upload validates the file, synthesizes a collision-safe object name of
// the form {kind}-{timestamp}-{originalName}, and stores it.
func (s *Service) Upload(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Data) == 0 {
		return nil, errors.ErrFileMissing
	}
	if int64(len(req.Data)) > s.cfg.MaxFileSize {
		return nil, errors.Wrap(errors.ErrFileTooLarge,
			fmt.Sprintf("%d bytes exceeds limit of %d", len(req.Data), s.cfg.MaxFileSize))
	}

	sanitized := sanitizeFileName(req.FileName)
	ext := strings.ToLower(filepath.Ext(sanitized))
	if !s.extensionAllowed(ext) {
		return nil, errors.Wrap(errors.ErrFileTypeNotAllowed,
			fmt.Sprintf("%s (allowed: %s)", ext, strings.Join(s.cfg.AllowedExtensions, ", ")))
	}

	uploadedAt := s.now()
	objectName := fmt.Sprintf("%s-%d-%s", req.Kind, uploadedAt.UnixMilli(), sanitized)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := s.provider.Put(ctx, objectName, req.Data, contentType)
	if err != nil {
		return nil, errors.Wrap(err, "storage provider put failed")
	}

	sum := sha256.Sum256(req.Data)

	s.logger.Info("Document stored", map[string]interface{}{
		"kind":   req.Kind,
		"object": objectName,
		"size":   len(req.Data),
	})

	return &Result{
		URL:            url,
		ObjectName:     objectName,
		Size:           int64(len(req.Data)),
		ChecksumSHA256: hex.EncodeToString(sum[:]),
		UploadedAt:     uploadedAt,
	}, nil
}

func (s *Service) extensionAllowed(ext string) bool {
	for _, allowed := range s.cfg.AllowedExtensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	return unsafeNameChars.ReplaceAllString(base, "_")
}
