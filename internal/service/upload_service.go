package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
)

// ObjectStore persists uploaded files.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	URL(key string) string
}

// UploadResult locates a stored file.
type UploadResult struct {
	URL  string
	Path string
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService stores evidence photos.
type UploadService struct {
	store    ObjectStore
	maxBytes int64
	now      func() time.Time
}

// NewUploadService constructs the service.
func NewUploadService(store ObjectStore, maxBytes int64) *UploadService {
	return &UploadService{store: store, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes is the largest accepted upload.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// UploadImage checks the file signature and stores it under a fresh key.
func (s *UploadService) UploadImage(ctx context.Context, user domain.User, body io.Reader, size int64) (*UploadResult, error) {
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, domain.ErrUnsupportedFileType
	}

	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	key := path.Join("evidence", s.now().UTC().Format("2006/01"), user.Username, uuid.NewString()+ext)
	if err := s.store.Put(ctx, key, contentType, io.MultiReader(bytes.NewReader(head), body), size); err != nil {
		return nil, err
	}
	return &UploadResult{URL: s.store.URL(key), Path: key}, nil
}
