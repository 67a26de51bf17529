package assets

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxUploadBytes caps uploads when no explicit limit is configured.
const DefaultMaxUploadBytes = 10 << 20 // 10 MiB

var (
	// ErrNotAnImage indicates the uploaded bytes are not an image format.
	ErrNotAnImage = errors.New("assets: not an image")
	// ErrTooLarge indicates the upload exceeds the configured cap.
	ErrTooLarge = errors.New("assets: file too large")
)

// Service holds asset business rules.
type Service struct {
	repo     Repository
	maxBytes int64
}

// NewService constructs a Service. maxBytes of zero uses the default cap.
func NewService(repo Repository, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Service{repo: repo, maxBytes: maxBytes}
}

// MaxBytes exposes the upload cap for multipart parsing.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Upload validates and stores an image. The content type is sniffed from
// the bytes, never trusted from the request.
func (s *Service) Upload(ctx context.Context, fileName string, data []byte, uploaderID string) (*Asset, error) {
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrNotAnImage
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	asset := &Asset{
		ID:          uuid.NewString(),
		FileName:    sanitizeFileName(fileName),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		UploaderID:  uploaderID,
		Data:        data,
	}
	if err := s.repo.Insert(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Get fetches an asset including bytes, for serving.
func (s *Service) Get(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetWithData(ctx, id)
}

// List returns asset metadata for the library page.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	return s.repo.List(ctx)
}

// Delete removes an asset.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "upload"
	}
	return name
}
