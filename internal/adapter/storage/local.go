// Package storage keeps uploaded images on the local filesystem.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	pkgerrors "grocery-delivery-service/pkg/errors"
)

// PublicPrefix is the URL path uploads are served under.
const PublicPrefix = "/uploads"

// allowedTypes maps accepted image MIME types to the stored file extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Kinds of upload, each stored in its own subdirectory.
const (
	KindProduct  = "products"
	KindCategory = "categories"
	KindBanner   = "banners"
)

// LocalStorage writes images below a root directory.
type LocalStorage struct {
	root     string
	baseURL  string
	maxBytes int64
	log      *zap.Logger
}

// NewLocalStorage creates the root directory when missing.
func NewLocalStorage(root string, maxMB int, log *zap.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{root: root, maxBytes: int64(maxMB) << 20, log: log}, nil
}

// WithBaseURL makes SaveImage return absolute URLs rooted at base,
// e.g. http://localhost:8080/uploads/products/<name>.
func (s *LocalStorage) WithBaseURL(base string) *LocalStorage {
	s.baseURL = strings.TrimRight(base, "/")
	return s
}

// Root is the directory served under PublicPrefix.
func (s *LocalStorage) Root() string { return s.root }

// MaxBytes is the largest accepted upload.
func (s *LocalStorage) MaxBytes() int64 { return s.maxBytes }

// SaveImage sniffs r, rejects anything that is not a supported image and
// stores it as <kind>/<uuid><ext>. It returns the public URL.
func (s *LocalStorage) SaveImage(_ context.Context, kind string, r io.Reader) (string, error) {
	switch kind {
	case KindProduct, KindCategory, KindBanner:
	default:
		return "", fmt.Errorf("unknown upload kind %q", kind)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", pkgerrors.NewValidationError("image", "file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return "", pkgerrors.NewValidationError("image", fmt.Sprintf("file exceeds %d MB", s.maxBytes>>20))
	}

	mime := mimetype.Detect(data)
	ext, ok := allowedTypes[strings.SplitN(mime.String(), ";", 2)[0]]
	if !ok {
		return "", pkgerrors.NewValidationError("image", "only jpeg, png, webp and gif images are allowed")
	}

	dir := filepath.Join(s.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := writeFile(filepath.Join(dir, name), data); err != nil {
		return "", err
	}

	s.log.Info("image stored", zap.String("kind", kind), zap.String("name", name), zap.String("mime", mime.String()))
	return s.baseURL + path.Join(PublicPrefix, kind, name), nil
}

// Remove deletes a file previously returned by SaveImage. Unknown URLs are ignored.
func (s *LocalStorage) Remove(url string) error {
	if s.baseURL != "" {
		url = strings.TrimPrefix(url, s.baseURL)
	}
	rel, ok := strings.CutPrefix(url, PublicPrefix+"/")
	if !ok || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

func writeFile(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return fmt.Errorf("failed to write upload: %w", err)
	}
	return f.Close()
}
