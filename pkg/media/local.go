package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalUploader keeps objects under a base directory on disk. The server
// exposes that directory under urlBase.
type LocalUploader struct {
	base    string
	urlBase string
	now     func() time.Time
}

func NewLocalUploader(base, urlBase string) (*LocalUploader, error) {
	if base == "" {
		base = "uploads"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create upload base dir %s: %w", base, err)
	}
	return &LocalUploader{base: base, urlBase: urlBase, now: time.Now}, nil
}

// Dir is the directory objects are written to.
func (u *LocalUploader) Dir() string { return u.base }

func (u *LocalUploader) Upload(ctx context.Context, kind string, body io.ReadSeeker, _ string, ext string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	key := objectKey(kind, ext, u.now())
	full, err := u.path(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, err
	}
	f, err := os.Create(full)
	if err != nil {
		return Object{}, err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(full)
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return Object{}, err
	}
	return Object{Key: key, URL: publicURL(u.urlBase, key)}, nil
}

func (u *LocalUploader) Delete(_ context.Context, key string) error {
	full, err := u.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// path resolves key inside the base directory, refusing keys that escape it.
func (u *LocalUploader) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(u.base, clean), nil
}
