// Package media stores uploaded video and thumbnail objects and hands back
// their public URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object identifies a stored file.
type Object struct {
	Key string
	URL string
}

// Uploader stores objects on the media host.
type Uploader interface {
	Upload(ctx context.Context, kind string, body io.ReadSeeker, contentType, ext string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// objectKey lays objects out as <kind>/<yyyy>/<m>/<d>/<uuid><ext>.
func objectKey(kind, ext string, d time.Time) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%d/%d/%d/%v%s", kind, d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(ext))
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + path.Clean(key)
}
