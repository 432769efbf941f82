package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tikclone/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	d := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	k := objectKey("videos", "MP4", d)
	assert.True(t, strings.HasPrefix(k, "videos/2025/3/9/"), k)
	assert.True(t, strings.HasSuffix(k, ".mp4"), k)
	assert.NotEqual(t, k, objectKey("videos", ".mp4", d))

	assert.Equal(t, "https://cdn.example.com/a/b.jpg", publicURL("https://cdn.example.com/", "a/b.jpg"))
}

func TestLocalUploader(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "/media")
	require.NoError(t, err)

	obj, err := u.Upload(context.Background(), "thumbnails", bytes.NewReader([]byte("jpeg-bytes")), "image/jpeg", ".jpg")
	require.NoError(t, err)
	assert.Equal(t, "/media/"+obj.Key, obj.URL)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(obj.Key)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, u.Delete(context.Background(), obj.Key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(obj.Key)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine, escaping the base dir is not
	require.NoError(t, u.Delete(context.Background(), obj.Key))
	assert.Error(t, u.Delete(context.Background(), "../outside.txt"))
}

type fakeS3 struct {
	mu   sync.Mutex
	reqs []string
	body []byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.reqs = append(f.reqs, r.Method+" "+r.URL.Path)
	if r.Method == http.MethodPut {
		f.body = b
	}
	f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3UploaderAgainstFakeEndpoint(t *testing.T) {
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	u, err := NewS3Uploader(context.Background(), config.MediaConfig{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		Bucket:    "clips",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		PublicURL: "https://cdn.example.com",
	})
	require.NoError(t, err)

	obj, err := u.Upload(context.Background(), "videos", bytes.NewReader([]byte("movie")), "video/mp4", ".mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "videos/"))
	assert.Equal(t, "https://cdn.example.com/"+obj.Key, obj.URL)

	require.NoError(t, u.Delete(context.Background(), obj.Key))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.reqs, 2)
	assert.Equal(t, "PUT /clips/"+obj.Key, fake.reqs[0])
	assert.Equal(t, "DELETE /clips/"+obj.Key, fake.reqs[1])
	assert.Contains(t, string(fake.body), "movie")
}

func TestS3UploaderDefaultsPublicURL(t *testing.T) {
	u, err := NewS3Uploader(context.Background(), config.MediaConfig{
		Endpoint: "http://minio:9000", Region: "us-east-1", Bucket: "clips", AccessKey: "k", SecretKey: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/clips", u.publicURL)

	_, err = NewS3Uploader(context.Background(), config.MediaConfig{Region: "us-east-1"})
	assert.Error(t, err)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeThumbnailDownscales(t *testing.T) {
	out, err := NormalizeThumbnail(bytes.NewReader(pngBytes(t, 1440, 200)), 720)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 720, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestNormalizeThumbnailKeepsSmallImages(t *testing.T) {
	out, err := NormalizeThumbnail(bytes.NewReader(pngBytes(t, 320, 240)), 720)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
}

func TestNormalizeThumbnailRejectsGarbage(t *testing.T) {
	_, err := NormalizeThumbnail(strings.NewReader("definitely not an image"), 720)
	assert.ErrorIs(t, err, ErrInvalidImage)
}
