package video

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/pkg/media"
	"tikclone/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu      sync.Mutex
	stored  map[string][]byte
	deleted []string
	failOn  string
	seq     int
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{stored: map[string][]byte{}}
}

func (f *fakeUploader) Upload(_ context.Context, kind string, body io.ReadSeeker, _, ext string) (media.Object, error) {
	if kind == f.failOn {
		return media.Object{}, errors.New("media host unavailable")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return media.Object{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	key := kind + "/" + strings.Repeat("k", f.seq) + ext
	f.stored[key] = b
	return media.Object{Key: key, URL: "https://cdn.test/" + key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.stored, key)
	return nil
}

type fakeStore struct {
	videos    []models.Video
	createErr error
	lastN     int
}

func (f *fakeStore) PathExists(_ context.Context, path string) (bool, error) {
	for _, v := range f.videos {
		if v.Path == path {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateVideo(_ context.Context, v *models.Video) error {
	if f.createErr != nil {
		return f.createErr
	}
	v.ID = uint(len(f.videos) + 1)
	f.videos = append(f.videos, *v)
	return nil
}

func (f *fakeStore) VideoByPath(_ context.Context, path string) (models.VideoStats, error) {
	for _, v := range f.videos {
		if v.Path == path {
			return models.VideoStats{ID: v.ID, Path: v.Path, Title: v.Title}, nil
		}
	}
	return models.VideoStats{}, store.ErrNotFound
}

func (f *fakeStore) RandomVideos(_ context.Context, _ []uint, n int) ([]models.VideoStats, error) {
	f.lastN = n
	return []models.VideoStats{}, nil
}

func (f *fakeStore) FollowingFeed(context.Context, uint, int, int) ([]models.VideoStats, error) {
	return []models.VideoStats{}, nil
}

func (f *fakeStore) VideosByUser(context.Context, uint) ([]models.VideoStats, error) {
	return []models.VideoStats{}, nil
}

func (f *fakeStore) DeleteVideo(_ context.Context, userID, videoID uint) (models.Video, error) {
	for i, v := range f.videos {
		if v.ID == videoID && v.UserID == userID {
			f.videos = append(f.videos[:i], f.videos[i+1:]...)
			return v, nil
		}
	}
	return models.Video{}, store.ErrNotFound
}

func thumbFile(t *testing.T) *File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1000, 500))))
	return &File{Body: bytes.NewReader(buf.Bytes()), Size: int64(buf.Len()), Filename: "thumb.png", ContentType: "image/png"}
}

func clipFile() *File {
	data := []byte("fake-mp4-payload")
	return &File{Body: bytes.NewReader(data), Size: int64(len(data)), Filename: "clip.MP4", ContentType: "video/mp4"}
}

func newSvc(st *fakeStore, up *fakeUploader) *Service {
	return NewService(st, up, Config{ThumbnailMaxWidth: 720, MaxVideoBytes: 1 << 20}, logging.Discard())
}

func TestCreateStoresBothObjects(t *testing.T) {
	st, up := &fakeStore{}, newFakeUploader()
	svc := newSvc(st, up)

	v, err := svc.Create(context.Background(), 7, " My clip ", clipFile(), thumbFile(t))
	require.NoError(t, err)

	assert.Equal(t, "My clip", v.Title)
	assert.Equal(t, uint(7), v.UserID)
	assert.Len(t, v.Path, 8)
	assert.True(t, strings.HasPrefix(v.URL, "https://cdn.test/videos/"))
	assert.True(t, strings.HasSuffix(v.StorageKey, ".mp4"))
	require.NotNil(t, v.ThumbnailURL)
	assert.True(t, strings.HasSuffix(*v.ThumbnailURL, ".jpg"))
	require.Len(t, st.videos, 1)
	assert.Len(t, up.stored, 2)
	assert.Equal(t, []byte("fake-mp4-payload"), up.stored[v.StorageKey])
}

func TestCreateThumbnailFailureRemovesVideo(t *testing.T) {
	st, up := &fakeStore{}, newFakeUploader()
	up.failOn = "thumbnails"
	svc := newSvc(st, up)

	_, err := svc.Create(context.Background(), 7, "clip", clipFile(), thumbFile(t))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	assert.Empty(t, st.videos)
	assert.Empty(t, up.stored)
	require.Len(t, up.deleted, 1)
	assert.True(t, strings.HasPrefix(up.deleted[0], "videos/"))
}

func TestCreateVideoFailureRemovesThumbnail(t *testing.T) {
	st, up := &fakeStore{}, newFakeUploader()
	up.failOn = "videos"
	svc := newSvc(st, up)

	_, err := svc.Create(context.Background(), 7, "clip", clipFile(), thumbFile(t))
	require.Error(t, err)
	assert.Empty(t, st.videos)
	assert.Empty(t, up.stored)
}

func TestCreateRecordFailureRemovesObjects(t *testing.T) {
	st, up := &fakeStore{createErr: errors.New("insert failed")}, newFakeUploader()
	svc := newSvc(st, up)

	_, err := svc.Create(context.Background(), 7, "clip", clipFile(), thumbFile(t))
	require.Error(t, err)
	assert.Empty(t, up.stored)
	assert.Len(t, up.deleted, 2)
}

func TestCreateValidation(t *testing.T) {
	svc := newSvc(&fakeStore{}, newFakeUploader())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "clip", nil, thumbFile(t))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, 1, "clip", clipFile(), nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, 1, "  ", clipFile(), thumbFile(t))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	big := clipFile()
	big.Size = 2 << 20
	_, err = svc.Create(ctx, 1, "clip", big, thumbFile(t))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	notVideo := clipFile()
	notVideo.ContentType = "text/plain"
	_, err = svc.Create(ctx, 1, "clip", notVideo, thumbFile(t))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	badThumb := &File{Body: strings.NewReader("not an image"), Filename: "t.png"}
	_, err = svc.Create(ctx, 1, "clip", clipFile(), badThumb)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRandomClampsN(t *testing.T) {
	st := &fakeStore{}
	svc := newSvc(st, newFakeUploader())

	_, err := svc.Random(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, st.lastN)

	_, err = svc.Random(context.Background(), nil, 500)
	require.NoError(t, err)
	assert.Equal(t, 20, st.lastN)
}

func TestDeleteOwnerOnly(t *testing.T) {
	st, up := &fakeStore{}, newFakeUploader()
	svc := newSvc(st, up)
	v, err := svc.Create(context.Background(), 7, "clip", clipFile(), thumbFile(t))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), 8, v.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, svc.Delete(context.Background(), 7, v.ID))
	assert.Empty(t, st.videos)
	assert.Empty(t, up.stored)

	_, err = svc.ByPath(context.Background(), v.Path)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRandomPathAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		p, err := randomPath()
		require.NoError(t, err)
		require.Len(t, p, 8)
		for _, r := range p {
			assert.True(t, strings.ContainsRune(pathAlphabet, r))
		}
	}
	assert.Equal(t, ".webm", extOf("a.WEBM", ".mp4"))
	assert.Equal(t, ".mp4", extOf("noext", ".mp4"))
}
