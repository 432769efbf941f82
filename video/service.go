// Package video handles uploads and feeds of short videos.
package video

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/pkg/media"
	"tikclone/store"

	"golang.org/x/sync/errgroup"
)

type Store interface {
	PathExists(ctx context.Context, path string) (bool, error)
	CreateVideo(ctx context.Context, v *models.Video) error
	VideoByPath(ctx context.Context, path string) (models.VideoStats, error)
	RandomVideos(ctx context.Context, exclude []uint, n int) ([]models.VideoStats, error)
	FollowingFeed(ctx context.Context, userID uint, skip, take int) ([]models.VideoStats, error)
	VideosByUser(ctx context.Context, userID uint) ([]models.VideoStats, error)
	DeleteVideo(ctx context.Context, userID, videoID uint) (models.Video, error)
}

type Config struct {
	ThumbnailMaxWidth int
	MaxVideoBytes     int64
}

// File is an uploaded multipart file.
type File struct {
	Body        io.ReadSeeker
	Size        int64
	Filename    string
	ContentType string
}

type Service struct {
	store    Store
	uploader media.Uploader
	cfg      Config
	log      logging.Logger
}

func NewService(st Store, uploader media.Uploader, cfg Config, log logging.Logger) *Service {
	if cfg.MaxVideoBytes <= 0 {
		cfg.MaxVideoBytes = 100 << 20
	}
	return &Service{store: st, uploader: uploader, cfg: cfg, log: log}
}

const (
	pathLength       = 8
	pathAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	pathAttempts     = 5
	defaultRandomN   = 3
	maxRandomN       = 20
	maxTitleLength   = 255
	msgVideoNotFound = "video not found"
)

// Create uploads the clip and its thumbnail concurrently and records the video
// only once both are stored. If either upload fails the other object is removed
// and nothing is persisted.
func (s *Service) Create(ctx context.Context, userID uint, title string, clip, thumb *File) (models.Video, error) {
	title = strings.TrimSpace(title)
	switch {
	case clip == nil || clip.Body == nil:
		return models.Video{}, apperr.Validation("video file is required")
	case thumb == nil || thumb.Body == nil:
		return models.Video{}, apperr.Validation("thumbnail is required")
	case title == "":
		return models.Video{}, apperr.Validation("title is required")
	case len(title) > maxTitleLength:
		return models.Video{}, apperr.Validation("title is too long")
	case clip.Size > s.cfg.MaxVideoBytes:
		return models.Video{}, apperr.Validation("video file is too large")
	case clip.ContentType != "" && !strings.HasPrefix(clip.ContentType, "video/"):
		return models.Video{}, apperr.Validation("video file must be a video")
	}

	jpeg, err := media.NormalizeThumbnail(thumb.Body, s.cfg.ThumbnailMaxWidth)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			return models.Video{}, apperr.Validation("thumbnail must be an image")
		}
		return models.Video{}, apperr.Internal("process thumbnail failed", err)
	}

	path, err := s.newPath(ctx)
	if err != nil {
		return models.Video{}, apperr.Internal("create video failed", err)
	}

	var clipObj, thumbObj media.Object
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ct := clip.ContentType
		if ct == "" {
			ct = "video/mp4"
		}
		obj, err := s.uploader.Upload(gctx, "videos", clip.Body, ct, extOf(clip.Filename, ".mp4"))
		clipObj = obj
		return err
	})
	g.Go(func() error {
		obj, err := s.uploader.Upload(gctx, "thumbnails", bytes.NewReader(jpeg), "image/jpeg", ".jpg")
		thumbObj = obj
		return err
	})
	if err := g.Wait(); err != nil {
		s.discard(ctx, clipObj, thumbObj)
		return models.Video{}, apperr.Internal("upload failed", err)
	}

	thumbURL := thumbObj.URL
	v := models.Video{
		Title:        title,
		URL:          clipObj.URL,
		StorageKey:   clipObj.Key,
		ThumbnailURL: &thumbURL,
		ThumbnailKey: thumbObj.Key,
		Path:         path,
		UserID:       userID,
	}
	if err := s.store.CreateVideo(ctx, &v); err != nil {
		s.discard(ctx, clipObj, thumbObj)
		return models.Video{}, apperr.Internal("create video failed", err)
	}
	s.log.Info(ctx, "video created", "video_id", v.ID, "user_id", userID, "path", path)
	return v, nil
}

// discard removes stored objects on a best-effort basis.
func (s *Service) discard(ctx context.Context, objs ...media.Object) {
	ctx = context.WithoutCancel(ctx)
	for _, o := range objs {
		if o.Key == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, o.Key); err != nil {
			s.log.Warn(ctx, "orphaned media object", "key", o.Key, "err", err)
		}
	}
}

func (s *Service) newPath(ctx context.Context) (string, error) {
	for i := 0; i < pathAttempts; i++ {
		p, err := randomPath()
		if err != nil {
			return "", err
		}
		exists, err := s.store.PathExists(ctx, p)
		if err != nil {
			return "", err
		}
		if !exists {
			return p, nil
		}
	}
	return "", errors.New("could not allocate a unique video path")
}

func randomPath() (string, error) {
	b := make([]byte, pathLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = pathAlphabet[int(b[i])%len(pathAlphabet)]
	}
	return string(b), nil
}

func extOf(filename, fallback string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || len(ext) > 6 {
		return fallback
	}
	return ext
}

func (s *Service) ByPath(ctx context.Context, path string) (models.VideoStats, error) {
	if strings.TrimSpace(path) == "" {
		return models.VideoStats{}, apperr.Validation("video path is required")
	}
	v, err := s.store.VideoByPath(ctx, path)
	if errors.Is(err, store.ErrNotFound) {
		return models.VideoStats{}, apperr.NotFound(msgVideoNotFound)
	}
	if err != nil {
		return models.VideoStats{}, apperr.Internal("get video failed", err)
	}
	return v, nil
}

// Random returns up to n videos not in exclude. n defaults to 3 and is capped at 20.
func (s *Service) Random(ctx context.Context, exclude []uint, n int) ([]models.VideoStats, error) {
	if n <= 0 {
		n = defaultRandomN
	}
	if n > maxRandomN {
		n = maxRandomN
	}
	out, err := s.store.RandomVideos(ctx, exclude, n)
	if err != nil {
		return nil, apperr.Internal("get random videos failed", err)
	}
	return out, nil
}

func (s *Service) FollowingFeed(ctx context.Context, userID uint, skip, take int) ([]models.VideoStats, error) {
	out, err := s.store.FollowingFeed(ctx, userID, skip, take)
	if err != nil {
		return nil, apperr.Internal("get following feed failed", err)
	}
	return out, nil
}

func (s *Service) ByUser(ctx context.Context, userID uint) ([]models.VideoStats, error) {
	out, err := s.store.VideosByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("get user videos failed", err)
	}
	return out, nil
}

// Delete removes an owned video with its likes and comments, then its media.
func (s *Service) Delete(ctx context.Context, userID, videoID uint) error {
	v, err := s.store.DeleteVideo(ctx, userID, videoID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msgVideoNotFound)
	}
	if err != nil {
		return apperr.Internal("delete video failed", err)
	}
	s.discard(ctx, media.Object{Key: v.StorageKey}, media.Object{Key: v.ThumbnailKey})
	s.log.Info(ctx, "video deleted", "video_id", v.ID, "user_id", userID)
	return nil
}
