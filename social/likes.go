// Package social implements likes, follows and comments.
package social

import (
	"context"
	"errors"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/store"
)

// Outcome is the acknowledgment of a toggle; Success false is a soft failure.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LikeStore interface {
	VideoExists(ctx context.Context, id uint) (bool, error)
	AddLike(ctx context.Context, userID, videoID uint) error
	RemoveLike(ctx context.Context, userID, videoID uint) error
	CountLikes(ctx context.Context, videoID uint) (int64, error)
	HasLiked(ctx context.Context, userID, videoID uint) (bool, error)
	LikedVideos(ctx context.Context, userID uint, skip, take int) ([]models.VideoStats, error)
}

type Likes struct {
	store LikeStore
	log   logging.Logger
}

func NewLikes(st LikeStore, log logging.Logger) *Likes {
	return &Likes{store: st, log: log}
}

func (l *Likes) Add(ctx context.Context, userID, videoID uint) (Outcome, error) {
	if videoID == 0 {
		return Outcome{}, apperr.Validation("videoId is required")
	}
	ok, err := l.store.VideoExists(ctx, videoID)
	if err != nil {
		return Outcome{}, apperr.Internal("like failed", err)
	}
	if !ok {
		return Outcome{}, apperr.NotFound("video not found")
	}
	err = l.store.AddLike(ctx, userID, videoID)
	if errors.Is(err, store.ErrDuplicate) {
		return Outcome{Success: false, Message: "already liked"}, nil
	}
	if err != nil {
		return Outcome{}, apperr.Internal("like failed", err)
	}
	return Outcome{Success: true, Message: "liked"}, nil
}

func (l *Likes) Remove(ctx context.Context, userID, videoID uint) (Outcome, error) {
	if videoID == 0 {
		return Outcome{}, apperr.Validation("videoId is required")
	}
	err := l.store.RemoveLike(ctx, userID, videoID)
	if errors.Is(err, store.ErrNotFound) {
		return Outcome{Success: false, Message: "not liked yet"}, nil
	}
	if err != nil {
		return Outcome{}, apperr.Internal("unlike failed", err)
	}
	return Outcome{Success: true, Message: "unliked"}, nil
}

func (l *Likes) Count(ctx context.Context, videoID uint) (int64, error) {
	n, err := l.store.CountLikes(ctx, videoID)
	if err != nil {
		return 0, apperr.Internal("count likes failed", err)
	}
	return n, nil
}

// Liked reports whether userID has liked videoID.
func (l *Likes) Liked(ctx context.Context, userID, videoID uint) (bool, error) {
	ok, err := l.store.HasLiked(ctx, userID, videoID)
	if err != nil {
		return false, apperr.Internal("get like state failed", err)
	}
	return ok, nil
}

func (l *Likes) ListLiked(ctx context.Context, userID uint, skip, take int) ([]models.VideoStats, error) {
	out, err := l.store.LikedVideos(ctx, userID, skip, take)
	if err != nil {
		return nil, apperr.Internal("list liked videos failed", err)
	}
	return out, nil
}
