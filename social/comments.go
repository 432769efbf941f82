package social

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/store"
)

const maxCommentLength = 500

type CommentStore interface {
	VideoExists(ctx context.Context, id uint) (bool, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	CommentByID(ctx context.Context, id uint) (models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
	Comments(ctx context.Context, videoID uint, skip, take int) ([]models.CommentView, error)
	CountComments(ctx context.Context, videoID uint) (int64, error)
}

type Comments struct {
	store CommentStore
	log   logging.Logger
}

func NewComments(st CommentStore, log logging.Logger) *Comments {
	return &Comments{store: st, log: log}
}

func (c *Comments) Create(ctx context.Context, userID, videoID uint, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if videoID == 0 {
		return models.Comment{}, apperr.Validation("videoId is required")
	}
	if n := utf8.RuneCountInString(content); n == 0 || n > maxCommentLength {
		return models.Comment{}, apperr.Validation("comment must be between 1 and 500 characters")
	}
	ok, err := c.store.VideoExists(ctx, videoID)
	if err != nil {
		return models.Comment{}, apperr.Internal("create comment failed", err)
	}
	if !ok {
		return models.Comment{}, apperr.NotFound("video not found")
	}
	cm := models.Comment{UserID: userID, VideoID: videoID, Content: content}
	if err := c.store.CreateComment(ctx, &cm); err != nil {
		return models.Comment{}, apperr.Internal("create comment failed", err)
	}
	return cm, nil
}

// Delete removes a comment; only its author may do so.
func (c *Comments) Delete(ctx context.Context, userID, commentID uint) error {
	cm, err := c.store.CommentByID(ctx, commentID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("comment not found")
	}
	if err != nil {
		return apperr.Internal("delete comment failed", err)
	}
	if cm.UserID != userID {
		return apperr.Forbidden("you cannot delete this comment")
	}
	if err := c.store.DeleteComment(ctx, commentID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperr.Internal("delete comment failed", err)
	}
	return nil
}

func (c *Comments) List(ctx context.Context, videoID uint, skip, take int) ([]models.CommentView, error) {
	out, err := c.store.Comments(ctx, videoID, skip, take)
	if err != nil {
		return nil, apperr.Internal("list comments failed", err)
	}
	return out, nil
}

func (c *Comments) Count(ctx context.Context, videoID uint) (int64, error) {
	n, err := c.store.CountComments(ctx, videoID)
	if err != nil {
		return 0, apperr.Internal("count comments failed", err)
	}
	return n, nil
}
