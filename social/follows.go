package social

import (
	"context"
	"errors"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/store"
)

type FollowStore interface {
	UserByID(ctx context.Context, id uint) (models.User, error)
	Follow(ctx context.Context, followerID, followingID uint) error
	Unfollow(ctx context.Context, followerID, followingID uint) error
	Followers(ctx context.Context, userID uint, skip, take int) ([]models.PublicUser, error)
	Following(ctx context.Context, userID uint, skip, take int) ([]models.PublicUser, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type Follows struct {
	store FollowStore
	log   logging.Logger
}

func NewFollows(st FollowStore, log logging.Logger) *Follows {
	return &Follows{store: st, log: log}
}

func (f *Follows) Follow(ctx context.Context, followerID, followingID uint) (Outcome, error) {
	if followingID == 0 {
		return Outcome{}, apperr.Validation("followingId is required")
	}
	if followerID == followingID {
		return Outcome{}, apperr.Validation("you cannot follow yourself")
	}
	if _, err := f.store.UserByID(ctx, followingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Outcome{}, apperr.NotFound("user not found")
		}
		return Outcome{}, apperr.Internal("follow failed", err)
	}
	err := f.store.Follow(ctx, followerID, followingID)
	if errors.Is(err, store.ErrDuplicate) {
		return Outcome{Success: false, Message: "already following this user"}, nil
	}
	if err != nil {
		return Outcome{}, apperr.Internal("follow failed", err)
	}
	f.log.Debug(ctx, "follow", "follower_id", followerID, "following_id", followingID)
	return Outcome{Success: true, Message: "follow successful"}, nil
}

func (f *Follows) Unfollow(ctx context.Context, followerID, followingID uint) (Outcome, error) {
	if followingID == 0 {
		return Outcome{}, apperr.Validation("followingId is required")
	}
	err := f.store.Unfollow(ctx, followerID, followingID)
	if errors.Is(err, store.ErrNotFound) {
		return Outcome{Success: false, Message: "not following this user"}, nil
	}
	if err != nil {
		return Outcome{}, apperr.Internal("unfollow failed", err)
	}
	return Outcome{Success: true, Message: "unfollow successful"}, nil
}

func (f *Follows) Followers(ctx context.Context, userID uint, skip, take int) ([]models.PublicUser, error) {
	out, err := f.store.Followers(ctx, userID, skip, take)
	if err != nil {
		return nil, apperr.Internal("list followers failed", err)
	}
	return out, nil
}

func (f *Follows) Following(ctx context.Context, userID uint, skip, take int) ([]models.PublicUser, error) {
	out, err := f.store.Following(ctx, userID, skip, take)
	if err != nil {
		return nil, apperr.Internal("list following failed", err)
	}
	return out, nil
}

func (f *Follows) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	n, err := f.store.CountFollowers(ctx, userID)
	if err != nil {
		return 0, apperr.Internal("count followers failed", err)
	}
	return n, nil
}

func (f *Follows) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	n, err := f.store.CountFollowing(ctx, userID)
	if err != nil {
		return 0, apperr.Internal("count following failed", err)
	}
	return n, nil
}
