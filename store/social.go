package store

import (
	"context"
	"time"

	"tikclone/models"
)

// likes

func (s *Store) AddLike(ctx context.Context, userID, videoID uint) error {
	return translate(s.db.WithContext(ctx).Create(&models.Like{UserID: userID, VideoID: videoID}).Error)
}

func (s *Store) RemoveLike(ctx context.Context, userID, videoID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountLikes(ctx context.Context, videoID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).Where("video_id = ?", videoID).Count(&n).Error
	return n, err
}

func (s *Store) HasLiked(ctx context.Context, userID, videoID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ? AND video_id = ?", userID, videoID).Count(&n).Error
	return n > 0, err
}

// LikedVideos lists the videos userID liked, most recent like first.
func (s *Store) LikedVideos(ctx context.Context, userID uint, skip, take int) ([]models.VideoStats, error) {
	skip, take = page(skip, take)
	out := []models.VideoStats{}
	err := s.stats(ctx).
		Joins("JOIN likes AS l ON l.video_id = videos.id").
		Where("l.user_id = ?", userID).
		Order("l.created_at DESC, l.id DESC").
		Offset(skip).Limit(take).
		Scan(&out).Error
	return out, err
}

// follows

func (s *Store) Follow(ctx context.Context, followerID, followingID uint) error {
	return translate(s.db.WithContext(ctx).Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error)
}

func (s *Store) Unfollow(ctx context.Context, followerID, followingID uint) error {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

const followUserColumns = "users.id, users.username, users.fullname, users.avatar_url, users.bio, users.created_at"

// Followers lists the accounts following userID, newest follow first.
func (s *Store) Followers(ctx context.Context, userID uint, skip, take int) ([]models.PublicUser, error) {
	skip, take = page(skip, take)
	out := []models.PublicUser{}
	err := s.db.WithContext(ctx).Table("users").Select(followUserColumns).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(skip).Limit(take).
		Scan(&out).Error
	return out, err
}

// Following lists the accounts userID follows, newest follow first.
func (s *Store) Following(ctx context.Context, userID uint, skip, take int) ([]models.PublicUser, error) {
	skip, take = page(skip, take)
	out := []models.PublicUser{}
	err := s.db.WithContext(ctx).Table("users").Select(followUserColumns).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(skip).Limit(take).
		Scan(&out).Error
	return out, err
}

func (s *Store) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&n).Error
	return n, err
}

func (s *Store) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

// comments

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *Store) CommentByID(ctx context.Context, id uint) (models.Comment, error) {
	var c models.Comment
	err := s.db.WithContext(ctx).First(&c, id).Error
	return c, translate(err)
}

func (s *Store) DeleteComment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type commentRow struct {
	ID             uint
	CreatedAt      time.Time
	Content        string
	VideoID        uint
	UserID         uint
	AuthorFullname string
}

// Comments lists a video's comments newest first, each with its author.
func (s *Store) Comments(ctx context.Context, videoID uint, skip, take int) ([]models.CommentView, error) {
	skip, take = page(skip, take)
	var rows []commentRow
	err := s.db.WithContext(ctx).Table("comments").
		Select("comments.id, comments.created_at, comments.content, comments.video_id, comments.user_id, users.fullname AS author_fullname").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.video_id = ?", videoID).
		Order("comments.created_at DESC, comments.id DESC").
		Offset(skip).Limit(take).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.CommentView, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.CommentView{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Content:   r.Content,
			VideoID:   r.VideoID,
			UserID:    r.UserID,
			Author:    models.CommentAuthor{ID: r.UserID, Fullname: r.AuthorFullname},
		})
	}
	return out, nil
}

func (s *Store) CountComments(ctx context.Context, videoID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("video_id = ?", videoID).Count(&n).Error
	return n, err
}
