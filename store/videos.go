package store

import (
	"context"

	"tikclone/models"

	"gorm.io/gorm"
)

// videoStatsColumns selects a video together with its like and comment counters.
const videoStatsColumns = `videos.id, videos.created_at, videos.title, videos.url, videos.thumbnail_url, videos.path, videos.user_id,
	(SELECT COUNT(*) FROM likes WHERE likes.video_id = videos.id) AS like_count,
	(SELECT COUNT(*) FROM comments WHERE comments.video_id = videos.id) AS comment_count`

func (s *Store) stats(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("videos").Select(videoStatsColumns)
}

func (s *Store) PathExists(ctx context.Context, path string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Video{}).Where("path = ?", path).Count(&n).Error
	return n > 0, err
}

func (s *Store) CreateVideo(ctx context.Context, v *models.Video) error {
	return translate(s.db.WithContext(ctx).Create(v).Error)
}

func (s *Store) VideoExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (s *Store) VideoByPath(ctx context.Context, path string) (models.VideoStats, error) {
	var out []models.VideoStats
	if err := s.stats(ctx).Where("videos.path = ?", path).Limit(1).Scan(&out).Error; err != nil {
		return models.VideoStats{}, err
	}
	if len(out) == 0 {
		return models.VideoStats{}, ErrNotFound
	}
	return out[0], nil
}

// RandomVideos picks up to n videos whose id is not in exclude.
func (s *Store) RandomVideos(ctx context.Context, exclude []uint, n int) ([]models.VideoStats, error) {
	q := s.stats(ctx)
	if len(exclude) > 0 {
		q = q.Where("videos.id NOT IN ?", exclude)
	}
	out := []models.VideoStats{}
	err := q.Order("RANDOM()").Limit(n).Scan(&out).Error
	return out, err
}

// FollowingFeed lists videos of accounts userID follows, newest first.
func (s *Store) FollowingFeed(ctx context.Context, userID uint, skip, take int) ([]models.VideoStats, error) {
	skip, take = page(skip, take)
	out := []models.VideoStats{}
	err := s.stats(ctx).
		Where("videos.user_id IN (?)", s.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID)).
		Order("videos.created_at DESC, videos.id DESC").
		Offset(skip).Limit(take).
		Scan(&out).Error
	return out, err
}

func (s *Store) VideosByUser(ctx context.Context, userID uint) ([]models.VideoStats, error) {
	out := []models.VideoStats{}
	err := s.stats(ctx).
		Where("videos.user_id = ?", userID).
		Order("videos.created_at DESC, videos.id DESC").
		Scan(&out).Error
	return out, err
}

// DeleteVideo removes an owned video with its comments and likes in one
// transaction and returns the deleted row. Missing or foreign videos yield ErrNotFound.
func (s *Store) DeleteVideo(ctx context.Context, userID, videoID uint) (models.Video, error) {
	var v models.Video
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", videoID, userID).First(&v).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("video_id = ?", v.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", v.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Video{}, v.ID).Error
	})
	return v, err
}
