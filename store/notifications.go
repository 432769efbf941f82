package store

import (
	"context"

	"tikclone/models"

	"gorm.io/gorm"
)

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return translate(s.db.WithContext(ctx).Create(n).Error)
}

func (s *Store) UpdateNotification(ctx context.Context, id uint, title, content string) (models.Notification, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content})
	if res.Error != nil {
		return models.Notification{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Notification{}, ErrNotFound
	}
	return s.NotificationByID(ctx, id)
}

func (s *Store) NotificationByID(ctx context.Context, id uint) (models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).First(&n, id).Error
	return n, translate(err)
}

func (s *Store) DeleteNotification(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetNotificationActive toggles one notification. Activating it deactivates
// every other notification in the same transaction.
func (s *Store) SetNotificationActive(ctx context.Context, id uint, active bool) (models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&n, id).Error; err != nil {
			return translate(err)
		}
		if active {
			if err := tx.Model(&models.Notification{}).Where("id <> ? AND active = ?", id, true).Update("active", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&n).Update("active", active).Error; err != nil {
			return err
		}
		return nil
	})
	return n, err
}

func (s *Store) Notifications(ctx context.Context) ([]models.Notification, error) {
	out := []models.Notification{}
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// ActiveNotification returns the newest active notification or ErrNotFound.
func (s *Store) ActiveNotification(ctx context.Context) (models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("created_at DESC, id DESC").First(&n).Error
	return n, translate(err)
}
