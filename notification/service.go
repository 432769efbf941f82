// Package notification manages the admin-authored announcements shown to all
// users. At most one announcement is active at a time.
package notification

import (
	"context"
	"errors"
	"strings"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/store"
)

type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	UpdateNotification(ctx context.Context, id uint, title, content string) (models.Notification, error)
	DeleteNotification(ctx context.Context, id uint) error
	SetNotificationActive(ctx context.Context, id uint, active bool) (models.Notification, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	ActiveNotification(ctx context.Context) (models.Notification, error)
}

type Service struct {
	store Store
	log   logging.Logger
}

func NewService(st Store, log logging.Logger) *Service {
	return &Service{store: st, log: log}
}

const msgNotFound = "notification not found"

func validate(title, content string) (string, string, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		return "", "", apperr.Validation("title and content are required")
	}
	if len(title) > 255 {
		return "", "", apperr.Validation("title is too long")
	}
	return title, content, nil
}

func (s *Service) Create(ctx context.Context, title, content string) (models.Notification, error) {
	title, content, err := validate(title, content)
	if err != nil {
		return models.Notification{}, err
	}
	n := models.Notification{Title: title, Content: content}
	if err := s.store.CreateNotification(ctx, &n); err != nil {
		return models.Notification{}, apperr.Internal("create notification failed", err)
	}
	s.log.Info(ctx, "notification created", "notification_id", n.ID)
	return n, nil
}

func (s *Service) Update(ctx context.Context, id uint, title, content string) (models.Notification, error) {
	title, content, err := validate(title, content)
	if err != nil {
		return models.Notification{}, err
	}
	n, err := s.store.UpdateNotification(ctx, id, title, content)
	if errors.Is(err, store.ErrNotFound) {
		return models.Notification{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return models.Notification{}, apperr.Internal("update notification failed", err)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.store.DeleteNotification(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return apperr.Internal("delete notification failed", err)
	}
	s.log.Info(ctx, "notification deleted", "notification_id", id)
	return nil
}

// SetActive toggles a notification. Activating one deactivates all others.
func (s *Service) SetActive(ctx context.Context, id uint, active bool) (models.Notification, error) {
	n, err := s.store.SetNotificationActive(ctx, id, active)
	if errors.Is(err, store.ErrNotFound) {
		return models.Notification{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return models.Notification{}, apperr.Internal("update notification failed", err)
	}
	s.log.Info(ctx, "notification activation changed", "notification_id", id, "active", active)
	return n, nil
}

func (s *Service) List(ctx context.Context) ([]models.Notification, error) {
	out, err := s.store.Notifications(ctx)
	if err != nil {
		return nil, apperr.Internal("get all notifications failed", err)
	}
	return out, nil
}

// Active returns the current announcement, or nil when none is active.
func (s *Service) Active(ctx context.Context) (*models.Notification, error) {
	n, err := s.store.ActiveNotification(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("get active notification failed", err)
	}
	return &n, nil
}
