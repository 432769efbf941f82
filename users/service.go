// Package users serves profile lookups and self-service profile updates.
package users

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/store"
)

type Store interface {
	UserByID(ctx context.Context, id uint) (models.User, error)
	ActiveUserByUsername(ctx context.Context, username string) (models.User, error)
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	UpdateProfile(ctx context.Context, userID uint, fields map[string]any) (models.User, error)
}

type Service struct {
	store Store
	log   logging.Logger
}

func NewService(st Store, log logging.Logger) *Service {
	return &Service{store: st, log: log}
}

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// protectedFields may never be changed through a profile update.
var protectedFields = []string{"password", "hashedPassword", "active", "id", "isAdmin", "email"}

// UpdateResult mirrors the soft-failure envelope of the auth flows.
type UpdateResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
}

// ByUsername returns the public profile of an active user.
func (s *Service) ByUsername(ctx context.Context, username string) (models.PublicUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.PublicUser{}, apperr.Validation("username is required")
	}
	u, err := s.store.ActiveUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return models.PublicUser{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.PublicUser{}, apperr.Internal("get user failed", err)
	}
	return u.Public(), nil
}

// Me returns the caller's own account as stored now.
func (s *Service) Me(ctx context.Context, userID uint) (models.User, error) {
	u, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.User{}, apperr.Internal("get user failed", err)
	}
	return u, nil
}

// UpdateProfile applies a JSON patch limited to fullname, username, avatarUrl and
// bio. Patches touching any protected field are refused as a soft failure.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, patch map[string]any) (UpdateResult, error) {
	for _, f := range protectedFields {
		if _, ok := patch[f]; ok {
			return UpdateResult{Success: false, Message: "these fields cannot be updated"}, nil
		}
	}
	fields := map[string]any{}
	for key, column := range map[string]string{"fullname": "fullname", "username": "username", "avatarUrl": "avatar_url", "bio": "bio"} {
		v, ok := patch[key]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return UpdateResult{}, apperr.Validation(key + " must be a string")
		}
		fields[column] = strings.TrimSpace(str)
	}
	if fn, ok := fields["fullname"]; ok && fn == "" {
		return UpdateResult{}, apperr.Validation("fullname cannot be empty")
	}
	if un, ok := fields["username"]; ok {
		name := un.(string)
		if !usernameRE.MatchString(name) {
			return UpdateResult{}, apperr.Validation("username may only contain letters, digits and underscores")
		}
		taken, err := s.store.UsernameTaken(ctx, name, userID)
		if err != nil {
			return UpdateResult{}, apperr.Internal("update user failed", err)
		}
		if taken {
			return UpdateResult{}, apperr.Conflict("username already in use")
		}
	}
	u, err := s.store.UpdateProfile(ctx, userID, fields)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return UpdateResult{}, apperr.Conflict("username already in use")
	case errors.Is(err, store.ErrNotFound):
		return UpdateResult{}, apperr.NotFound("user not found")
	case err != nil:
		return UpdateResult{}, apperr.Internal("update user failed", err)
	}
	s.log.Info(ctx, "profile updated", "user_id", userID)
	return UpdateResult{Success: true, Message: "user updated", User: &u}, nil
}
