package users

import (
	"context"
	"errors"
	"testing"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users   map[uint]models.User
	updates []map[string]any
	failErr error
}

func newFakeStore(users ...models.User) *fakeStore {
	f := &fakeStore{users: map[uint]models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeStore) UserByID(_ context.Context, id uint) (models.User, error) {
	if f.failErr != nil {
		return models.User{}, f.failErr
	}
	u, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) ActiveUserByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range f.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeStore) UsernameTaken(_ context.Context, username string, exceptID uint) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, userID uint, fields map[string]any) (models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	f.updates = append(f.updates, fields)
	if v, ok := fields["fullname"]; ok {
		u.Fullname = v.(string)
	}
	if v, ok := fields["username"]; ok {
		u.Username = v.(string)
	}
	if v, ok := fields["avatar_url"]; ok {
		u.AvatarURL = v.(string)
	}
	if v, ok := fields["bio"]; ok {
		u.Bio = v.(string)
	}
	f.users[userID] = u
	return u, nil
}

func seed() *fakeStore {
	return newFakeStore(
		models.User{ID: 1, Username: "alice", Email: "a@x.com", Fullname: "Alice", Active: true},
		models.User{ID: 2, Username: "bob", Email: "b@x.com", Fullname: "Bob", Active: false},
	)
}

func TestByUsername(t *testing.T) {
	svc := NewService(seed(), logging.Discard())
	ctx := context.Background()

	got, err := svc.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
	assert.Equal(t, "Alice", got.Fullname)

	// inactive users are invisible
	_, err = svc.ByUsername(ctx, "bob")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.ByUsername(ctx, " ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestMe(t *testing.T) {
	st := seed()
	svc := NewService(st, logging.Discard())

	u, err := svc.Me(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", u.Email)

	_, err = svc.Me(context.Background(), 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	st.failErr = errors.New("db down")
	_, err = svc.Me(context.Background(), 1)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestUpdateProfileRejectsProtectedFields(t *testing.T) {
	for _, field := range []string{"password", "active", "id", "isAdmin"} {
		t.Run(field, func(t *testing.T) {
			st := seed()
			svc := NewService(st, logging.Discard())
			res, err := svc.UpdateProfile(context.Background(), 1, map[string]any{"bio": "x", field: true})
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, "these fields cannot be updated", res.Message)
			assert.Empty(t, st.updates)
		})
	}
}

func TestUpdateProfileAppliesAllowedFields(t *testing.T) {
	st := seed()
	svc := NewService(st, logging.Discard())

	res, err := svc.UpdateProfile(context.Background(), 1, map[string]any{
		"fullname":  " Alice A. ",
		"avatarUrl": "https://cdn.test/a.png",
		"bio":       "hello",
		"username":  "alice_2",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.Equal(t, "Alice A.", res.User.Fullname)
	assert.Equal(t, "alice_2", res.User.Username)
	assert.Equal(t, "https://cdn.test/a.png", res.User.AvatarURL)
	assert.Equal(t, map[string]any{"fullname": "Alice A.", "avatar_url": "https://cdn.test/a.png", "bio": "hello", "username": "alice_2"}, st.updates[0])
}

func TestUpdateProfileUsernameChecks(t *testing.T) {
	svc := NewService(seed(), logging.Discard())
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, 1, map[string]any{"username": "bob"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.UpdateProfile(ctx, 1, map[string]any{"username": "no spaces"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpdateProfile(ctx, 1, map[string]any{"bio": 42})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpdateProfile(ctx, 1, map[string]any{"fullname": ""})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// keeping your own username is not a conflict
	res, err := svc.UpdateProfile(ctx, 1, map[string]any{"username": "alice"})
	require.NoError(t, err)
	assert.True(t, res.Success)
}
