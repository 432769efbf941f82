package notification

import (
	"context"
	"testing"

	"tikclone/apperr"
	"tikclone/pkg/logging"
	"tikclone/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background(), db, logging.Discard()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewService(store.New(db), logging.Discard())
}

func TestActivatingOneDeactivatesOthers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "Maintenance", "Down at 2am")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "New feature", "Duets are here")
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = svc.SetActive(ctx, a.ID, true)
	require.NoError(t, err)
	_, err = svc.SetActive(ctx, b.ID, true)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, n := range all {
		if n.Active {
			activeCount++
			assert.Equal(t, b.ID, n.ID)
		}
	}
	assert.Equal(t, 1, activeCount)

	active, err = svc.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, b.ID, active.ID)

	_, err = svc.SetActive(ctx, b.ID, false)
	require.NoError(t, err)
	active, err = svc.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestCRUD(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "body")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	n, err := svc.Create(ctx, " Hello ", " World ")
	require.NoError(t, err)
	assert.Equal(t, "Hello", n.Title)
	assert.False(t, n.Active)

	upd, err := svc.Update(ctx, n.ID, "Hi", "There")
	require.NoError(t, err)
	assert.Equal(t, "Hi", upd.Title)
	assert.Equal(t, "There", upd.Content)

	_, err = svc.Update(ctx, 999, "x", "y")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = svc.SetActive(ctx, 999, true)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctx, n.ID))
	err = svc.Delete(ctx, n.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
