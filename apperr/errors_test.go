package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"conflict", Conflict("exists"), KindConflict},
		{"auth wrapped", fmt.Errorf("sign in: %w", Auth("bad credentials")), KindAuth},
		{"forbidden", Forbidden("no"), KindForbidden},
		{"not found", NotFound("missing"), KindNotFound},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("refresh: %w", Auth("invalid refresh token"))
	assert.True(t, errors.Is(err, Auth("")))
	assert.True(t, errors.Is(err, Auth("invalid refresh token")))
	assert.False(t, errors.Is(err, Auth("user not found")))
	assert.False(t, errors.Is(err, Forbidden("")))
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	assert.Equal(t, "could not load user", MessageOf(Internal("could not load user", cause)))
	assert.Equal(t, "internal error", MessageOf(cause))
	assert.ErrorIs(t, Internal("x", cause), cause)
}
