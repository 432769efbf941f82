package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer(Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     24 * time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

var alice = Identity{ID: 42, Email: "a@x.com", Username: "alice1", Active: true, IsAdmin: false}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer()

	pair, err := iss.IssuePair(alice)
	require.NoError(t, err)

	claims, err := iss.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice, claims.Identity)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	claims, err = iss.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, alice, claims.Identity)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer()
	pair, err := iss.IssuePair(alice)
	require.NoError(t, err)

	_, err = iss.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = iss.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpired(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer()
	issuedAt := time.Now().Add(-48 * time.Hour)
	iss.now = func() time.Time { return issuedAt }
	pair, err := iss.IssuePair(alice)
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// refresh token still valid two days later
	_, err = iss.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRejectsMalformedAndForeignTokens(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer()

	_, err := iss.VerifyAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewIssuer(Config{AccessSecret: []byte("other"), RefreshSecret: []byte("other-r")})
	pair, err := other.IssuePair(alice)
	require.NoError(t, err)
	_, err = iss.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsTokenWithoutExpiry(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Identity: alice}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = iss.VerifyAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()
	iss := newTestIssuer()
	claims := Claims{Identity: alice, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = iss.VerifyAccess(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
