// Package auth implements the account lifecycle: sign-up, sign-in, token
// refresh, email verification and password reset.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"tikclone/apperr"
	"tikclone/models"
	"tikclone/pkg/logging"
	"tikclone/pkg/password"
	"tikclone/pkg/token"
	"tikclone/store"
)

// Store is the slice of the credential store the service needs.
type Store interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id uint) (models.User, error)
	UserExists(ctx context.Context, email, username string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	CreateVerificationToken(ctx context.Context, t *models.EmailVerificationToken) error
	CreateResetToken(ctx context.Context, t *models.PasswordResetToken) error
	ResetTokenByHash(ctx context.Context, hash string) (models.PasswordResetToken, error)
	ConsumeVerification(ctx context.Context, hash string, now time.Time) (models.User, error)
	ConsumeReset(ctx context.Context, hash string, digest []byte, now time.Time) error
}

// Mailer delivers the account emails.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, link string) error
	SendPasswordResetEmail(ctx context.Context, to, link string) error
}

type Config struct {
	// BaseURL is the front-end origin embedded in email links.
	BaseURL          string
	DefaultAvatarURL string
	EmailTokenTTL    time.Duration
}

type Service struct {
	store  Store
	tokens *token.Issuer
	hasher *password.Hasher
	mail   Mailer
	cfg    Config
	log    logging.Logger
	now    func() time.Time
}

func NewService(st Store, tokens *token.Issuer, hasher *password.Hasher, mail Mailer, cfg Config, log logging.Logger) *Service {
	if cfg.EmailTokenTTL <= 0 {
		cfg.EmailTokenTTL = 15 * time.Minute
	}
	return &Service{store: st, tokens: tokens, hasher: hasher, mail: mail, cfg: cfg, log: log, now: time.Now}
}

// Result is the acknowledgment returned by flows that do not log the user in.
// Success false is a soft failure: the request itself was handled.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Session is returned by sign-in and refresh.
type Session struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	Success      bool        `json:"success"`
}

// Verified is returned by a successful email verification.
type Verified struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Success      bool   `json:"success"`
}

const (
	MsgUserNotFound     = "user not found"
	MsgBadCredentials   = "bad credentials"
	MsgAlreadyActive    = "account already activated"
	MsgTokenInvalid     = "token invalid or expired"
	MsgPasswordTooShort = "password must be at least 6 characters"
	MsgPasswordTooLong  = "password must be at most 72 bytes"
)

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an inactive account. It never logs the user in.
func (s *Service) SignUp(ctx context.Context, fullname, username, email, plain string) (Result, error) {
	fullname = strings.TrimSpace(fullname)
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if fullname == "" || username == "" || email == "" || plain == "" {
		return Result{}, apperr.Validation("fullname, username, email and password are required")
	}
	if len(plain) < password.MinLength {
		return Result{}, apperr.Validation(MsgPasswordTooShort)
	}
	if len(plain) > password.MaxLength {
		return Result{}, apperr.Validation(MsgPasswordTooLong)
	}
	if !usernameRE.MatchString(username) {
		return Result{}, apperr.Validation("username may only contain letters, digits and underscores")
	}
	// pre-check; the unique indexes settle races
	exists, err := s.store.UserExists(ctx, email, username)
	if err != nil {
		return Result{}, apperr.Internal("sign up failed", err)
	}
	if exists {
		return Result{}, apperr.Conflict("email or username already in use")
	}
	digest, err := s.hasher.Hash(plain)
	if err != nil {
		return Result{}, apperr.Internal("sign up failed", err)
	}
	u := models.User{
		Fullname:       fullname,
		Username:       username,
		Email:          email,
		HashedPassword: digest,
		AvatarURL:      s.cfg.DefaultAvatarURL,
	}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Result{}, apperr.Conflict("email or username already in use")
		}
		return Result{}, apperr.Internal("sign up failed", err)
	}
	s.log.Info(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return Result{Success: true, Message: "account created"}, nil
}

// SignIn checks credentials and issues a token pair. Activation is not required.
func (s *Service) SignIn(ctx context.Context, email, plain string) (Session, error) {
	u, err := s.store.UserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, apperr.Auth(MsgUserNotFound)
	}
	if err != nil {
		return Session{}, apperr.Internal("sign in failed", err)
	}
	if !s.hasher.Compare(u.HashedPassword, plain) {
		return Session{}, apperr.Auth(MsgBadCredentials)
	}
	return s.session(u)
}

// Refresh exchanges a refresh token for a new pair built from the current user row.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return Session{}, apperr.Auth("invalid or expired refresh token")
	}
	u, err := s.store.UserByID(ctx, claims.Identity.ID)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, apperr.Auth(MsgUserNotFound)
	}
	if err != nil {
		return Session{}, apperr.Internal("refresh failed", err)
	}
	return s.session(u)
}

func (s *Service) session(u models.User) (Session, error) {
	pair, err := s.tokens.IssuePair(IdentityOf(u))
	if err != nil {
		return Session{}, apperr.Internal("issue token failed", err)
	}
	return Session{User: u, Token: pair.AccessToken, RefreshToken: pair.RefreshToken, Success: true}, nil
}

// IdentityOf builds the token claims of a user.
func IdentityOf(u models.User) token.Identity {
	return token.Identity{ID: u.ID, Email: u.Email, Username: u.Username, Active: u.Active, IsAdmin: u.IsAdmin}
}

// SendVerificationEmail mails an activation link. Every failure is soft.
func (s *Service) SendVerificationEmail(ctx context.Context, email string) Result {
	u, err := s.store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error(ctx, "verification email lookup failed", "err", err)
		}
		return Result{Success: false, Message: MsgUserNotFound}
	}
	if u.Active {
		return Result{Success: true, Message: MsgAlreadyActive}
	}
	const failed = "failed to send verification email"
	raw, hash, err := newOpaqueToken()
	if err != nil {
		s.log.Error(ctx, "generate verification token", "err", err)
		return Result{Success: false, Message: failed}
	}
	t := models.EmailVerificationToken{UserID: u.ID, TokenHash: hash, ExpiresAt: s.now().Add(s.cfg.EmailTokenTTL)}
	if err := s.store.CreateVerificationToken(ctx, &t); err != nil {
		s.log.Error(ctx, "store verification token", "user_id", u.ID, "err", err)
		return Result{Success: false, Message: failed}
	}
	if err := s.mail.SendVerificationEmail(ctx, u.Email, s.link("/verify-email", raw)); err != nil {
		s.log.Error(ctx, "send verification email", "user_id", u.ID, "err", err)
		return Result{Success: false, Message: failed}
	}
	return Result{Success: true, Message: "verification email sent"}
}

// VerifyEmail activates the token's owner and returns a fresh, active session.
func (s *Service) VerifyEmail(ctx context.Context, raw string) (Verified, error) {
	if raw == "" {
		return Verified{}, apperr.Auth(MsgTokenInvalid)
	}
	u, err := s.store.ConsumeVerification(ctx, hashToken(raw), s.now())
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrExpired) {
		return Verified{}, apperr.Auth(MsgTokenInvalid)
	}
	if err != nil {
		return Verified{}, apperr.Internal("verify email failed", err)
	}
	pair, err := s.tokens.IssuePair(IdentityOf(u))
	if err != nil {
		return Verified{}, apperr.Internal("issue token failed", err)
	}
	s.log.Info(ctx, "email verified", "user_id", u.ID)
	return Verified{Message: "email verified", Token: pair.AccessToken, RefreshToken: pair.RefreshToken, Success: true}, nil
}

// SendPasswordResetEmail always issues a fresh reset token for a known email.
// Every failure is soft.
func (s *Service) SendPasswordResetEmail(ctx context.Context, email string) Result {
	u, err := s.store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error(ctx, "reset email lookup failed", "err", err)
		}
		return Result{Success: false, Message: MsgUserNotFound}
	}
	const failed = "failed to send password reset email"
	raw, hash, err := newOpaqueToken()
	if err != nil {
		s.log.Error(ctx, "generate reset token", "err", err)
		return Result{Success: false, Message: failed}
	}
	t := models.PasswordResetToken{UserID: u.ID, TokenHash: hash, ExpiresAt: s.now().Add(s.cfg.EmailTokenTTL)}
	if err := s.store.CreateResetToken(ctx, &t); err != nil {
		s.log.Error(ctx, "store reset token", "user_id", u.ID, "err", err)
		return Result{Success: false, Message: failed}
	}
	if err := s.mail.SendPasswordResetEmail(ctx, u.Email, s.link("/reset-password", raw)); err != nil {
		s.log.Error(ctx, "send reset email", "user_id", u.ID, "err", err)
		return Result{Success: false, Message: failed}
	}
	return Result{Success: true, Message: "password reset email sent"}
}

// ResetPassword sets a new password from a reset token. Every failure is soft
// and no login tokens are issued.
func (s *Service) ResetPassword(ctx context.Context, raw, newPassword string) Result {
	hash := hashToken(raw)
	now := s.now()
	t, err := s.store.ResetTokenByHash(ctx, hash)
	if err != nil || t.Expired(now) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.log.Error(ctx, "reset token lookup failed", "err", err)
		}
		return Result{Success: false, Message: MsgTokenInvalid}
	}
	if len(newPassword) < password.MinLength {
		return Result{Success: false, Message: MsgPasswordTooShort}
	}
	if len(newPassword) > password.MaxLength {
		return Result{Success: false, Message: MsgPasswordTooLong}
	}
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.log.Error(ctx, "hash password", "err", err)
		return Result{Success: false, Message: "password reset failed"}
	}
	if err := s.store.ConsumeReset(ctx, hash, digest, now); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrExpired) {
			return Result{Success: false, Message: MsgTokenInvalid}
		}
		s.log.Error(ctx, "consume reset token", "user_id", t.UserID, "err", err)
		return Result{Success: false, Message: "password reset failed"}
	}
	s.log.Info(ctx, "password reset", "user_id", t.UserID)
	return Result{Success: true, Message: "password reset successful"}
}

func (s *Service) link(path, raw string) string {
	return s.cfg.BaseURL + path + "?token=" + url.QueryEscape(raw)
}

// newOpaqueToken returns a random hex token and the hash stored in its place.
func newOpaqueToken() (raw, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
