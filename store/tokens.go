package store

import (
	"context"
	"time"

	"tikclone/models"

	"gorm.io/gorm"
)

func (s *Store) CreateVerificationToken(ctx context.Context, t *models.EmailVerificationToken) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *Store) CreateResetToken(ctx context.Context, t *models.PasswordResetToken) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *Store) ResetTokenByHash(ctx context.Context, hash string) (models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := s.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t).Error
	return t, translate(err)
}

// claim deletes the token row by hash. A concurrent consumer that deleted it
// first leaves nothing behind, and the loser gets ErrNotFound.
func claim(tx *gorm.DB, model any, hash string) error {
	res := tx.Where("token_hash = ?", hash).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeVerification activates the token's owner and deletes every verification
// token the owner holds, in one transaction. Unknown tokens yield ErrNotFound,
// expired ones ErrExpired; neither changes anything.
func (s *Store) ConsumeVerification(ctx context.Context, hash string, now time.Time) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.EmailVerificationToken
		if err := tx.Where("token_hash = ?", hash).First(&t).Error; err != nil {
			return translate(err)
		}
		if t.Expired(now) {
			return ErrExpired
		}
		if err := claim(tx, &models.EmailVerificationToken{}, hash); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", t.UserID).Update("active", true).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", t.UserID).Delete(&models.EmailVerificationToken{}).Error; err != nil {
			return err
		}
		return translate(tx.First(&user, t.UserID).Error)
	})
	return user, err
}

// ConsumeReset stores the new password digest and deletes every reset token of
// the owner, in one transaction.
func (s *Store) ConsumeReset(ctx context.Context, hash string, digest []byte, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.PasswordResetToken
		if err := tx.Where("token_hash = ?", hash).First(&t).Error; err != nil {
			return translate(err)
		}
		if t.Expired(now) {
			return ErrExpired
		}
		if err := claim(tx, &models.PasswordResetToken{}, hash); err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", t.UserID).Update("hashed_password", digest)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("user_id = ?", t.UserID).Delete(&models.PasswordResetToken{}).Error
	})
}

// ExpiredTokenCounts is what PurgeExpiredTokens found (and deleted unless dry-run).
type ExpiredTokenCounts struct {
	Verification int64
	Reset        int64
}

// PurgeExpiredTokens removes verification and reset tokens that expired before
// now. With dryRun it only counts them.
func (s *Store) PurgeExpiredTokens(ctx context.Context, now time.Time, dryRun bool) (ExpiredTokenCounts, error) {
	var c ExpiredTokenCounts
	db := s.db.WithContext(ctx)
	if dryRun {
		if err := db.Model(&models.EmailVerificationToken{}).Where("expires_at <= ?", now).Count(&c.Verification).Error; err != nil {
			return c, err
		}
		err := db.Model(&models.PasswordResetToken{}).Where("expires_at <= ?", now).Count(&c.Reset).Error
		return c, err
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("expires_at <= ?", now).Delete(&models.EmailVerificationToken{})
		if res.Error != nil {
			return res.Error
		}
		c.Verification = res.RowsAffected
		res = tx.Where("expires_at <= ?", now).Delete(&models.PasswordResetToken{})
		if res.Error != nil {
			return res.Error
		}
		c.Reset = res.RowsAffected
		return nil
	})
	return c, err
}
