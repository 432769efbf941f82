package models

import "time"

// EmailVerificationToken is a single-use activation credential. Only the SHA-256
// hash of the token sent by email is stored.
type EmailVerificationToken struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TokenHash string    `gorm:"size:128;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// PasswordResetToken has the same shape as EmailVerificationToken, scoped to password reset.
type PasswordResetToken struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TokenHash string    `gorm:"size:128;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

func (t EmailVerificationToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

func (t PasswordResetToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }
