package models

import (
	"time"
)

// User model. Username and Email are unique; HashedPassword never leaves the server.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Username       string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword []byte    `gorm:"not null" json:"-"`
	Fullname       string    `gorm:"size:255;not null" json:"fullname"`
	AvatarURL      string    `gorm:"size:512" json:"avatarUrl"`
	Bio            string    `gorm:"size:512" json:"bio"`
	// Active is set once the email address has been verified.
	Active  bool `gorm:"default:false;not null" json:"active"`
	IsAdmin bool `gorm:"default:false;not null" json:"isAdmin"`
}

// PublicUser is the subset of a user exposed to other users.
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Fullname  string    `json:"fullname"`
	AvatarURL string    `json:"avatarUrl"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Fullname: u.Fullname, AvatarURL: u.AvatarURL, Bio: u.Bio, CreatedAt: u.CreatedAt}
}
