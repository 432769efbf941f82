package models

import "time"

// Like is unique per (user, video).
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_video" json:"userId"`
	VideoID   uint      `gorm:"not null;uniqueIndex:idx_like_user_video;index" json:"videoId"`
	Video     Video     `gorm:"foreignKey:VideoID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Follow is unique per (follower, following).
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"followerId"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followingId"`
	Follower    User      `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Content   string    `gorm:"size:500;not null" json:"content"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	VideoID   uint      `gorm:"index;not null" json:"videoId"`
	Video     Video     `gorm:"foreignKey:VideoID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// CommentAuthor is the author summary attached to listed comments.
type CommentAuthor struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
}

// CommentView is a listed comment joined with its author.
type CommentView struct {
	ID        uint          `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Content   string        `json:"content"`
	VideoID   uint          `json:"videoId"`
	UserID    uint          `json:"userId"`
	Author    CommentAuthor `gorm:"-" json:"user"`
}
