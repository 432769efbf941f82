package models

import (
	"time"
)

// Video is the metadata record of an uploaded clip. The media itself lives on the media host.
type Video struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Title        string    `gorm:"size:255" json:"title"`
	URL          string    `gorm:"size:1024;not null" json:"url"`
	StorageKey   string    `gorm:"size:512" json:"-"`
	ThumbnailURL *string   `gorm:"size:1024" json:"thumbnailUrl"`
	ThumbnailKey string    `gorm:"size:512" json:"-"`
	// Path is the short public identifier used in share links.
	Path   string `gorm:"size:16;not null;uniqueIndex" json:"path"`
	UserID uint   `gorm:"index;not null" json:"userId"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// VideoStats is a Video row with its aggregated counters.
type VideoStats struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	Path         string    `json:"path"`
	UserID       uint      `json:"userId"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
}
