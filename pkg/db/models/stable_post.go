package models

import "time"

// StablePost is a message pinned to a stable's board.
type StablePost struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	StableID  int       `gorm:"column:stable_id;not null"`
	UserID    int       `gorm:"column:user_id;not null"`
	Title     string    `gorm:"column:title;not null"`
	Content   string    `gorm:"column:content;not null"`
	Date      time.Time `gorm:"column:date;not null"`
	IsPinned  bool      `gorm:"column:is_pinned;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
