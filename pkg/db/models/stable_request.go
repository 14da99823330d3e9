package models

import "time"

// StableInvite is an outstanding invitation for a user to join a stable.
type StableInvite struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int       `gorm:"column:user_id;not null"`
	StableID  int       `gorm:"column:stable_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// StableJoinRequest is a user's pending request to join a stable.
type StableJoinRequest struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int       `gorm:"column:user_id;not null"`
	StableID  int       `gorm:"column:stable_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
