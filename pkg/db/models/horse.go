package models

import (
	"time"

	"github.com/equilog/equilog-backend/pkg/enums"
)

// Horse is the primary entity for the horse registry.
type Horse struct {
	ID             int        `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string     `gorm:"column:name;not null"`
	Color          *string    `gorm:"column:color"`
	Breed          *string    `gorm:"column:breed"`
	BirthDate      *time.Time `gorm:"column:birth_date"`
	Description    *string    `gorm:"column:description"`
	ProfilePicture *string    `gorm:"column:profile_picture"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// StableHorse records where a horse is housed.
type StableHorse struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	StableID  int       `gorm:"column:stable_id;not null"`
	HorseID   int       `gorm:"column:horse_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// UserHorse records a user's relationship to a horse.
type UserHorse struct {
	ID        int             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int             `gorm:"column:user_id;not null"`
	HorseID   int             `gorm:"column:horse_id;not null"`
	UserRole  enums.HorseRole `gorm:"column:user_role;type:smallint;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
