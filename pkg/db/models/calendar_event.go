package models

import "time"

// CalendarEvent is a booking on a stable's shared calendar.
type CalendarEvent struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement"`
	StableID      int       `gorm:"column:stable_id;not null"`
	UserID        int       `gorm:"column:user_id;not null"`
	Title         string    `gorm:"column:title;not null"`
	StartDateTime time.Time `gorm:"column:start_date_time;not null"`
	EndDateTime   time.Time `gorm:"column:end_date_time;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
