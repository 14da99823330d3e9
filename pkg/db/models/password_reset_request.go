package models

import "time"

type PasswordResetRequest struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement"`
	Email          string    `gorm:"column:email;not null"`
	Token          string    `gorm:"column:token;not null;uniqueIndex"`
	ExpirationDate time.Time `gorm:"column:expiration_date;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Expired reports whether the request is no longer usable at now.
func (r PasswordResetRequest) Expired(now time.Time) bool {
	return !now.Before(r.ExpirationDate)
}
