package models

import "time"

// User represents the canonical identity entity.
type User struct {
	ID               int       `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName        string    `gorm:"column:first_name;not null"`
	LastName         string    `gorm:"column:last_name;not null"`
	Email            string    `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash     string    `gorm:"column:password_hash;not null"`
	PhoneNumber      *string   `gorm:"column:phone_number"`
	EmergencyContact *string   `gorm:"column:emergency_contact"`
	CoreInformation  *string   `gorm:"column:core_information"`
	Description      *string   `gorm:"column:description"`
	ProfilePicture   *string   `gorm:"column:profile_picture"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
