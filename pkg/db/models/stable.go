package models

import "time"

// Stable is a yard that houses horses and groups members.
type Stable struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string    `gorm:"column:name;not null"`
	Type           string    `gorm:"column:type;not null;default:''"`
	County         string    `gorm:"column:county;not null;default:''"`
	Address        string    `gorm:"column:address;not null;default:''"`
	PostCode       string    `gorm:"column:post_code;not null;default:''"`
	BoxCount       int       `gorm:"column:box_count;not null;default:0"`
	ProfilePicture *string   `gorm:"column:profile_picture"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// StableLocation is reference data keyed by a five digit post code.
type StableLocation struct {
	PostCode         string  `gorm:"column:post_code;primaryKey"`
	City             string  `gorm:"column:city;not null"`
	MunicipalityName string  `gorm:"column:municipality_name;not null"`
	CountyName       string  `gorm:"column:county_name;not null"`
	Latitude         float64 `gorm:"column:latitude;not null"`
	Longitude        float64 `gorm:"column:longitude;not null"`
}
