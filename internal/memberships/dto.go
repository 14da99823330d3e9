package memberships

import (
	"time"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
)

// UserStableDTO is the transport shape for a raw membership record.
type UserStableDTO struct {
	ID       int              `json:"id"`
	UserID   int              `json:"userId"`
	StableID int              `json:"stableId"`
	Role     enums.StableRole `json:"role"`
}

// StableUserDTO mixes membership metadata with the member's profile.
type StableUserDTO struct {
	UserStableID   int              `json:"userStableId"`
	UserID         int              `json:"userId"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Email          string           `json:"email"`
	ProfilePicture *string          `json:"profilePicture,omitempty"`
	Role           enums.StableRole `json:"role"`
	JoinedAt       time.Time        `json:"joinedAt"`
}

// UserStableRoleDTO reports a user's role in one stable.
type UserStableRoleDTO struct {
	UserID   int              `json:"userId"`
	StableID int              `json:"stableId"`
	Role     enums.StableRole `json:"role"`
}

type stableUserRow struct {
	models.UserStable
	FirstName      string  `gorm:"column:first_name"`
	LastName       string  `gorm:"column:last_name"`
	Email          string  `gorm:"column:email"`
	ProfilePicture *string `gorm:"column:profile_picture"`
}

// FromModel maps a membership row to its DTO.
func FromModel(m models.UserStable) UserStableDTO {
	return UserStableDTO{
		ID:       m.ID,
		UserID:   m.UserID,
		StableID: m.StableID,
		Role:     m.Role,
	}
}

func fromModels(rows []models.UserStable) []UserStableDTO {
	out := make([]UserStableDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

func stableUsersFromRows(rows []stableUserRow) []StableUserDTO {
	out := make([]StableUserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, StableUserDTO{
			UserStableID:   row.ID,
			UserID:         row.UserID,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			Email:          row.Email,
			ProfilePicture: row.ProfilePicture,
			Role:           row.Role,
			JoinedAt:       row.CreatedAt,
		})
	}
	return out
}
