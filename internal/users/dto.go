package users

import (
	"time"

	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID               int       `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	PhoneNumber      *string   `json:"phoneNumber,omitempty"`
	EmergencyContact *string   `json:"emergencyContact,omitempty"`
	CoreInformation  *string   `json:"coreInformation,omitempty"`
	Description      *string   `json:"description,omitempty"`
	ProfilePicture   *string   `json:"profilePicture,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateUserDTO holds the data required to persist a new user.
type CreateUserDTO struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PhoneNumber  *string
}

// UpdateUserInput captures the mutable profile fields.
type UpdateUserInput struct {
	ID               int     `json:"id" validate:"required,gt=0"`
	FirstName        string  `json:"firstName" validate:"required,max=50"`
	LastName         string  `json:"lastName" validate:"required,max=50"`
	Email            string  `json:"email" validate:"required,email,max=254"`
	EmergencyContact *string `json:"emergencyContact" validate:"omitempty,max=100"`
	CoreInformation  *string `json:"coreInformation" validate:"omitempty,max=1000"`
	Description      *string `json:"description" validate:"omitempty,max=1000"`
	PhoneNumber      *string `json:"phoneNumber" validate:"omitempty,max=20"`
}

// HorseWithRoleDTO is a horse the user is linked to, with the user's horse role.
type HorseWithRoleDTO struct {
	HorseID   int             `json:"horseId"`
	HorseName string          `json:"horseName"`
	Color     *string         `json:"color,omitempty"`
	Breed     *string         `json:"breed,omitempty"`
	UserRole  enums.HorseRole `json:"userRole"`
}

// UserProfileDTO describes a user as seen from one stable.
type UserProfileDTO struct {
	User           UserDTO                       `json:"user"`
	UserStableRole memberships.UserStableRoleDTO `json:"userStableRole"`
	UserHorseRoles []HorseWithRoleDTO            `json:"userHorseRoles"`
}

func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		PhoneNumber:  d.PhoneNumber,
	}
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		PhoneNumber:      u.PhoneNumber,
		EmergencyContact: u.EmergencyContact,
		CoreInformation:  u.CoreInformation,
		Description:      u.Description,
		ProfilePicture:   u.ProfilePicture,
		CreatedAt:        u.CreatedAt,
	}
}
