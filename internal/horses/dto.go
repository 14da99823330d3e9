package horses

import (
	"time"

	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
)

// HorseDTO is the transport shape of a horse.
type HorseDTO struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Color          *string    `json:"color,omitempty"`
	Breed          *string    `json:"breed,omitempty"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	Description    *string    `json:"description,omitempty"`
	ProfilePicture *string    `json:"profilePicture,omitempty"`
}

// CreateHorseInput captures the fields for a new horse.
type CreateHorseInput struct {
	Name        string     `json:"name" validate:"required,max=50"`
	Color       *string    `json:"color" validate:"omitempty,max=50"`
	Breed       *string    `json:"breed" validate:"omitempty,max=50"`
	BirthDate   *time.Time `json:"birthDate"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
}

// UpdateHorseInput captures the mutable horse fields.
type UpdateHorseInput struct {
	ID int `json:"id" validate:"required,gt=0"`
	CreateHorseInput
}

// HorseOwnerDTO is a user linked to a horse with their horse role.
type HorseOwnerDTO struct {
	UserID    int             `json:"userId"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	UserRole  enums.HorseRole `json:"userRole"`
}

// HorseProfileDTO is a horse with the users linked to it.
type HorseProfileDTO struct {
	Horse          HorseDTO        `json:"horse"`
	UserHorseRoles []HorseOwnerDTO `json:"userHorseRoles"`
}

// StableHorseDTO is a housing record.
type StableHorseDTO struct {
	ID       int `json:"id"`
	StableID int `json:"stableId"`
	HorseID  int `json:"horseId"`
}

// StableHorseOwnersDTO lists a stable's horse with its owners' names.
type StableHorseOwnersDTO struct {
	StableHorseID int      `json:"stableHorseId"`
	HorseID       int      `json:"horseId"`
	HorseName     string   `json:"horseName"`
	HorseColor    *string  `json:"horseColor,omitempty"`
	HorseBreed    *string  `json:"horseBreed,omitempty"`
	HorseOwners   []string `json:"horseOwners"`
}

type horseUserRow struct {
	HorseID   int
	UserID    int
	FirstName string
	LastName  string
	UserRole  enums.HorseRole
}

type stableHorseRow struct {
	StableHorseID int
	HorseID       int
	HorseName     string
	Color         *string
	Breed         *string
}

func (in CreateHorseInput) ToModel() *models.Horse {
	return &models.Horse{
		Name:        in.Name,
		Color:       in.Color,
		Breed:       in.Breed,
		BirthDate:   in.BirthDate,
		Description: in.Description,
	}
}

func FromModel(h *models.Horse) HorseDTO {
	return HorseDTO{
		ID:             h.ID,
		Name:           h.Name,
		Color:          h.Color,
		Breed:          h.Breed,
		BirthDate:      h.BirthDate,
		Description:    h.Description,
		ProfilePicture: h.ProfilePicture,
	}
}

// withOwners folds owner rows onto their stable horses, keeping only users
// with the Owner horse role, in "First Last" form.
func withOwners(horses []stableHorseRow, users []horseUserRow) []StableHorseOwnersDTO {
	owners := make(map[int][]string, len(horses))
	for _, u := range users {
		if u.UserRole != enums.HorseRoleOwner {
			continue
		}
		owners[u.HorseID] = append(owners[u.HorseID], u.FirstName+" "+u.LastName)
	}
	out := make([]StableHorseOwnersDTO, 0, len(horses))
	for _, h := range horses {
		names := owners[h.HorseID]
		if names == nil {
			names = []string{}
		}
		out = append(out, StableHorseOwnersDTO{
			StableHorseID: h.StableHorseID,
			HorseID:       h.HorseID,
			HorseName:     h.HorseName,
			HorseColor:    h.Color,
			HorseBreed:    h.Breed,
			HorseOwners:   names,
		})
	}
	return out
}
