package stables

import "github.com/equilog/equilog-backend/pkg/db/models"

// StableDTO is a stable with its roster sizes.
type StableDTO struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	County         string  `json:"county"`
	Address        string  `json:"address"`
	PostCode       string  `json:"postCode"`
	BoxCount       int     `json:"boxCount"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	MemberCount    int64   `json:"memberCount"`
	HorseCount     int64   `json:"horseCount"`
}

// StableSearchDTO is one search hit.
type StableSearchDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	County   string `json:"county"`
	Address  string `json:"address"`
	PostCode string `json:"postCode"`
}

// SearchParams are the raw, unclamped search inputs.
type SearchParams struct {
	SearchTerm string `json:"searchTerm"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}

// CreateStableInput captures the fields for a new stable.
type CreateStableInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Type     string `json:"type" validate:"omitempty,max=50"`
	County   string `json:"county" validate:"omitempty,max=50"`
	Address  string `json:"address" validate:"omitempty,max=200"`
	PostCode string `json:"postCode" validate:"omitempty,max=10"`
	BoxCount int    `json:"boxCount" validate:"gte=0"`
}

// UpdateStableInput captures the mutable stable fields.
type UpdateStableInput struct {
	ID int `json:"id" validate:"required,gt=0"`
	CreateStableInput
}

// StableLocationDTO is reference data for a post code.
type StableLocationDTO struct {
	PostCode         string  `json:"postCode"`
	City             string  `json:"city"`
	MunicipalityName string  `json:"municipalityName"`
	CountyName       string  `json:"countyName"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

func (in CreateStableInput) ToModel() *models.Stable {
	return &models.Stable{
		Name:     in.Name,
		Type:     in.Type,
		County:   in.County,
		Address:  in.Address,
		PostCode: in.PostCode,
		BoxCount: in.BoxCount,
	}
}

func fromModel(s *models.Stable, members, horses int64) *StableDTO {
	return &StableDTO{
		ID:             s.ID,
		Name:           s.Name,
		Type:           s.Type,
		County:         s.County,
		Address:        s.Address,
		PostCode:       s.PostCode,
		BoxCount:       s.BoxCount,
		ProfilePicture: s.ProfilePicture,
		MemberCount:    members,
		HorseCount:     horses,
	}
}

func searchHits(rows []models.Stable) []StableSearchDTO {
	out := make([]StableSearchDTO, 0, len(rows))
	for _, s := range rows {
		out = append(out, StableSearchDTO{
			ID:       s.ID,
			Name:     s.Name,
			County:   s.County,
			Address:  s.Address,
			PostCode: s.PostCode,
		})
	}
	return out
}

func locationFromModel(l *models.StableLocation) *StableLocationDTO {
	return &StableLocationDTO{
		PostCode:         l.PostCode,
		City:             l.City,
		MunicipalityName: l.MunicipalityName,
		CountyName:       l.CountyName,
		Latitude:         l.Latitude,
		Longitude:        l.Longitude,
	}
}
