package stables

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/pagination"
	"gorm.io/gorm"
)

// MaxSearchTermLength caps the search term in runes.
const MaxSearchTermLength = 50

type stableRepository interface {
	Create(ctx context.Context, stable *models.Stable) error
	FindByID(ctx context.Context, id int) (*models.Stable, error)
	CountMembersAndHorses(ctx context.Context, id int) (int64, int64, error)
	Search(ctx context.Context, term string, page pagination.Page) ([]models.Stable, error)
	Update(ctx context.Context, stable *models.Stable) error
	SetProfilePicture(ctx context.Context, id int, pictureURL string) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	FindLocation(ctx context.Context, postCode string) (*models.StableLocation, error)
}

// Service exposes stable operations.
type Service interface {
	Get(ctx context.Context, id int) (*StableDTO, error)
	Search(ctx context.Context, params SearchParams) ([]StableSearchDTO, error)
	Create(ctx context.Context, input CreateStableInput) (int, error)
	Update(ctx context.Context, input UpdateStableInput) error
	SetProfilePicture(ctx context.Context, id int, pictureURL string) error
	Delete(ctx context.Context, id int) error
	Location(ctx context.Context, postCode string) (*StableLocationDTO, error)
}

type service struct {
	repo stableRepository
}

// NewService builds a stable service.
func NewService(repo stableRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stable repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) load(ctx context.Context, id int) (*models.Stable, error) {
	stable, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Stable not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stable")
	}
	return stable, nil
}

func (s *service) Get(ctx context.Context, id int) (*StableDTO, error) {
	stable, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	members, horses, err := s.repo.CountMembersAndHorses(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stable roster")
	}
	return fromModel(stable, members, horses), nil
}

func (s *service) Search(ctx context.Context, params SearchParams) ([]StableSearchDTO, error) {
	page := pagination.Page{Page: params.Page, PageSize: params.PageSize}.Normalize()
	rows, err := s.repo.Search(ctx, NormalizeSearchTerm(params.SearchTerm), page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search stables")
	}
	return searchHits(rows), nil
}

// NormalizeSearchTerm truncates term to MaxSearchTermLength runes, trims it
// and lowercases it.
func NormalizeSearchTerm(term string) string {
	runes := []rune(term)
	if len(runes) > MaxSearchTermLength {
		runes = runes[:MaxSearchTermLength]
	}
	return strings.ToLower(strings.TrimSpace(string(runes)))
}

func (s *service) Create(ctx context.Context, input CreateStableInput) (int, error) {
	stable := input.ToModel()
	if err := s.repo.Create(ctx, stable); err != nil {
		return 0, pkgdb.TranslateWriteError(err, "create stable")
	}
	return stable.ID, nil
}

func (s *service) Update(ctx context.Context, input UpdateStableInput) error {
	stable, err := s.load(ctx, input.ID)
	if err != nil {
		return err
	}
	stable.Name = input.Name
	stable.Type = input.Type
	stable.County = input.County
	stable.Address = input.Address
	stable.PostCode = input.PostCode
	stable.BoxCount = input.BoxCount
	if err := s.repo.Update(ctx, stable); err != nil {
		return pkgdb.TranslateWriteError(err, "update stable")
	}
	return nil
}

func (s *service) SetProfilePicture(ctx context.Context, id int, pictureURL string) error {
	affected, err := s.repo.SetProfilePicture(ctx, id, pictureURL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set stable picture")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Stable not found.")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stable")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Stable not found.")
	}
	return nil
}

func (s *service) Location(ctx context.Context, postCode string) (*StableLocationDTO, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, postCode)
	if len(digits) != 5 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Post code must contain exactly 5 digits.")
	}
	loc, err := s.repo.FindLocation(ctx, digits)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Post code not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post code")
	}
	return locationFromModel(loc), nil
}
