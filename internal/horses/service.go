package horses

import (
	"context"
	"errors"
	"fmt"

	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"gorm.io/gorm"
)

type horseRepository interface {
	Create(ctx context.Context, horse *models.Horse) error
	FindByID(ctx context.Context, id int) (*models.Horse, error)
	List(ctx context.Context) ([]models.Horse, error)
	Update(ctx context.Context, horse *models.Horse) error
	Delete(ctx context.Context, id int) (int64, error)
	ListUsers(ctx context.Context, horseIDs ...int) ([]horseUserRow, error)
	StableExists(ctx context.Context, id int) (bool, error)
	UserExists(ctx context.Context, id int) (bool, error)
	CreateStableHorse(ctx context.Context, stableID, horseID int) (*models.StableHorse, error)
	ListStableHorses(ctx context.Context, stableID int) ([]models.StableHorse, error)
	ListStableHorsesWithDetails(ctx context.Context, stableID int) ([]stableHorseRow, error)
	DeleteStableHorse(ctx context.Context, id int) (int64, error)
	CreateUserHorse(ctx context.Context, userID, horseID int, role enums.HorseRole) (*models.UserHorse, error)
}

// Service exposes horse registry operations.
type Service interface {
	List(ctx context.Context) ([]HorseDTO, error)
	Get(ctx context.Context, id int) (*HorseDTO, error)
	Profile(ctx context.Context, id int) (*HorseProfileDTO, error)
	Create(ctx context.Context, input CreateHorseInput) (int, error)
	Update(ctx context.Context, input UpdateHorseInput) error
	Delete(ctx context.Context, id int) error

	CreateStableConnection(ctx context.Context, stableID, horseID int) error
	ListByStable(ctx context.Context, stableID int) ([]StableHorseDTO, error)
	ListWithOwnersByStable(ctx context.Context, stableID int) ([]StableHorseOwnersDTO, error)
	RemoveFromStable(ctx context.Context, stableHorseID int) error

	CreateOwnerConnection(ctx context.Context, userID, horseID int) error
}

type service struct {
	repo horseRepository
}

// NewService builds a horse service.
func NewService(repo horseRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("horse repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) load(ctx context.Context, id int) (*models.Horse, error) {
	horse, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Horse not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load horse")
	}
	return horse, nil
}

func (s *service) List(ctx context.Context) ([]HorseDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list horses")
	}
	out := make([]HorseDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int) (*HorseDTO, error) {
	horse, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(horse)
	return &dto, nil
}

func (s *service) Profile(ctx context.Context, id int) (*HorseProfileDTO, error) {
	horse, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list horse users")
	}
	roles := make([]HorseOwnerDTO, 0, len(users))
	for _, u := range users {
		roles = append(roles, HorseOwnerDTO{UserID: u.UserID, FirstName: u.FirstName, LastName: u.LastName, UserRole: u.UserRole})
	}
	return &HorseProfileDTO{Horse: FromModel(horse), UserHorseRoles: roles}, nil
}

func (s *service) Create(ctx context.Context, input CreateHorseInput) (int, error) {
	horse := input.ToModel()
	if err := s.repo.Create(ctx, horse); err != nil {
		return 0, pkgdb.TranslateWriteError(err, "create horse")
	}
	return horse.ID, nil
}

func (s *service) Update(ctx context.Context, input UpdateHorseInput) error {
	horse, err := s.load(ctx, input.ID)
	if err != nil {
		return err
	}
	horse.Name = input.Name
	horse.Color = input.Color
	horse.Breed = input.Breed
	horse.BirthDate = input.BirthDate
	horse.Description = input.Description
	if err := s.repo.Update(ctx, horse); err != nil {
		return pkgdb.TranslateWriteError(err, "update horse")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete horse")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Horse not found.")
	}
	return nil
}

func (s *service) CreateStableConnection(ctx context.Context, stableID, horseID int) error {
	exists, err := s.repo.StableExists(ctx, stableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stable")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Stable not found.")
	}
	if _, err := s.repo.CreateStableHorse(ctx, stableID, horseID); err != nil {
		return pkgdb.TranslateWriteError(err, "link horse to stable")
	}
	return nil
}

func (s *service) ListByStable(ctx context.Context, stableID int) ([]StableHorseDTO, error) {
	rows, err := s.repo.ListStableHorses(ctx, stableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stable horses")
	}
	out := make([]StableHorseDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, StableHorseDTO{ID: row.ID, StableID: row.StableID, HorseID: row.HorseID})
	}
	return out, nil
}

func (s *service) ListWithOwnersByStable(ctx context.Context, stableID int) ([]StableHorseOwnersDTO, error) {
	horses, err := s.repo.ListStableHorsesWithDetails(ctx, stableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stable horses")
	}
	ids := make([]int, 0, len(horses))
	for _, h := range horses {
		ids = append(ids, h.HorseID)
	}
	users, err := s.repo.ListUsers(ctx, ids...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list horse owners")
	}
	return withOwners(horses, users), nil
}

func (s *service) RemoveFromStable(ctx context.Context, stableHorseID int) error {
	affected, err := s.repo.DeleteStableHorse(ctx, stableHorseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove horse from stable")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotAcceptable, "Connection between horse and stable was not found.")
	}
	return nil
}

func (s *service) CreateOwnerConnection(ctx context.Context, userID, horseID int) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
	}
	if _, err := s.repo.CreateUserHorse(ctx, userID, horseID, enums.HorseRoleOwner); err != nil {
		return pkgdb.TranslateWriteError(err, "link user to horse")
	}
	return nil
}
