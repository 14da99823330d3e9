package memberships

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

type membershipRepository interface {
	Create(ctx context.Context, userID, stableID int, role enums.StableRole) (*models.UserStable, error)
	FindByUserAndStable(ctx context.Context, userID, stableID int) (*models.UserStable, error)
	ListByUser(ctx context.Context, userID int) ([]models.UserStable, error)
	ListByStable(ctx context.Context, stableID int) ([]StableUserDTO, error)
	UpdateRole(ctx context.Context, id int, role enums.StableRole) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	DeleteByUserAndStable(ctx context.Context, userID, stableID int) (int64, error)
}

// Service exposes membership operations.
type Service interface {
	ListStablesByUser(ctx context.Context, userID int) ([]UserStableDTO, error)
	ListUsersByStable(ctx context.Context, stableID int) ([]StableUserDTO, error)
	GetRole(ctx context.Context, userID, stableID int) (*UserStableRoleDTO, error)
	UpdateRole(ctx context.Context, userStableID int, role enums.StableRole) error
	LeaveStable(ctx context.Context, userID, stableID int) error
	RemoveMember(ctx context.Context, userStableID int) error
	CreateOwnerConnection(ctx context.Context, userID, stableID int) (*UserStableDTO, error)
}

type service struct {
	repo membershipRepository
}

// NewService builds a membership service.
func NewService(repo membershipRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("membership repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListStablesByUser(ctx context.Context, userID int) ([]UserStableDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user stables")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not connected to any stables.")
	}
	return fromModels(rows), nil
}

func (s *service) ListUsersByStable(ctx context.Context, stableID int) ([]StableUserDTO, error) {
	users, err := s.repo.ListByStable(ctx, stableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stable users")
	}
	if len(users) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("No users found for stable with ID %d.", stableID))
	}
	return users, nil
}

func (s *service) GetRole(ctx context.Context, userID, stableID int) (*UserStableRoleDTO, error) {
	membership, err := s.repo.FindByUserAndStable(ctx, userID, stableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not connected to stable.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return &UserStableRoleDTO{UserID: membership.UserID, StableID: membership.StableID, Role: membership.Role}, nil
}

func (s *service) UpdateRole(ctx context.Context, userStableID int, role enums.StableRole) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stable role %d", role))
	}
	affected, err := s.repo.UpdateRole(ctx, userStableID, role)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Connection between user and stable not found.")
	}
	return nil
}

func (s *service) LeaveStable(ctx context.Context, userID, stableID int) error {
	affected, err := s.repo.DeleteByUserAndStable(ctx, userID, stableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "leave stable")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "User not connected to stable.")
	}
	return nil
}

func (s *service) RemoveMember(ctx context.Context, userStableID int) error {
	affected, err := s.repo.Delete(ctx, userStableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Connection between user and stable not found.")
	}
	return nil
}

func (s *service) CreateOwnerConnection(ctx context.Context, userID, stableID int) (*UserStableDTO, error) {
	membership, err := s.repo.Create(ctx, userID, stableID, enums.StableRoleOwner)
	if err != nil {
		if pkgdb.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User or stable not found.")
		}
		return nil, pkgdb.TranslateWriteError(err, "create connection between user and stable")
	}
	dto := FromModel(*membership)
	return &dto, nil
}
