package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/equilog/equilog-backend/internal/memberships"
	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"gorm.io/gorm"
)

type userRepository interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetProfilePicture(ctx context.Context, id int, pictureURL string) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	ListHorsesInStable(ctx context.Context, userID, stableID int) ([]HorseWithRoleDTO, error)
}

type membershipReader interface {
	FindByUserAndStable(ctx context.Context, userID, stableID int) (*models.UserStable, error)
}

// Service exposes user profile operations.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	Get(ctx context.Context, id int) (*UserDTO, error)
	Profile(ctx context.Context, userID, stableID int) (*UserProfileDTO, error)
	Update(ctx context.Context, input UpdateUserInput) error
	Delete(ctx context.Context, id int) error
	SetProfilePicture(ctx context.Context, id int, pictureURL string) error
}

type service struct {
	repo        userRepository
	memberships membershipReader
}

// NewService builds a user service.
func NewService(repo userRepository, memberships membershipReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if memberships == nil {
		return nil, fmt.Errorf("membership repository required")
	}
	return &service{repo: repo, memberships: memberships}, nil
}

func (s *service) load(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Profile(ctx context.Context, userID, stableID int) (*UserProfileDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	membership, err := s.memberships.FindByUserAndStable(ctx, userID, stableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User stable connection not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	horses, err := s.repo.ListHorsesInStable(ctx, userID, stableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user horses")
	}
	return &UserProfileDTO{
		User: *FromModel(user),
		UserStableRole: memberships.UserStableRoleDTO{
			UserID:   membership.UserID,
			StableID: membership.StableID,
			Role:     membership.Role,
		},
		UserHorseRoles: horses,
	}, nil
}

func (s *service) Update(ctx context.Context, input UpdateUserInput) error {
	user, err := s.load(ctx, input.ID)
	if err != nil {
		return err
	}
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Email = input.Email
	user.EmergencyContact = input.EmergencyContact
	user.CoreInformation = input.CoreInformation
	user.Description = input.Description
	user.PhoneNumber = input.PhoneNumber
	if err := s.repo.Update(ctx, user); err != nil {
		return pkgdb.TranslateWriteError(err, "update user")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
	}
	return nil
}

func (s *service) SetProfilePicture(ctx context.Context, id int, pictureURL string) error {
	affected, err := s.repo.SetProfilePicture(ctx, id, pictureURL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set profile picture")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
	}
	return nil
}
