package invites

import (
	"context"
	"fmt"

	"github.com/equilog/equilog-backend/internal/users"
	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"gorm.io/gorm"
)

// InviteInput identifies an invite.
type InviteInput struct {
	UserID   int `json:"userId" validate:"required,gt=0"`
	StableID int `json:"stableId" validate:"required,gt=0"`
}

type inviteRepository interface {
	ListInvitedUsers(ctx context.Context, stableID int) ([]models.User, error)
	IsMember(ctx context.Context, userID, stableID int) (bool, error)
	Create(ctx context.Context, userID, stableID int) error
	Delete(ctx context.Context, tx *gorm.DB, userID, stableID int) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes stable invite operations.
type Service interface {
	ListInvitedUsers(ctx context.Context, stableID int) ([]users.UserDTO, error)
	Create(ctx context.Context, input InviteInput) error
	Accept(ctx context.Context, input InviteInput) error
	Refuse(ctx context.Context, input InviteInput) error
}

type service struct {
	repo inviteRepository
	tx   txRunner
}

// NewService builds an invite service.
func NewService(repo inviteRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invite repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

var errInviteNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "Stable invite not found.")

func (s *service) ListInvitedUsers(ctx context.Context, stableID int) ([]users.UserDTO, error) {
	rows, err := s.repo.ListInvitedUsers(ctx, stableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stable invites")
	}
	out := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *users.FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input InviteInput) error {
	member, err := s.repo.IsMember(ctx, input.UserID, input.StableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if member {
		return pkgerrors.New(pkgerrors.CodeValidation, "User is already a member of this stable.")
	}
	if err := s.repo.Create(ctx, input.UserID, input.StableID); err != nil {
		return pkgdb.TranslateWriteError(err, "create stable invite")
	}
	return nil
}

// Accept consumes the invite and adds the user as a Member in one transaction.
func (s *service) Accept(ctx context.Context, input InviteInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.Delete(ctx, tx, input.UserID, input.StableID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stable invite")
		}
		if affected == 0 {
			return errInviteNotFound
		}
		membership := &models.UserStable{UserID: input.UserID, StableID: input.StableID, Role: enums.StableRoleMember}
		if err := tx.WithContext(ctx).Create(membership).Error; err != nil {
			return pkgdb.TranslateWriteError(err, "create membership")
		}
		return nil
	})
}

func (s *service) Refuse(ctx context.Context, input InviteInput) error {
	affected, err := s.repo.Delete(ctx, nil, input.UserID, input.StableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stable invite")
	}
	if affected == 0 {
		return errInviteNotFound
	}
	return nil
}
