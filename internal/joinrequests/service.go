package joinrequests

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

// JoinRequestInput identifies a join request.
type JoinRequestInput struct {
	UserID   int `json:"userId" validate:"required,gt=0"`
	StableID int `json:"stableId" validate:"required,gt=0"`
}

// RequestedStableDTO is a stable the user asked to join.
type RequestedStableDTO struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	County string `json:"county"`
}

type joinRequestRepository interface {
	ListRequestingUsers(ctx context.Context, stableID int) ([]models.User, error)
	ListRequestedStables(ctx context.Context, userID int) ([]models.Stable, error)
	IsMember(ctx context.Context, userID, stableID int) (bool, error)
	Exists(ctx context.Context, userID, stableID int) (bool, error)
	Create(ctx context.Context, userID, stableID int) error
	Delete(ctx context.Context, tx *gorm.DB, userID, stableID int) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes stable join request operations.
type Service interface {
	ListByStable(ctx context.Context, stableID int) ([]users.UserDTO, error)
	ListByUser(ctx context.Context, userID int) ([]RequestedStableDTO, error)
	Create(ctx context.Context, input JoinRequestInput) error
	Accept(ctx context.Context, input JoinRequestInput) error
	Refuse(ctx context.Context, input JoinRequestInput) error
}

type service struct {
	repo joinRequestRepository
	tx   txRunner
}

// NewService builds a join request service.
func NewService(repo joinRequestRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("join request repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

var errRequestNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "Stable join request not found.")

func (s *service) ListByStable(ctx context.Context, stableID int) ([]users.UserDTO, error) {
	rows, err := s.repo.ListRequestingUsers(ctx, stableID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list join requests")
	}
	out := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *users.FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]RequestedStableDTO, error) {
	rows, err := s.repo.ListRequestedStables(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list join requests")
	}
	out := make([]RequestedStableDTO, 0, len(rows))
	for _, st := range rows {
		out = append(out, RequestedStableDTO{ID: st.ID, Name: st.Name, County: st.County})
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input JoinRequestInput) error {
	member, err := s.repo.IsMember(ctx, input.UserID, input.StableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if member {
		return pkgerrors.New(pkgerrors.CodeValidation, "User is already a member of this stable.")
	}
	exists, err := s.repo.Exists(ctx, input.UserID, input.StableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check join request")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeValidation, "User has already sent a join request to this stable.")
	}
	if err := s.repo.Create(ctx, input.UserID, input.StableID); err != nil {
		return pkgdb.TranslateWriteError(err, "create join request")
	}
	return nil
}

// Accept consumes the request and adds the user as a Member in one transaction.
func (s *service) Accept(ctx context.Context, input JoinRequestInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.Delete(ctx, tx, input.UserID, input.StableID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete join request")
		}
		if affected == 0 {
			return errRequestNotFound
		}
		membership := &models.UserStable{UserID: input.UserID, StableID: input.StableID, Role: enums.StableRoleMember}
		if err := tx.WithContext(ctx).Create(membership).Error; err != nil {
			return pkgdb.TranslateWriteError(err, "create membership")
		}
		return nil
	})
}

func (s *service) Refuse(ctx context.Context, input JoinRequestInput) error {
	affected, err := s.repo.Delete(ctx, nil, input.UserID, input.StableID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete join request")
	}
	if affected == 0 {
		return errRequestNotFound
	}
	return nil
}
