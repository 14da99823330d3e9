package password

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/equilog/equilog-backend/pkg/config"
	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/security"
	"gorm.io/gorm"
)

// ResetRequestDTO is returned to callers that need to deliver the token.
type ResetRequestDTO struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	Token          string    `json:"token"`
	ExpirationDate time.Time `json:"expirationDate"`
}

// ResetPasswordInput is submitted from the reset link.
type ResetPasswordInput struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// ChangePasswordInput is submitted by an authenticated user.
type ChangePasswordInput struct {
	UserID          int    `json:"-"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type resetRepository interface {
	Create(ctx context.Context, req *models.PasswordResetRequest) error
	FindByToken(ctx context.Context, token string) (*models.PasswordResetRequest, error)
	FindByEmail(ctx context.Context, email string) (*models.PasswordResetRequest, error)
	Delete(ctx context.Context, id int) (int64, error)
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int, hash string) (int64, error)
}

// Service covers password reset and change flows.
type Service interface {
	CreateResetRequest(ctx context.Context, email string) (*ResetRequestDTO, error)
	DeleteResetRequest(ctx context.Context, id int) error
	Reset(ctx context.Context, input ResetPasswordInput) error
	Change(ctx context.Context, input ChangePasswordInput) error
}

type service struct {
	repo     resetRepository
	users    userStore
	hashing  config.PasswordConfig
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

// NewService builds the password service.
func NewService(repo resetRepository, users userStore, hashing config.PasswordConfig, reset config.PasswordResetConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("password reset repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	ttl := reset.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{
		repo:     repo,
		users:    users,
		hashing:  hashing,
		ttl:      ttl,
		now:      time.Now,
		newToken: security.GenerateResetToken,
	}, nil
}

var (
	errInvalidToken = pkgerrors.New(pkgerrors.CodeNotFound, "Invalid password reset token.")
	errMismatch     = pkgerrors.New(pkgerrors.CodeValidation, "Passwords do not match.")
)

// CreateResetRequest replaces any pending request for email with a fresh one.
func (s *service) CreateResetRequest(ctx context.Context, email string) (*ResetRequestDTO, error) {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Account with the email %s does not exist.", email))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := s.repo.Delete(ctx, existing.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete previous reset request")
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset request")
	}

	req := &models.PasswordResetRequest{
		Email:          email,
		Token:          s.newToken(),
		ExpirationDate: s.now().UTC().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, pkgdb.TranslateWriteError(err, "create reset request")
	}
	return &ResetRequestDTO{ID: req.ID, Email: req.Email, Token: req.Token, ExpirationDate: req.ExpirationDate}, nil
}

func (s *service) DeleteResetRequest(ctx context.Context, id int) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reset request")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Password reset request not found.")
	}
	return nil
}

func (s *service) Reset(ctx context.Context, input ResetPasswordInput) error {
	req, err := s.repo.FindByToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errInvalidToken
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset request")
	}
	if req.Expired(s.now().UTC()) {
		if _, err := s.repo.Delete(ctx, req.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete expired reset request")
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "Password reset token has expired.")
	}
	if input.NewPassword != input.ConfirmPassword {
		return errMismatch
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if err := s.storePassword(ctx, user.ID, input.NewPassword); err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, req.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reset request")
	}
	return nil
}

func (s *service) Change(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil || !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Current password is incorrect.")
	}
	if input.NewPassword != input.ConfirmPassword {
		return errMismatch
	}
	return s.storePassword(ctx, user.ID, input.NewPassword)
}

func (s *service) storePassword(ctx context.Context, userID int, plain string) error {
	hash, err := security.HashPassword(plain, s.hashing)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}
	affected, err := s.users.UpdatePasswordHash(ctx, userID, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
	}
	return nil
}
