package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/equilog/equilog-backend/internal/email"
	"github.com/equilog/equilog-backend/internal/users"
	pkgAuth "github.com/equilog/equilog-backend/pkg/auth"
	"github.com/equilog/equilog-backend/pkg/auth/session"
	"github.com/equilog/equilog-backend/pkg/config"
	pkgdb "github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/db/models"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "Invalid email or password."

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int, hash string) (int64, error)
}

type sessionManager interface {
	Generate(ctx context.Context, userID int, accessID string) (string, error)
	Rotate(ctx context.Context, userID int, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	Mailer         email.Sender
	Logger         *logger.Logger
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

type service struct {
	users       userRepository
	session     sessionManager
	mailer      email.Sender
	logg        *logger.Logger
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		mailer:      params.Mailer,
		logg:        params.Logger,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	addr := strings.ToLower(strings.TrimSpace(req.Email))
	if addr == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email is required.")
	}
	if _, err := s.users.FindByEmail(ctx, addr); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email is already registered.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}
	user, err := s.users.Create(ctx, users.CreateUserDTO{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        addr,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		return nil, pkgdb.TranslateWriteError(err, "create user")
	}

	s.sendWelcome(ctx, user)
	return s.issue(ctx, user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	input := strings.TrimSpace(req.Email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	s.upgradeHash(ctx, user, req.Password)
	return s.issue(ctx, user)
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid access token.")
	}
	newAccessID, refreshToken, err := s.session.Rotate(ctx, claims.UserID, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid refresh token.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate refresh token")
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "User not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	accessToken, err := s.mint(user, newAccessID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: users.FromModel(user)}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Missing session.")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, user *models.User) (*TokenResponse, error) {
	accessID := session.NewAccessID()
	accessToken, err := s.mint(user, accessID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.session.Generate(ctx, user.ID, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: users.FromModel(user)}, nil
}

func (s *service) mint(user *models.User, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		JTI:       accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

// sendWelcome is best effort; registration succeeds even when delivery fails.
// upgradeHash re-hashes the password after a successful login when the stored
// hash was made with older Argon2 costs. Failures only cost a log line.
func (s *service) upgradeHash(ctx context.Context, user *models.User, password string) {
	if !security.NeedsRehash(user.PasswordHash, s.passwordCfg) {
		return
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		_, err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID), "auth.rehash_failed", err)
	}
}

func (s *service) sendWelcome(ctx context.Context, user *models.User) {
	if s.mailer == nil {
		return
	}
	msg, err := email.WelcomeMessage(user.FirstName)
	if err == nil {
		err = s.mailer.Send(ctx, user.Email, msg)
	}
	if err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID), "welcome email failed", err)
	}
}
