package compositions

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/email"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/internal/password"
	"github.com/equilog/equilog-backend/internal/stables"
	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/metrics"
	"github.com/equilog/equilog-backend/pkg/types"
)

type ownershipStore interface {
	ListByUser(ctx context.Context, userID int) ([]models.UserStable, error)
	ListOwnerConnections(ctx context.Context, userID int) ([]models.UserStable, error)
	HasOnlyOneMember(ctx context.Context, stableID int) (bool, error)
	HasMoreThanOneOwner(ctx context.Context, stableID int) (bool, error)
	FindPromotionCandidate(ctx context.Context, stableID, excludeUserID int) (*models.UserStable, error)
	PromoteToOwner(ctx context.Context, membership *models.UserStable) error
}

type membershipService interface {
	LeaveStable(ctx context.Context, userID, stableID int) error
	CreateOwnerConnection(ctx context.Context, userID, stableID int) (*memberships.UserStableDTO, error)
}

type stableService interface {
	Create(ctx context.Context, input stables.CreateStableInput) (int, error)
	Delete(ctx context.Context, id int) error
}

type userService interface {
	Delete(ctx context.Context, id int) error
	SetProfilePicture(ctx context.Context, id int, pictureURL string) error
}

type horseService interface {
	Create(ctx context.Context, input horses.CreateHorseInput) (int, error)
	Delete(ctx context.Context, id int) error
	CreateStableConnection(ctx context.Context, stableID, horseID int) error
	CreateOwnerConnection(ctx context.Context, userID, horseID int) error
}

type commentService interface {
	Create(ctx context.Context, input comments.CreateCommentInput) (int, error)
	Delete(ctx context.Context, id int) error
	CreateUserConnection(ctx context.Context, userID, commentID int) error
	CreateStablePostConnection(ctx context.Context, stablePostID, commentID int) error
}

type blobReader interface {
	SignedReadURL(ctx context.Context, objectName string) (string, error)
}

type passwordResets interface {
	CreateResetRequest(ctx context.Context, email string) (*password.ResetRequestDTO, error)
	DeleteResetRequest(ctx context.Context, id int) error
}

// Params bundles the collaborators of the composition service. Locker,
// Metrics, Logger, Blob, Passwords and Mailer are optional.
type Params struct {
	Ownership    ownershipStore
	Memberships  membershipService
	Stables      stableService
	Users        userService
	Horses       horseService
	Comments     commentService
	Blob         blobReader
	Passwords    passwordResets
	Mailer       email.Sender
	ResetBaseURL string
	Locker       StableLocker
	Metrics      *metrics.CompositionMetrics
	Logger       *logger.Logger
}

// Service runs the multi-step operations that span several services.
type Service struct {
	ownership    ownershipStore
	memberships  membershipService
	stables      stableService
	users        userService
	horses       horseService
	comments     commentService
	blob         blobReader
	passwords    passwordResets
	mailer       email.Sender
	resetBaseURL string
	locker       StableLocker
	metrics      *metrics.CompositionMetrics
	logg         *logger.Logger
}

// NewService validates the required collaborators.
func NewService(p Params) (*Service, error) {
	switch {
	case p.Ownership == nil:
		return nil, fmt.Errorf("ownership store required")
	case p.Memberships == nil:
		return nil, fmt.Errorf("membership service required")
	case p.Stables == nil:
		return nil, fmt.Errorf("stable service required")
	case p.Users == nil:
		return nil, fmt.Errorf("user service required")
	case p.Horses == nil:
		return nil, fmt.Errorf("horse service required")
	case p.Comments == nil:
		return nil, fmt.Errorf("comment service required")
	}
	return &Service{
		ownership:    p.Ownership,
		memberships:  p.Memberships,
		stables:      p.Stables,
		users:        p.Users,
		horses:       p.Horses,
		comments:     p.Comments,
		blob:         p.Blob,
		passwords:    p.Passwords,
		mailer:       p.Mailer,
		resetBaseURL: p.ResetBaseURL,
		locker:       p.Locker,
		metrics:      p.Metrics,
		logg:         p.Logger,
	}, nil
}

// run is the boundary of every composition: it recovers panics into an
// internal error result and records duration and outcome.
func (s *Service) run(ctx context.Context, operation string, fn func(ctx context.Context) types.Result[types.Unit]) (res types.Result[types.Unit]) {
	start := time.Now()
	if s.logg != nil {
		ctx = s.logg.WithOperation(ctx, operation)
	}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			if s.logg != nil {
				s.logg.Error(ctx, "composition panicked", err)
			}
			res = types.Failure[types.Unit](http.StatusInternalServerError, err.Error())
		}
		s.metrics.Observe(operation, res.IsSuccess, time.Since(start))
	}()
	return fn(ctx)
}

func (s *Service) warn(ctx context.Context, msg string, fields map[string]any) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, fields), msg)
}
