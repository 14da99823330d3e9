package compositions

import (
	"context"
	"testing"

	"github.com/equilog/equilog-backend/internal/comments"
	"github.com/equilog/equilog-backend/internal/horses"
	"github.com/equilog/equilog-backend/internal/memberships"
	"github.com/equilog/equilog-backend/internal/stables"
	"github.com/equilog/equilog-backend/internal/testdb"
	"github.com/equilog/equilog-backend/internal/users"
	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	conn   *gorm.DB
	params Params
}

// newHarness wires the real services over a fresh sqlite database.
func newHarness(t *testing.T) *harness {
	t.Helper()
	conn := testdb.Open(t)
	membershipRepo := memberships.NewRepository(conn)

	membershipSvc, err := memberships.NewService(membershipRepo)
	require.NoError(t, err)
	stableSvc, err := stables.NewService(stables.NewRepository(conn))
	require.NoError(t, err)
	userSvc, err := users.NewService(users.NewRepository(conn), membershipRepo)
	require.NoError(t, err)
	horseSvc, err := horses.NewService(horses.NewRepository(conn))
	require.NoError(t, err)
	commentSvc, err := comments.NewService(comments.NewRepository(conn))
	require.NoError(t, err)

	return &harness{
		conn: conn,
		params: Params{
			Ownership:   membershipRepo,
			Memberships: membershipSvc,
			Stables:     stableSvc,
			Users:       userSvc,
			Horses:      horseSvc,
			Comments:    commentSvc,
		},
	}
}

func (h *harness) service(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(h.params)
	require.NoError(t, err)
	return svc
}

func (h *harness) roles(t *testing.T, stableID int) map[int]enums.StableRole {
	t.Helper()
	var rows []models.UserStable
	require.NoError(t, h.conn.Where("stable_id = ?", stableID).Find(&rows).Error)
	out := make(map[int]enums.StableRole, len(rows))
	for _, r := range rows {
		out[r.UserID] = r.Role
	}
	return out
}

func (h *harness) stableExists(t *testing.T, stableID int) bool {
	t.Helper()
	return testdb.Count(t, h.conn, "stables", "id = ?", stableID) == 1
}

// failingStables delegates to the real service but refuses deletes.
type failingStables struct {
	stableService
	err error
}

func (f failingStables) Delete(context.Context, int) error { return f.err }

// failingComments delegates to the real service with optional step failures.
type failingComments struct {
	commentService
	userLinkErr error
	deleteErr   error
}

func (f failingComments) CreateUserConnection(ctx context.Context, userID, commentID int) error {
	if f.userLinkErr != nil {
		return f.userLinkErr
	}
	return f.commentService.CreateUserConnection(ctx, userID, commentID)
}

func (f failingComments) Delete(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.commentService.Delete(ctx, id)
}

type panickingOwnership struct {
	ownershipStore
}

func (panickingOwnership) ListOwnerConnections(context.Context, int) ([]models.UserStable, error) {
	panic("connection pool exhausted")
}

// hookedOwnership runs callbacks between the steps of a transfer.
type hookedOwnership struct {
	ownershipStore
	beforeOwners   func()
	afterCandidate func(candidate *models.UserStable)
}

func (h hookedOwnership) ListOwnerConnections(ctx context.Context, userID int) ([]models.UserStable, error) {
	if h.beforeOwners != nil {
		h.beforeOwners()
	}
	return h.ownershipStore.ListOwnerConnections(ctx, userID)
}

func (h hookedOwnership) FindPromotionCandidate(ctx context.Context, stableID, excludeUserID int) (*models.UserStable, error) {
	candidate, err := h.ownershipStore.FindPromotionCandidate(ctx, stableID, excludeUserID)
	if err == nil && h.afterCandidate != nil {
		h.afterCandidate(candidate)
	}
	return candidate, err
}
