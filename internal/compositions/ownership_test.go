package compositions

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/equilog/equilog-backend/internal/testdb"
	"github.com/equilog/equilog-backend/pkg/db/models"
	"github.com/equilog/equilog-backend/pkg/enums"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/metrics"
	"github.com/equilog/equilog-backend/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferDeletesStableWhenOwnerIsSoleMember(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	stable := testdb.SeedStable(t, h.conn, "Solo")
	testdb.SeedMembership(t, h.conn, owner.ID, stable.ID, enums.StableRoleOwner)

	res := h.service(t).TransferStableOwnership(context.Background(), owner.ID)

	require.True(t, res.IsSuccess, res.MessageText())
	assert.False(t, h.stableExists(t, stable.ID))
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "user_stables", "stable_id = ?", stable.ID))
}

func TestTransferPromotesAdminBeforeMember(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	member := testdb.SeedUser(t, h.conn, "Maja", "Member")
	admin := testdb.SeedUser(t, h.conn, "Adam", "Admin")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	testdb.SeedMembership(t, h.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, member.ID, stable.ID, enums.StableRoleMember)
	testdb.SeedMembership(t, h.conn, admin.ID, stable.ID, enums.StableRoleAdmin)

	res := h.service(t).TransferStableOwnership(context.Background(), owner.ID)

	require.True(t, res.IsSuccess, res.MessageText())
	roles := h.roles(t, stable.ID)
	assert.Equal(t, enums.StableRoleOwner, roles[admin.ID])
	assert.Equal(t, enums.StableRoleMember, roles[member.ID])
	assert.Equal(t, enums.StableRoleOwner, roles[owner.ID])
}

func TestTransferLeavesCoOwnedStableUntouched(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	coOwner := testdb.SeedUser(t, h.conn, "Cia", "Owner")
	admin := testdb.SeedUser(t, h.conn, "Adam", "Admin")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	testdb.SeedMembership(t, h.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, coOwner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, admin.ID, stable.ID, enums.StableRoleAdmin)

	res := h.service(t).TransferStableOwnership(context.Background(), owner.ID)

	require.True(t, res.IsSuccess, res.MessageText())
	roles := h.roles(t, stable.ID)
	assert.Equal(t, enums.StableRoleOwner, roles[coOwner.ID])
	assert.Equal(t, enums.StableRoleAdmin, roles[admin.ID])
}

func TestTransferWithoutOwnedStablesIsNoop(t *testing.T) {
	h := newHarness(t)
	member := testdb.SeedUser(t, h.conn, "Maja", "Member")
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	testdb.SeedMembership(t, h.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, member.ID, stable.ID, enums.StableRoleMember)
	before := h.roles(t, stable.ID)

	res := h.service(t).TransferStableOwnership(context.Background(), member.ID)

	require.True(t, res.IsSuccess)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Nil(t, res.Message)
	assert.Equal(t, before, h.roles(t, stable.ID))
	assert.EqualValues(t, 1, testdb.Count(t, h.conn, "stables", ""))
}

func TestTransferAbortsOnStableDeleteFailure(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	rider := testdb.SeedUser(t, h.conn, "Rut", "Ridare")
	solo := testdb.SeedStable(t, h.conn, "Solo")
	shared := testdb.SeedStable(t, h.conn, "Shared")
	testdb.SeedMembership(t, h.conn, owner.ID, solo.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, owner.ID, shared.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, rider.ID, shared.ID, enums.StableRoleMember)
	h.params.Stables = failingStables{stableService: h.params.Stables, err: pkgerrors.New(pkgerrors.CodeDependency, "Stable store unavailable.")}

	res := h.service(t).DeleteUserComposition(context.Background(), owner.ID)

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "Stable store unavailable.", res.MessageText())
	assert.Equal(t, enums.StableRoleMember, h.roles(t, shared.ID)[rider.ID], "later stables are not processed")
	assert.EqualValues(t, 1, testdb.Count(t, h.conn, "users", "id = ?", owner.ID), "user survives a failed transfer")
}

func TestDeleteUserComposition(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	member := testdb.SeedUser(t, h.conn, "Maja", "Member")
	solo := testdb.SeedStable(t, h.conn, "Solo")
	shared := testdb.SeedStable(t, h.conn, "Shared")
	testdb.SeedMembership(t, h.conn, owner.ID, solo.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, owner.ID, shared.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, member.ID, shared.ID, enums.StableRoleMember)

	res := h.service(t).DeleteUserComposition(context.Background(), owner.ID)

	require.True(t, res.IsSuccess, res.MessageText())
	assert.Equal(t, "User deleted successfully", res.MessageText())
	assert.False(t, h.stableExists(t, solo.ID))
	assert.Equal(t, map[int]enums.StableRole{member.ID: enums.StableRoleOwner}, h.roles(t, shared.ID))
	assert.EqualValues(t, 0, testdb.Count(t, h.conn, "users", "id = ?", owner.ID))
}

func TestDeleteUserCompositionMissingUser(t *testing.T) {
	h := newHarness(t)
	res := h.service(t).DeleteUserComposition(context.Background(), 404)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "User not found.", res.MessageText())
}

func TestLeaveStableComposition(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	admin := testdb.SeedUser(t, h.conn, "Adam", "Admin")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	testdb.SeedMembership(t, h.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, admin.ID, stable.ID, enums.StableRoleAdmin)

	res := h.service(t).LeaveStableComposition(context.Background(), owner.ID, stable.ID)

	require.True(t, res.IsSuccess, res.MessageText())
	assert.Equal(t, "User left stable successfully.", res.MessageText())
	assert.Equal(t, map[int]enums.StableRole{admin.ID: enums.StableRoleOwner}, h.roles(t, stable.ID))
}

func TestLeaveStableCompositionSurfacesLeaveFailure(t *testing.T) {
	h := newHarness(t)
	user := testdb.SeedUser(t, h.conn, "Rut", "Ridare")
	stable := testdb.SeedStable(t, h.conn, "Oak")

	res := h.service(t).LeaveStableComposition(context.Background(), user.ID, stable.ID)

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "User not connected to stable.", res.MessageText())
}

func TestCompositionRecoversPanics(t *testing.T) {
	h := newHarness(t)
	h.params.Ownership = panickingOwnership{ownershipStore: h.params.Ownership}

	res := h.service(t).DeleteUserComposition(context.Background(), 1)

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "connection pool exhausted", res.MessageText())
}

func TestTransferRecordsMetrics(t *testing.T) {
	h := newHarness(t)
	reg := prometheus.NewRegistry()
	h.params.Metrics = metrics.NewCompositionMetrics(reg)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	member := testdb.SeedUser(t, h.conn, "Maja", "Member")
	solo := testdb.SeedStable(t, h.conn, "Solo")
	shared := testdb.SeedStable(t, h.conn, "Shared")
	testdb.SeedMembership(t, h.conn, owner.ID, solo.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, owner.ID, shared.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, member.ID, shared.ID, enums.StableRoleMember)

	require.True(t, h.service(t).TransferStableOwnership(context.Background(), owner.ID).IsSuccess)

	families, err := reg.Gather()
	require.NoError(t, err)
	var actions float64
	var outcomes int
	for _, mf := range families {
		switch mf.GetName() {
		case "equilog_ownership_transfer_actions_total":
			for _, m := range mf.GetMetric() {
				actions += m.GetCounter().GetValue()
			}
		case "equilog_composition_total":
			outcomes = len(mf.GetMetric())
		}
	}
	assert.Equal(t, float64(2), actions)
	assert.Equal(t, 1, outcomes)
}

type busyLocker struct {
	busy   map[int]bool
	locked []int
}

func (b *busyLocker) Lock(_ context.Context, stableID int) (func(), error) {
	if b.busy[stableID] {
		return nil, ErrStableBusy
	}
	b.locked = append(b.locked, stableID)
	return func() {}, nil
}

func TestLeaveStableLocksOwnedAndTargetStables(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	admin := testdb.SeedUser(t, h.conn, "Adam", "Admin")
	owned := testdb.SeedStable(t, h.conn, "Owned")
	target := testdb.SeedStable(t, h.conn, "Target")
	testdb.SeedMembership(t, h.conn, owner.ID, owned.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, admin.ID, owned.ID, enums.StableRoleAdmin)
	testdb.SeedMembership(t, h.conn, owner.ID, target.ID, enums.StableRoleMember)
	locker := &busyLocker{busy: map[int]bool{}}
	h.params.Locker = locker

	res := h.service(t).LeaveStableComposition(context.Background(), owner.ID, target.ID)

	require.True(t, res.IsSuccess, res.MessageText())
	assert.ElementsMatch(t, []int{owned.ID, target.ID}, locker.locked)
}

func TestLockContentionReturnsConflict(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	testdb.SeedMembership(t, h.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	h.params.Locker = &busyLocker{busy: map[int]bool{stable.ID: true}}

	res := h.service(t).DeleteUserComposition(context.Background(), owner.ID)

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.True(t, h.stableExists(t, stable.ID))
}

func TestDeleteMemberBlockedWhileOwnerLeaves(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	admin := testdb.SeedUser(t, h.conn, "Adam", "Admin")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	testdb.SeedMembership(t, h.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, admin.ID, stable.ID, enums.StableRoleAdmin)

	locker, err := NewRedisStableLocker(&memoryLockStore{held: map[string]string{}}, time.Second)
	require.NoError(t, err)
	h.params.Locker = locker

	var svc *Service
	var deleteRes types.Result[types.Unit]
	h.params.Ownership = hookedOwnership{
		ownershipStore: h.params.Ownership,
		afterCandidate: func(*models.UserStable) {
			deleteRes = svc.DeleteUserComposition(context.Background(), admin.ID)
		},
	}
	svc = h.service(t)

	res := svc.LeaveStableComposition(context.Background(), owner.ID, stable.ID)

	require.True(t, res.IsSuccess, res.MessageText())
	require.False(t, deleteRes.IsSuccess)
	assert.Equal(t, http.StatusConflict, deleteRes.StatusCode)
	assert.True(t, h.stableExists(t, stable.ID))
	assert.Equal(t, map[int]enums.StableRole{admin.ID: enums.StableRoleOwner}, h.roles(t, stable.ID))
}

func TestTransferFailsWhenCandidateVanishes(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	member := testdb.SeedUser(t, h.conn, "Maja", "Member")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	testdb.SeedMembership(t, h.conn, owner.ID, stable.ID, enums.StableRoleOwner)
	testdb.SeedMembership(t, h.conn, member.ID, stable.ID, enums.StableRoleMember)
	h.params.Ownership = hookedOwnership{
		ownershipStore: h.params.Ownership,
		afterCandidate: func(candidate *models.UserStable) {
			require.NoError(t, h.conn.Delete(&models.UserStable{}, candidate.ID).Error)
		},
	}

	res := h.service(t).TransferStableOwnership(context.Background(), owner.ID)

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, res.MessageText(), "Promotion candidate left stable")
	assert.Equal(t, map[int]enums.StableRole{owner.ID: enums.StableRoleOwner}, h.roles(t, stable.ID))
}

func TestTransferRejectsOwnershipGainedAfterLocking(t *testing.T) {
	h := newHarness(t)
	owner := testdb.SeedUser(t, h.conn, "Olle", "Owner")
	late := testdb.SeedStable(t, h.conn, "Late")
	locker := &busyLocker{busy: map[int]bool{}}
	h.params.Locker = locker
	h.params.Ownership = hookedOwnership{
		ownershipStore: h.params.Ownership,
		beforeOwners: func() {
			testdb.SeedMembership(t, h.conn, owner.ID, late.ID, enums.StableRoleOwner)
		},
	}

	res := h.service(t).TransferStableOwnership(context.Background(), owner.ID)

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Empty(t, locker.locked)
	assert.True(t, h.stableExists(t, late.ID))
}

func TestDeleteUserLocksNonOwnedStables(t *testing.T) {
	h := newHarness(t)
	member := testdb.SeedUser(t, h.conn, "Maja", "Member")
	stable := testdb.SeedStable(t, h.conn, "Oak")
	testdb.SeedMembership(t, h.conn, member.ID, stable.ID, enums.StableRoleMember)
	h.params.Locker = &busyLocker{busy: map[int]bool{stable.ID: true}}

	res := h.service(t).DeleteUserComposition(context.Background(), member.ID)

	require.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.EqualValues(t, 1, testdb.Count(t, h.conn, "users", "id = ?", member.ID))
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(Params{})
	assert.Error(t, err)
}
