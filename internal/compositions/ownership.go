package compositions

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/types"
	"gorm.io/gorm"
)

const (
	opTransferOwnership = "transfer_stable_ownership"
	opDeleteUser        = "delete_user"
	opLeaveStable       = "leave_stable"

	actionDeleteStable = "delete_stable"
	actionKeepOwners   = "keep_owners"
	actionPromote      = "promote"
)

// TransferStableOwnership leaves every stable owned by userID in a valid
// state: deleted when userID is its only member, otherwise with at least one
// other owner. Changes already made are kept when a later stable fails.
func (s *Service) TransferStableOwnership(ctx context.Context, userID int) types.Result[types.Unit] {
	return s.run(ctx, opTransferOwnership, func(ctx context.Context) types.Result[types.Unit] {
		locked, res, ok := s.lockMemberStables(ctx, userID)
		if !ok {
			return res
		}
		defer locked.release()
		return s.transfer(ctx, userID, locked)
	})
}

// DeleteUserComposition transfers the user's stables and then deletes the user.
func (s *Service) DeleteUserComposition(ctx context.Context, userID int) types.Result[types.Unit] {
	return s.run(ctx, opDeleteUser, func(ctx context.Context) types.Result[types.Unit] {
		locked, res, ok := s.lockMemberStables(ctx, userID)
		if !ok {
			return res
		}
		defer locked.release()

		if res := s.transfer(ctx, userID, locked); !res.IsSuccess {
			return res
		}
		if err := s.users.Delete(ctx, userID); err != nil {
			return types.FailureFromError[types.Unit](err)
		}
		return types.Success(http.StatusOK, types.Unit{}, "User deleted successfully")
	})
}

// LeaveStableComposition transfers every stable the user owns and then
// removes the user from stableID. A failing leave step is reported as is.
func (s *Service) LeaveStableComposition(ctx context.Context, userID, stableID int) types.Result[types.Unit] {
	return s.run(ctx, opLeaveStable, func(ctx context.Context) types.Result[types.Unit] {
		if s.logg != nil {
			ctx = s.logg.WithStableID(ctx, stableID)
		}
		locked, res, ok := s.lockMemberStables(ctx, userID, stableID)
		if !ok {
			return res
		}
		defer locked.release()

		if res := s.transfer(ctx, userID, locked); !res.IsSuccess {
			return res
		}
		if err := s.memberships.LeaveStable(ctx, userID, stableID); err != nil {
			return types.FailureFromError[types.Unit](err)
		}
		return types.Success(http.StatusOK, types.Unit{}, "User left stable successfully.")
	})
}

// lockedStables records which stables an operation holds locks on. A nil
// ids set means no locker is configured.
type lockedStables struct {
	ids     map[int]struct{}
	release func()
}

func (l lockedStables) covers(stableID int) bool {
	if l.ids == nil {
		return true
	}
	_, ok := l.ids[stableID]
	return ok
}

// lockMemberStables locks every stable userID belongs to plus any extra ids
// for the remainder of the operation. Deleting a user removes all of their
// memberships, so non-owned stables are locked too.
func (s *Service) lockMemberStables(ctx context.Context, userID int, extra ...int) (lockedStables, types.Result[types.Unit], bool) {
	if s.locker == nil {
		return lockedStables{release: func() {}}, types.Result[types.Unit]{}, true
	}
	memberships, err := s.ownership.ListByUser(ctx, userID)
	if err != nil {
		return lockedStables{}, types.FailureFromError[types.Unit](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user memberships")), false
	}
	ids := append([]int{}, extra...)
	for _, m := range memberships {
		ids = append(ids, m.StableID)
	}
	release, err := s.lockStables(ctx, ids...)
	if err != nil {
		return lockedStables{}, types.FailureFromError[types.Unit](err), false
	}
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return lockedStables{ids: set, release: release}, types.Result[types.Unit]{}, true
}

func (s *Service) transfer(ctx context.Context, userID int, locked lockedStables) types.Result[types.Unit] {
	connections, err := s.ownership.ListOwnerConnections(ctx, userID)
	if err != nil {
		return types.FailureFromError[types.Unit](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owner connections"))
	}
	// Ownership gained between listing and locking is not covered.
	for _, conn := range connections {
		if !locked.covers(conn.StableID) {
			return types.FailureFromError[types.Unit](ErrStableBusy)
		}
	}

	for _, conn := range connections {
		soleMember, err := s.ownership.HasOnlyOneMember(ctx, conn.StableID)
		if err != nil {
			return types.FailureFromError[types.Unit](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stable members"))
		}
		if soleMember {
			if err := s.stables.Delete(ctx, conn.StableID); err != nil {
				return types.FailureFromError[types.Unit](err)
			}
			s.metrics.IncTransferAction(actionDeleteStable)
			continue
		}

		multipleOwners, err := s.ownership.HasMoreThanOneOwner(ctx, conn.StableID)
		if err != nil {
			return types.FailureFromError[types.Unit](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stable owners"))
		}
		if multipleOwners {
			s.metrics.IncTransferAction(actionKeepOwners)
			continue
		}

		candidate, err := s.ownership.FindPromotionCandidate(ctx, conn.StableID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.FailureFromError[types.Unit](pkgerrors.New(pkgerrors.CodeInternal,
					fmt.Sprintf("No member of stable %d can be promoted to owner.", conn.StableID)))
			}
			return types.FailureFromError[types.Unit](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find promotion candidate"))
		}
		if err := s.ownership.PromoteToOwner(ctx, candidate); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.FailureFromError[types.Unit](pkgerrors.Newf(pkgerrors.CodeConflict,
					"Promotion candidate left stable %d during the transfer. Try again.", conn.StableID))
			}
			return types.FailureFromError[types.Unit](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote member to owner"))
		}
		s.metrics.IncTransferAction(actionPromote)
	}

	return types.Success(http.StatusOK, types.Unit{}, "")
}
