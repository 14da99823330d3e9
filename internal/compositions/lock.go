package compositions

import (
	"context"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/google/uuid"
)

// StableLocker serialises operations that can change a stable's owner set.
type StableLocker interface {
	Lock(ctx context.Context, stableID int) (release func(), err error)
}

// ErrStableBusy is returned when another operation holds a stable lock.
var ErrStableBusy = pkgerrors.New(pkgerrors.CodeConflict, "Another operation is already changing this stable. Try again.")

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	ReleaseIfOwner(ctx context.Context, key, token string) (bool, error)
	StableLockKey(stableID int) string
}

// RedisStableLocker holds a SETNX lock per stable id. Acquisition never
// waits: a held lock yields ErrStableBusy.
type RedisStableLocker struct {
	store lockStore
	ttl   time.Duration
}

// NewRedisStableLocker builds a locker; ttl bounds how long a crashed holder blocks others.
func NewRedisStableLocker(store lockStore, ttl time.Duration) (*RedisStableLocker, error) {
	if store == nil {
		return nil, fmt.Errorf("lock store required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisStableLocker{store: store, ttl: ttl}, nil
}

func (l *RedisStableLocker) Lock(ctx context.Context, stableID int) (func(), error) {
	key := l.store.StableLockKey(stableID)
	token := uuid.NewString()
	ok, err := l.store.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire stable lock")
	}
	if !ok {
		return nil, ErrStableBusy
	}
	return func() {
		// Release must outlive a cancelled request context.
		_, _ = l.store.ReleaseIfOwner(context.WithoutCancel(ctx), key, token)
	}, nil
}

// lockStables acquires locks for ids in ascending order and returns a func
// releasing all of them. A nil locker leaves the operation unserialised.
func (s *Service) lockStables(ctx context.Context, ids ...int) (func(), error) {
	if s.locker == nil || len(ids) == 0 {
		return func() {}, nil
	}
	unique := make(map[int]struct{}, len(ids))
	ordered := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, seen := unique[id]; seen {
			continue
		}
		unique[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Ints(ordered)

	releases := make([]func(), 0, len(ordered))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, id := range ordered {
		release, err := s.locker.Lock(ctx, id)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
