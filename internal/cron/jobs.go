package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Job is one unit of scheduled maintenance. Run reports how many rows it removed.
type Job interface {
	Name() string
	Run(ctx context.Context) (int64, error)
}

const (
	JobExpiredPasswordResets = "expired-password-resets"
	JobStaleInvites          = "stale-stable-invites"
	JobStaleJoinRequests     = "stale-join-requests"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type expiredDeleter interface {
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type createdBeforeDeleter interface {
	DeleteCreatedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type purgeJob struct {
	name   string
	db     txRunner
	cutoff func(now time.Time) time.Time
	purge  func(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
	now    func() time.Time
}

func (j *purgeJob) Name() string { return j.name }

func (j *purgeJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.cutoff(j.now().UTC())
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.purge(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", j.name, err)
	}
	return deleted, nil
}

// NewExpiredPasswordResetJob drops reset requests past their expiration date.
func NewExpiredPasswordResetJob(db txRunner, repo expiredDeleter) (Job, error) {
	if db == nil || repo == nil {
		return nil, errors.New("db runner and password reset repository required")
	}
	return &purgeJob{
		name:   JobExpiredPasswordResets,
		db:     db,
		cutoff: func(now time.Time) time.Time { return now },
		purge:  repo.DeleteExpired,
		now:    time.Now,
	}, nil
}

// NewStaleRequestJob drops invites or join requests left unanswered for
// longer than retention.
func NewStaleRequestJob(name string, db txRunner, repo createdBeforeDeleter, retention time.Duration) (Job, error) {
	if db == nil || repo == nil {
		return nil, errors.New("db runner and request repository required")
	}
	if retention <= 0 {
		return nil, errors.New("retention must be positive")
	}
	return &purgeJob{
		name:   name,
		db:     db,
		cutoff: func(now time.Time) time.Time { return now.Add(-retention) },
		purge:  repo.DeleteCreatedBefore,
		now:    time.Now,
	}, nil
}
