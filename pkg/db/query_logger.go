package db

import (
	"context"
	"errors"
	"time"

	"github.com/equilog/equilog-backend/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// queryLogger forwards failed and slow statements to the service logger.
// Missing rows are expected lookups and stay silent.
type queryLogger struct {
	logg          *logger.Logger
	slowThreshold time.Duration
	silent        bool
}

func newQueryLogger(logg *logger.Logger, slowThreshold time.Duration) *queryLogger {
	return &queryLogger{logg: logg, slowThreshold: slowThreshold, silent: logg == nil}
}

func (q *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *q
	clone.silent = q.logg == nil || level == gormlogger.Silent
	return &clone
}

func (q *queryLogger) Info(ctx context.Context, msg string, _ ...any) {
	if !q.silent {
		q.logg.Debug(ctx, "db."+msg)
	}
}

func (q *queryLogger) Warn(ctx context.Context, msg string, _ ...any) {
	if !q.silent {
		q.logg.Warn(ctx, "db."+msg)
	}
}

func (q *queryLogger) Error(ctx context.Context, msg string, _ ...any) {
	if !q.silent {
		q.logg.Warn(ctx, "db."+msg)
	}
}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slowThreshold > 0 && elapsed > q.slowThreshold
	if !failed && !slow {
		return
	}
	sql, rows := fc()
	ctx = q.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	if failed {
		q.logg.Warn(q.logg.WithField(ctx, "error", err.Error()), "db.query_failed")
		return
	}
	q.logg.Warn(ctx, "db.slow_query")
}
