package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/equilog/equilog-backend/api/responses"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	// IdempotencyCreationTTL covers routes whose retries would insert duplicate rows.
	IdempotencyCreationTTL = 24 * time.Hour
	// IdempotencyEmailTTL covers routes whose retries would send duplicate emails.
	IdempotencyEmailTTL = time.Hour

	idempotencyPendingTTL = time.Minute
	maxIdempotentBody     = 1 << 20
)

// IdempotencyStore persists reservations and replayable responses.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, key string) string
}

// idempotencyRecord is either a reservation held by an in-flight request
// (Pending) or the response that request produced.
type idempotencyRecord struct {
	RequestHash string `json:"request_hash"`
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body,omitempty"`
}

// Idempotent makes a route safe to retry: the first request carrying an
// Idempotency-Key reserves it, later requests with the same key and body get
// the stored response. Requests without the header pass through.
func Idempotent(store IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(IdempotencyHeader)
			if store == nil || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if !validRequestID(clientKey) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key must be 1-64 printable characters."))
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBody+1))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Request body could not be read."))
				return
			}
			if len(body) > maxIdempotentBody {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Request body is too large."))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := hashBody(body)
			key := store.IdempotencyKey(idempotencyScope(r), clientKey)

			reserved, err := reserve(ctx, store, key, hash)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				replayOrReject(ctx, store, key, hash, w, r, next, logg)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			func() {
				defer func() {
					if rec := recover(); rec != nil {
						release(ctx, store, key, logg)
						panic(rec)
					}
				}()
				next.ServeHTTP(capture, r)
			}()

			status := capture.statusOrOK()
			if status >= http.StatusInternalServerError {
				// Server failures stay retryable under the same key.
				release(ctx, store, key, logg)
				return
			}
			record := idempotencyRecord{
				RequestHash: hash,
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
			}
			if err := storeRecord(ctx, store, key, record, ttl); err != nil && logg != nil {
				logg.Error(ctx, "idempotency.persist_failed", err)
			}
		})
	}
}

func reserve(ctx context.Context, store IdempotencyStore, key, hash string) (bool, error) {
	payload, err := json.Marshal(idempotencyRecord{RequestHash: hash, Pending: true})
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, string(payload), idempotencyPendingTTL)
}

func replayOrReject(ctx context.Context, store IdempotencyStore, key, hash string, w http.ResponseWriter, r *http.Request, next http.Handler, logg *logger.Logger) {
	stored, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// The reservation expired between SetNX and Get; serve without caching.
		next.ServeHTTP(w, r)
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency key"))
		return
	}
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	switch {
	case record.RequestHash != hash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency key was reused with a different request body."))
	case record.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "A request with this idempotency key is still in progress."))
	default:
		body, err := base64.StdEncoding.DecodeString(record.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency body"))
			return
		}
		if record.ContentType != "" {
			w.Header().Set("Content-Type", record.ContentType)
		}
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(record.Status)
		_, _ = w.Write(body)
	}
}

func storeRecord(ctx context.Context, store IdempotencyStore, key string, record idempotencyRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(payload), ttl)
}

func release(ctx context.Context, store IdempotencyStore, key string, logg *logger.Logger) {
	if err := store.Del(context.WithoutCancel(ctx), key); err != nil && logg != nil {
		logg.Error(ctx, "idempotency.release_failed", err)
	}
}

// idempotencyScope keeps keys from colliding across callers and routes.
func idempotencyScope(r *http.Request) string {
	userID, _ := UserIDFromContext(r.Context())
	return strconv.Itoa(userID) + "|" + r.Method + "|" + r.URL.Path
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusOrOK() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
