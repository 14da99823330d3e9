package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
	"github.com/equilog/equilog-backend/pkg/logger"
	"github.com/equilog/equilog-backend/pkg/types"
)

// WriteResult writes a result envelope using its own status code.
func WriteResult[T any](w http.ResponseWriter, res types.Result[T]) {
	status := res.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
		res.StatusCode = status
	}
	writeJSON(w, status, res)
}

// WriteSuccess wraps value in a successful envelope.
func WriteSuccess[T any](w http.ResponseWriter, status int, value T, message string) {
	WriteResult(w, types.Success(status, value, message))
}

// WriteMessage writes a successful envelope that carries no value.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteResult(w, types.Result[types.Unit]{
		IsSuccess:  true,
		StatusCode: status,
		Message:    &message,
	})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeNotAcceptable,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict,
		pkgerrors.CodeIdempotency,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}
	if meta.DetailsAllowed {
		msg = appendFieldDetails(msg, typed.Details())
	}

	if logg != nil {
		fields := pkgerrors.LogFields(err)
		fields["status"] = meta.HTTPStatus
		ctx = logg.WithFields(ctx, fields)
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	WriteResult(w, types.Failure[types.Unit](meta.HTTPStatus, msg))
}

// appendFieldDetails folds per-field validation messages into the envelope
// message, which has no separate details slot.
func appendFieldDetails(msg string, fields map[string]string) string {
	if len(fields) == 0 {
		return msg
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, fields[k]))
	}
	return fmt.Sprintf("%s: %s", msg, strings.Join(parts, "; "))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
