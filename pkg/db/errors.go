package db

import (
	"strings"

	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
)

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation from Postgres or SQLite. When constraintName is provided,
// the helper looks for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err was raised by a missing parent row.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") || strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// TranslateWriteError maps a failed insert or update onto a typed error:
// missing parents become NotFound, duplicates become Conflict and everything
// else is a dependency failure.
func TranslateWriteError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, op+": referenced record not found")
	case IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, op+": record already exists")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
}
