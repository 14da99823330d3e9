package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PGDetails is the subset of a postgres error worth logging. Both pgx and
// lib/pq errors map onto it.
type PGDetails struct {
	Code       string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

// PostgresDetails extracts driver details from err, if any layer carries them.
func PostgresDetails(err error) (PGDetails, bool) {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return PGDetails{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}, true
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return PGDetails{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}, true
	}
	return PGDetails{}, false
}

// LogFields flattens err into structured log fields: the message, the typed
// code, every layer of the unwrap chain and any postgres details.
func LogFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	var chain []string
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	fields := map[string]any{
		"error":       err.Error(),
		"error_code":  string(CodeOf(err)),
		"error_chain": chain,
	}
	if pg, ok := PostgresDetails(err); ok {
		fields["pg_code"] = pg.Code
		fields["pg_constraint"] = pg.Constraint
		fields["pg_table"] = pg.Table
		fields["pg_column"] = pg.Column
		fields["pg_detail"] = pg.Detail
		fields["pg_message"] = pg.Message
	}
	return fields
}
