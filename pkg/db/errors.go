package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgCheckViolation = "23514"

// IsCheckViolation reports whether the error is a Postgres check constraint
// violation, such as the ledger's quantity >= 0 guard. When constraintName is
// provided, only that constraint matches.
func IsCheckViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgCheckViolation {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}
	// sqlite in tests reports constraint failures as plain text
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "CHECK constraint failed")
}
