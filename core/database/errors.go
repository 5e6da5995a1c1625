package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrKind classifies store errors so callers can switch on kind instead of
// parsing error text.
type ErrKind int

const (
	// KindUnknown is any error outside the recognized set.
	KindUnknown ErrKind = iota
	// KindNotFound is a missing-row result.
	KindNotFound
	// KindConstraintViolation covers unique, not-null and foreign-key
	// violations.
	KindConstraintViolation
	// KindSchemaMismatch covers missing tables and columns.
	KindSchemaMismatch
	// KindTransient covers connection failures and cancelled statements.
	KindTransient
)

// String returns the kind name for logging.
func (k ErrKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConstraintViolation:
		return "constraint_violation"
	case KindSchemaMismatch:
		return "schema_mismatch"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Classify maps a store error to its kind. Postgres errors are classified
// by SQLSTATE; other dialects fall back to message matching so the sqlite
// test driver classifies the same way.
func Classify(err error) ErrKind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01", pgErr.Code == "42703":
			// undefined_table, undefined_column
			return KindSchemaMismatch
		case strings.HasPrefix(pgErr.Code, "23"):
			// integrity_constraint_violation class
			return KindConstraintViolation
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "40001", pgErr.Code == "57014":
			return KindTransient
		default:
			return KindUnknown
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"),
		strings.Contains(msg, "no such column"),
		strings.Contains(msg, "has no column"),
		strings.Contains(msg, "does not exist"):
		return KindSchemaMismatch
	case strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "not null constraint"),
		strings.Contains(msg, "foreign key constraint"),
		strings.Contains(msg, "duplicate key"):
		return KindConstraintViolation
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"):
		return KindTransient
	default:
		return KindUnknown
	}
}

// IsBenign reports whether the error kind may be skipped during best-effort
// operations (link insertion, optional-table handling).
func IsBenign(k ErrKind) bool {
	return k == KindNotFound || k == KindConstraintViolation || k == KindSchemaMismatch
}
