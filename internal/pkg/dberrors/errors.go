package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes surfaced to callers
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	// CodeNotFound is reported when a single-row read matches nothing
	CodeNotFound = "NOT_FOUND"
	// CodeUnknown is reported for failures that carry no database code
	CodeUnknown = "UNKNOWN"
)

// GatewayError is the structured error every store operation returns. Callers
// branch on Code and translate it into a user-facing message.
type GatewayError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Translate wraps a pgx error into a GatewayError. A nil error stays nil.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var ge *GatewayError
	if errors.As(err, &ge) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &GatewayError{Op: op, Code: CodeNotFound, Message: "no rows returned", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &GatewayError{Op: op, Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}

	return &GatewayError{Op: op, Code: CodeUnknown, Message: err.Error(), Err: err}
}

// Code returns the gateway code carried by err, or an empty string
func Code(err error) string {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsUniqueViolation checks whether err is a unique constraint violation
func IsUniqueViolation(err error) bool {
	if Code(err) == CodeUniqueViolation {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation
}

// IsNotFound checks whether err reports a missing row
func IsNotFound(err error) bool {
	return Code(err) == CodeNotFound || errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}
