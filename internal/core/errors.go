package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError reports malformed or out-of-range input. It is always
// raised before any write, so it never implies a rollback.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// ReferenceNotFoundError reports referenced entities (project, supplier,
// employee, product) that do not exist. Raised by the reference validator
// before any mutating statement; Missing lists every bad reference so the
// caller can report them all at once.
type ReferenceNotFoundError struct {
	Missing []EntityRef
}

func (e *ReferenceNotFoundError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, ref := range e.Missing {
		parts[i] = fmt.Sprintf("%s %d", ref.Entity, ref.ID)
	}
	return "missing references: " + strings.Join(parts, ", ")
}

// NotFoundError reports a missing top-level resource on a lookup.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError reports a state or uniqueness conflict, e.g. a duplicate
// payroll posting for the same employee and competency, or paying an
// installment that is already paid. Surfaced after the transaction has
// been rolled back.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflictf builds a ConflictError.
func Conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
