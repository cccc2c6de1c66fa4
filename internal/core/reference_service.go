package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// querier is the subset of pgx shared by pools and transactions, so the
// validator can run inside the transaction that owns the posting.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntityRef names a row in one of the reference tables.
type EntityRef struct {
	Entity string // "project", "supplier", "employee", "product"
	ID     int
}

// refTables maps entity names to the tables they live in. Only these four
// entities participate in posting validation.
var refTables = map[string]string{
	"project":  "projects",
	"supplier": "suppliers",
	"employee": "employees",
	"product":  "products",
}

// CheckReferences confirms every (entity, id) pair exists. It is read-only
// and must run before any mutating statement in the owning transaction.
// All refs are checked even after the first miss, so the caller gets the
// complete set of bad references in one error.
func CheckReferences(ctx context.Context, q querier, refs ...EntityRef) error {
	var missing []EntityRef
	seen := make(map[EntityRef]bool, len(refs))

	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true

		table, ok := refTables[ref.Entity]
		if !ok {
			return fmt.Errorf("unknown reference entity %q", ref.Entity)
		}
		if ref.ID <= 0 {
			return Validationf(ref.Entity+"_id", "must be a positive integer, got %d", ref.ID)
		}

		var exists bool
		if err := q.QueryRow(ctx,
			fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", table), ref.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check %s %d: %w", ref.Entity, ref.ID, err)
		}
		if !exists {
			missing = append(missing, ref)
		}
	}

	if len(missing) > 0 {
		return &ReferenceNotFoundError{Missing: missing}
	}
	return nil
}
