package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Batch is the unit of work for one user-visible operation: a group of
// writes submitted together and executed sequentially, in order, with
// NO atomicity guarantee. A crash mid-batch can leave a partial
// renumbering; the next renumbering pass overwrites whatever it left.
// Do not quietly upgrade this to a transaction — the services' accepted
// raciness (position = count on create) is calibrated against these
// semantics.
type Batch struct {
	stmts []statement
}

type statement struct {
	query string
	args  []any
}

// Add appends one write to the batch.
func (b *Batch) Add(query string, args ...any) {
	b.stmts = append(b.stmts, statement{query: query, args: args})
}

// Len reports the number of queued writes.
func (b *Batch) Len() int {
	return len(b.stmts)
}

// Exec runs the queued writes one at a time against db. The first
// failure aborts the rest; already-executed writes stay.
func (b *Batch) Exec(ctx context.Context, db *sql.DB) error {
	for i, s := range b.stmts {
		if _, err := db.ExecContext(ctx, s.query, s.args...); err != nil {
			return fmt.Errorf("batch statement %d/%d failed: %w", i+1, len(b.stmts), err)
		}
	}
	return nil
}
