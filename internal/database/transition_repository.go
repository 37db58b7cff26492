package database

import (
	"context"
	"database/sql"

	"github.com/stanleypangg/dear-applicant/internal/models"
)

// TransitionRepo handles the append-only column-transition log. There
// are no update or single-row delete statements here on purpose; rows
// only disappear when their application cascades away.
type TransitionRepo struct {
	db *sql.DB
}

// NewTransitionRepo creates a TransitionRepo on db.
func NewTransitionRepo(db *sql.DB) *TransitionRepo {
	return &TransitionRepo{db: db}
}

// QueueInsert adds the transition append to a batch, so it lands in the
// same unit of work as the application write it records.
func (r *TransitionRepo) QueueInsert(b *Batch, tr *models.Transition) {
	b.Add(
		`INSERT INTO column_transitions (id, application_id, from_column_id, to_column_id, transitioned_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tr.ID, tr.ApplicationID, ptrToAny(tr.FromColumnID), tr.ToColumnID, tr.TransitionedAt,
	)
}

// ListForApplication retrieves an application's transitions oldest
// first.
func (r *TransitionRepo) ListForApplication(ctx context.Context, applicationID string) ([]*models.Transition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, application_id, from_column_id, to_column_id, transitioned_at
		 FROM column_transitions WHERE application_id = ? ORDER BY transitioned_at, id`,
		applicationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitions []*models.Transition
	for rows.Next() {
		tr := &models.Transition{}
		var from sql.NullString
		if err := rows.Scan(&tr.ID, &tr.ApplicationID, &from, &tr.ToColumnID, &tr.TransitionedAt); err != nil {
			return nil, err
		}
		tr.FromColumnID = nullStringToPtr(from)
		transitions = append(transitions, tr)
	}
	return transitions, rows.Err()
}

// CountForApplication returns how many transitions an application has
// accumulated.
func (r *TransitionRepo) CountForApplication(ctx context.Context, applicationID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM column_transitions WHERE application_id = ?`, applicationID,
	).Scan(&count)
	return count, err
}
