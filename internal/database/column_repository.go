package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stanleypangg/dear-applicant/internal/models"
)

// ColumnRepo handles all board-column SQL. Every read is scoped to a
// user id; a row that exists but belongs to someone else scans the same
// as a row that does not exist, so both come back as NotFoundError.
type ColumnRepo struct {
	db *sql.DB
}

// NewColumnRepo creates a ColumnRepo on db.
func NewColumnRepo(db *sql.DB) *ColumnRepo {
	return &ColumnRepo{db: db}
}

const columnFields = `id, user_id, name, color, position, created_at, updated_at`

// Insert writes a new column row.
func (r *ColumnRepo) Insert(ctx context.Context, col *models.Column) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO board_columns (`+columnFields+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		col.ID, col.UserID, col.Name, col.Color, col.Position, col.CreatedAt, col.UpdatedAt,
	)
	return err
}

// QueueInsert adds the column insert to a batch instead of executing it.
func (r *ColumnRepo) QueueInsert(b *Batch, col *models.Column) {
	b.Add(
		`INSERT INTO board_columns (`+columnFields+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		col.ID, col.UserID, col.Name, col.Color, col.Position, col.CreatedAt, col.UpdatedAt,
	)
}

// GetForUser retrieves one column owned by userID.
func (r *ColumnRepo) GetForUser(ctx context.Context, id, userID string) (*models.Column, error) {
	col := &models.Column{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+columnFields+` FROM board_columns WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&col.ID, &col.UserID, &col.Name, &col.Color, &col.Position, &col.CreatedAt, &col.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("column")
	}
	if err != nil {
		return nil, err
	}
	return col, nil
}

// ListForUser retrieves all of a user's columns ordered by position.
func (r *ColumnRepo) ListForUser(ctx context.Context, userID string) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columnFields+` FROM board_columns WHERE user_id = ? ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []*models.Column
	for rows.Next() {
		col := &models.Column{}
		if err := rows.Scan(&col.ID, &col.UserID, &col.Name, &col.Color, &col.Position, &col.CreatedAt, &col.UpdatedAt); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// ListIDsForUser retrieves the user's column ids ordered by position.
func (r *ColumnRepo) ListIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM board_columns WHERE user_id = ? ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountForUser returns how many columns the user has.
func (r *ColumnRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM board_columns WHERE user_id = ?`, userID,
	).Scan(&count)
	return count, err
}

// UpdateFields patches name and/or color; nil means leave unchanged.
// updated_at is always refreshed.
func (r *ColumnRepo) UpdateFields(ctx context.Context, id string, name, color *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE board_columns
		 SET name = COALESCE(?, name), color = COALESCE(?, color), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		ptrToAny(name), ptrToAny(color), id,
	)
	return err
}

// QueuePosition adds a position rewrite for one column to the batch.
func (r *ColumnRepo) QueuePosition(b *Batch, id string, position int) {
	b.Add(`UPDATE board_columns SET position = ? WHERE id = ?`, position, id)
}

// QueueDelete adds the column delete to the batch.
func (r *ColumnRepo) QueueDelete(b *Batch, id string) {
	b.Add(`DELETE FROM board_columns WHERE id = ?`, id)
}

// Delete removes the column row immediately.
func (r *ColumnRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM board_columns WHERE id = ?`, id)
	return err
}
