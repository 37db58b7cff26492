package database

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo resolves API bearer tokens to user ids. Session issuance
// lives outside this system; the token table is the narrow surface it
// hands us.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo creates a TokenRepo on db.
func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// UserIDForToken looks up the user owning token. Returns
// sql.ErrNoRows when the token is unknown.
func (r *TokenRepo) UserIDForToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM api_tokens WHERE token = ?`, token,
	).Scan(&userID)
	return userID, err
}

// Insert registers a token for a user.
func (r *TokenRepo) Insert(ctx context.Context, token, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_tokens (token, user_id, created_at) VALUES (?, ?, ?)`,
		token, userID, time.Now().UTC(),
	)
	return err
}
