// Package identity resolves inbound requests to a user id. Session
// issuance and account management live outside this system; the core
// trusts whatever user id the resolver produces.
package identity

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/stanleypangg/dear-applicant/internal/database"
)

// ErrUnauthenticated means the request carried no usable credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver turns a request into the authenticated user's id, or
// rejects it.
type Resolver interface {
	ResolveUserID(r *http.Request) (string, error)
}

// TokenResolver resolves "Authorization: Bearer <token>" headers
// against the api_tokens table.
type TokenResolver struct {
	tokens *database.TokenRepo
}

// NewTokenResolver creates a TokenResolver on db.
func NewTokenResolver(db *sql.DB) *TokenResolver {
	return &TokenResolver{tokens: database.NewTokenRepo(db)}
}

// ResolveUserID implements Resolver.
func (tr *TokenResolver) ResolveUserID(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrUnauthenticated
	}

	userID, err := tr.tokens.UserIDForToken(r.Context(), token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
