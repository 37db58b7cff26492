// Package testutil provides shared database fixtures for tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stanleypangg/dear-applicant/internal/database"
)

// SetupTestDB creates an in-memory database with the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

// CreateTestColumn inserts a column row and returns its id.
func CreateTestColumn(t *testing.T, db *sql.DB, userID, name, color string, position int) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO board_columns (id, user_id, name, color, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, name, color, position, now, now,
	)
	if err != nil {
		t.Fatalf("Failed to create test column: %v", err)
	}
	return id
}

// CreateTestApplication inserts an application row and returns its id.
func CreateTestApplication(t *testing.T, db *sql.DB, userID, columnID, company, role string, position int) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO applications (id, user_id, column_id, company, role, salary_currency, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 'USD', ?, ?, ?)`,
		id, userID, columnID, company, role, position, now, now,
	)
	if err != nil {
		t.Fatalf("Failed to create test application: %v", err)
	}
	return id
}

// CreateTestContact inserts a contact row and returns its id.
func CreateTestContact(t *testing.T, db *sql.DB, applicationID, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO contacts (id, application_id, name, created_at) VALUES (?, ?, ?, ?)`,
		id, applicationID, name, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("Failed to create test contact: %v", err)
	}
	return id
}

// CreateTestToken registers an API token for userID and returns it.
func CreateTestToken(t *testing.T, db *sql.DB, userID string) string {
	t.Helper()
	token := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO api_tokens (token, user_id, created_at) VALUES (?, ?, ?)`,
		token, userID, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("Failed to create test token: %v", err)
	}
	return token
}

// ColumnPositions returns the user's column ids keyed by position.
func ColumnPositions(t *testing.T, db *sql.DB, userID string) map[int]string {
	t.Helper()
	rows, err := db.QueryContext(context.Background(),
		`SELECT id, position FROM board_columns WHERE user_id = ?`, userID)
	if err != nil {
		t.Fatalf("Failed to query column positions: %v", err)
	}
	defer rows.Close()

	positions := make(map[int]string)
	for rows.Next() {
		var id string
		var pos int
		if err := rows.Scan(&id, &pos); err != nil {
			t.Fatalf("Failed to scan column position: %v", err)
		}
		if other, dup := positions[pos]; dup {
			t.Fatalf("Duplicate column position %d held by %s and %s", pos, other, id)
		}
		positions[pos] = id
	}
	return positions
}

// ApplicationPositions returns the column's application ids keyed by
// position, failing on duplicates.
func ApplicationPositions(t *testing.T, db *sql.DB, columnID string) map[int]string {
	t.Helper()
	rows, err := db.QueryContext(context.Background(),
		`SELECT id, position FROM applications WHERE column_id = ?`, columnID)
	if err != nil {
		t.Fatalf("Failed to query application positions: %v", err)
	}
	defer rows.Close()

	positions := make(map[int]string)
	for rows.Next() {
		var id string
		var pos int
		if err := rows.Scan(&id, &pos); err != nil {
			t.Fatalf("Failed to scan application position: %v", err)
		}
		if other, dup := positions[pos]; dup {
			t.Fatalf("Duplicate application position %d held by %s and %s", pos, other, id)
		}
		positions[pos] = id
	}
	return positions
}

// AssertDense fails unless positions are exactly {0..n-1}.
func AssertDense(t *testing.T, positions map[int]string) {
	t.Helper()
	for i := 0; i < len(positions); i++ {
		if _, ok := positions[i]; !ok {
			t.Fatalf("Positions are not dense: missing %d in %v", i, positions)
		}
	}
}
