package database

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

// testutil imports this package, so these tests build their own db.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countTokens(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM api_tokens`,
	).Scan(&count); err != nil {
		t.Fatalf("Failed to count tokens: %v", err)
	}
	return count
}

func TestBatchExecRunsInOrder(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	b := &Batch{}
	b.Add(`INSERT INTO api_tokens (token, user_id, created_at) VALUES ('t1', 'u1', CURRENT_TIMESTAMP)`)
	b.Add(`UPDATE api_tokens SET user_id = 'u2' WHERE token = 't1'`)
	if b.Len() != 2 {
		t.Fatalf("Expected 2 queued statements, got %d", b.Len())
	}

	if err := b.Exec(ctx, db); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	var userID string
	if err := db.QueryRowContext(ctx,
		`SELECT user_id FROM api_tokens WHERE token = 't1'`,
	).Scan(&userID); err != nil {
		t.Fatalf("Failed to read token: %v", err)
	}
	if userID != "u2" {
		t.Errorf("Expected the update to see the insert, got user %q", userID)
	}
}

func TestBatchExecStopsAtFirstFailureAndKeepsPriorWrites(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	b := &Batch{}
	b.Add(`INSERT INTO api_tokens (token, user_id, created_at) VALUES ('t1', 'u1', CURRENT_TIMESTAMP)`)
	b.Add(`INSERT INTO no_such_table (x) VALUES (1)`)
	b.Add(`INSERT INTO api_tokens (token, user_id, created_at) VALUES ('t2', 'u1', CURRENT_TIMESTAMP)`)

	err := b.Exec(ctx, db)
	if err == nil {
		t.Fatal("Expected Exec to fail on the bad statement")
	}
	if !strings.Contains(err.Error(), "batch statement 2/3") {
		t.Errorf("Expected the error to name statement 2/3, got %v", err)
	}

	// the first write survives, the third never ran
	if got := countTokens(t, db); got != 1 {
		t.Errorf("Expected exactly the pre-failure write, got %d rows", got)
	}
}

func TestBatchEmptyExecIsNoOp(t *testing.T) {
	db := setupDB(t)

	b := &Batch{}
	if err := b.Exec(context.Background(), db); err != nil {
		t.Fatalf("Empty batch failed: %v", err)
	}
}
