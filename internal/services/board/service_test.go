package board

import (
	"context"
	"testing"

	"github.com/stanleypangg/dear-applicant/internal/models"
	"github.com/stanleypangg/dear-applicant/internal/testutil"
)

func TestLoadSeedsDefaultColumns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	columns, err := svc.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(columns) != len(models.DefaultColumns) {
		t.Fatalf("Expected %d seeded columns, got %d", len(models.DefaultColumns), len(columns))
	}
	for i, def := range models.DefaultColumns {
		if columns[i].Name != def.Name {
			t.Errorf("Expected column %d named %q, got %q", i, def.Name, columns[i].Name)
		}
		if columns[i].Color != def.Color {
			t.Errorf("Expected column %d color %q, got %q", i, def.Color, columns[i].Color)
		}
		if columns[i].Position != i {
			t.Errorf("Expected column %d at position %d, got %d", i, i, columns[i].Position)
		}
	}

	// second load must not seed again
	again, err := svc.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Second load failed: %v", err)
	}
	if len(again) != len(models.DefaultColumns) {
		t.Errorf("Expected seeding to run once, got %d columns", len(again))
	}
}

func TestLoadSkipsSeedingForExistingBoard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	only := testutil.CreateTestColumn(t, db, "user-1", "Only", "#111", 0)

	columns, err := svc.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(columns) != 1 || columns[0].ID != only {
		t.Fatalf("Expected the existing single column, got %d columns", len(columns))
	}
}

func TestLoadGroupsApplicationsByColumn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
	second := testutil.CreateTestColumn(t, db, "user-1", "Interview", "#222", 1)

	a0 := testutil.CreateTestApplication(t, db, "user-1", first, "Acme", "SWE", 0)
	a1 := testutil.CreateTestApplication(t, db, "user-1", first, "Globex", "SRE", 1)
	b0 := testutil.CreateTestApplication(t, db, "user-1", second, "Initech", "PM", 0)

	// another user's data must not leak in
	otherCol := testutil.CreateTestColumn(t, db, "user-2", "Theirs", "#333", 0)
	testutil.CreateTestApplication(t, db, "user-2", otherCol, "Hooli", "CEO", 0)

	columns, err := svc.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(columns) != 2 {
		t.Fatalf("Expected 2 columns, got %d", len(columns))
	}

	if len(columns[0].Applications) != 2 {
		t.Fatalf("Expected 2 applications in first column, got %d", len(columns[0].Applications))
	}
	if columns[0].Applications[0].ID != a0 || columns[0].Applications[1].ID != a1 {
		t.Errorf("Expected applications in position order [a0, a1]")
	}
	if len(columns[1].Applications) != 1 || columns[1].Applications[0].ID != b0 {
		t.Errorf("Expected [b0] in second column")
	}
}
