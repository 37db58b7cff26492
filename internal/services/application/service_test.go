package application

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/models"
	"github.com/stanleypangg/dear-applicant/internal/services/column"
	"github.com/stanleypangg/dear-applicant/internal/services/history"
	"github.com/stanleypangg/dear-applicant/internal/testutil"
)

func newTestService(t *testing.T) (Service, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewService(db, history.NewService(db)), db
}

func transitionCount(t *testing.T, db *sql.DB, applicationID string) int {
	t.Helper()
	count, err := database.NewTransitionRepo(db).CountForApplication(context.Background(), applicationID)
	if err != nil {
		t.Fatalf("Failed to count transitions: %v", err)
	}
	return count
}

func TestCreateApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("appends to the column and records the initial transition", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		app, err := svc.Create(ctx, "user-1", CreateRequest{
			ColumnID: colID,
			Company:  "Globex",
			Role:     "SRE",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if app.Position != 1 {
			t.Errorf("Expected position 1, got %d", app.Position)
		}
		if app.SalaryCurrency != "USD" {
			t.Errorf("Expected default currency USD, got %q", app.SalaryCurrency)
		}
		if got := transitionCount(t, db, app.ID); got != 1 {
			t.Errorf("Expected 1 transition after create, got %d", got)
		}

		transitions, err := database.NewTransitionRepo(db).ListForApplication(ctx, app.ID)
		if err != nil {
			t.Fatalf("Failed to list transitions: %v", err)
		}
		if transitions[0].FromColumnID != nil {
			t.Errorf("Expected nil fromColumnId on creation, got %v", *transitions[0].FromColumnID)
		}
		if transitions[0].ToColumnID != colID {
			t.Errorf("Expected toColumnId %s, got %s", colID, transitions[0].ToColumnID)
		}
	})

	t.Run("rejects missing company and role", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)

		if _, err := svc.Create(ctx, "user-1", CreateRequest{ColumnID: colID, Company: " ", Role: "SWE"}); !errors.Is(err, ErrCompanyRequired) {
			t.Errorf("Expected ErrCompanyRequired, got %v", err)
		}
		if _, err := svc.Create(ctx, "user-1", CreateRequest{ColumnID: colID, Company: "Acme", Role: ""}); !errors.Is(err, ErrRoleRequired) {
			t.Errorf("Expected ErrRoleRequired, got %v", err)
		}
	})

	t.Run("rejects inverted salary range", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)

		min, max := 200000, 100000
		_, err := svc.Create(ctx, "user-1", CreateRequest{
			ColumnID: colID, Company: "Acme", Role: "SWE",
			SalaryMin: &min, SalaryMax: &max,
		})
		if !errors.Is(err, ErrSalaryRange) {
			t.Errorf("Expected ErrSalaryRange, got %v", err)
		}
	})

	t.Run("other user's column is not found", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)

		_, err := svc.Create(ctx, "user-2", CreateRequest{ColumnID: colID, Company: "Acme", Role: "SWE"})
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})
}

func TestUpdateApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("patches only what the request carries", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		appID := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		company := "Acme Corp"
		notes := "Phone screen scheduled"
		err := svc.Update(ctx, "user-1", UpdateRequest{
			ApplicationID: appID,
			Company:       &company,
			Notes:         &notes,
			NotesSet:      true,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		app, err := svc.Get(ctx, "user-1", appID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if app.Company != "Acme Corp" {
			t.Errorf("Expected company patched, got %q", app.Company)
		}
		if app.Role != "SWE" {
			t.Errorf("Expected role unchanged, got %q", app.Role)
		}
		if app.Notes == nil || *app.Notes != "Phone screen scheduled" {
			t.Errorf("Expected notes set, got %v", app.Notes)
		}
	})

	t.Run("a set nullable field with nil value clears it", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		appID := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		notes := "temp"
		if err := svc.Update(ctx, "user-1", UpdateRequest{ApplicationID: appID, Notes: &notes, NotesSet: true}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if err := svc.Update(ctx, "user-1", UpdateRequest{ApplicationID: appID, NotesSet: true}); err != nil {
			t.Fatalf("Clearing update failed: %v", err)
		}

		app, err := svc.Get(ctx, "user-1", appID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if app.Notes != nil {
			t.Errorf("Expected notes cleared, got %q", *app.Notes)
		}
	})

	t.Run("salary invariant checks effective values", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		appID := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		min := 150000
		if err := svc.Update(ctx, "user-1", UpdateRequest{ApplicationID: appID, SalaryMin: &min, SalaryMinSet: true}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		// new max below the stored min must fail even though the request
		// never mentions min
		max := 100000
		err := svc.Update(ctx, "user-1", UpdateRequest{ApplicationID: appID, SalaryMax: &max, SalaryMaxSet: true})
		if !errors.Is(err, ErrSalaryRange) {
			t.Errorf("Expected ErrSalaryRange, got %v", err)
		}

		// clearing min in the same patch makes the new max fine
		bigEnough := 100000
		err = svc.Update(ctx, "user-1", UpdateRequest{
			ApplicationID: appID,
			SalaryMinSet:  true,
			SalaryMax:     &bigEnough, SalaryMaxSet: true,
		})
		if err != nil {
			t.Fatalf("Expected clearing min to satisfy the invariant, got %v", err)
		}
	})

	t.Run("blank currency keeps the stored value", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		appID := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		blank := "  "
		if err := svc.Update(ctx, "user-1", UpdateRequest{ApplicationID: appID, SalaryCurrency: &blank}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		app, err := svc.Get(ctx, "user-1", appID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if app.SalaryCurrency != "USD" {
			t.Errorf("Expected currency unchanged, got %q", app.SalaryCurrency)
		}
	})

	t.Run("empty patch changes nothing but updatedAt", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)

		applied := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		min, max := 100000, 150000
		created, err := svc.Create(ctx, "user-1", CreateRequest{
			ColumnID:       colID,
			Company:        "Acme",
			Role:           "SWE",
			URL:            "https://acme.example/careers/1",
			DateApplied:    &applied,
			SalaryMin:      &min,
			SalaryMax:      &max,
			SalaryCurrency: "EUR",
			Notes:          "Referred by Sam",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		before, err := svc.Get(ctx, "user-1", created.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if err := svc.Update(ctx, "user-1", UpdateRequest{ApplicationID: created.ID}); err != nil {
			t.Fatalf("Empty update failed: %v", err)
		}

		after, err := svc.Get(ctx, "user-1", created.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if after.Company != before.Company || after.Role != before.Role {
			t.Errorf("Expected company/role untouched, got %q / %q", after.Company, after.Role)
		}
		if after.ColumnID != before.ColumnID || after.Position != before.Position {
			t.Errorf("Expected placement untouched, got column %s position %d", after.ColumnID, after.Position)
		}
		if after.URL == nil || *after.URL != *before.URL {
			t.Errorf("Expected url untouched, got %v", after.URL)
		}
		if after.DateApplied == nil || !after.DateApplied.Equal(*before.DateApplied) {
			t.Errorf("Expected dateApplied untouched, got %v", after.DateApplied)
		}
		if after.SalaryMin == nil || *after.SalaryMin != min || after.SalaryMax == nil || *after.SalaryMax != max {
			t.Errorf("Expected salary range untouched, got %v-%v", after.SalaryMin, after.SalaryMax)
		}
		if after.SalaryCurrency != "EUR" {
			t.Errorf("Expected currency untouched, got %q", after.SalaryCurrency)
		}
		if after.Notes == nil || *after.Notes != *before.Notes {
			t.Errorf("Expected notes untouched, got %v", after.Notes)
		}
		if !after.CreatedAt.Equal(before.CreatedAt) {
			t.Errorf("Expected createdAt untouched, got %v", after.CreatedAt)
		}
		if after.UpdatedAt.Before(before.UpdatedAt) {
			t.Errorf("Expected updatedAt refreshed, got %v before %v", after.UpdatedAt, before.UpdatedAt)
		}
	})

	t.Run("other user's application is not found", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		appID := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		company := "Stolen"
		err := svc.Update(ctx, "user-2", UpdateRequest{ApplicationID: appID, Company: &company})
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})
}

func TestDeleteApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("compacts the column and cascades children", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)

		first := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)
		second := testutil.CreateTestApplication(t, db, "user-1", colID, "Globex", "SRE", 1)
		third := testutil.CreateTestApplication(t, db, "user-1", colID, "Initech", "PM", 2)
		testutil.CreateTestContact(t, db, second, "Jordan Recruiter")

		if err := svc.Delete(ctx, "user-1", second); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		positions := testutil.ApplicationPositions(t, db, colID)
		testutil.AssertDense(t, positions)
		if positions[0] != first || positions[1] != third {
			t.Errorf("Expected [first, third], got %v", positions)
		}

		var contacts int
		if err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM contacts WHERE application_id = ?`, second,
		).Scan(&contacts); err != nil {
			t.Fatalf("Failed to count contacts: %v", err)
		}
		if contacts != 0 {
			t.Errorf("Expected contacts cascaded, got %d", contacts)
		}
		if got := transitionCount(t, db, second); got != 0 {
			t.Errorf("Expected transitions cascaded, got %d", got)
		}
	})
}

func TestMoveApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("same-column move reorders without a transition", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)

		app, err := svc.Create(ctx, "user-1", CreateRequest{ColumnID: colID, Company: "Acme", Role: "SWE"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		other := testutil.CreateTestApplication(t, db, "user-1", colID, "Globex", "SRE", 1)

		if err := svc.Move(ctx, "user-1", app.ID, colID, 1); err != nil {
			t.Fatalf("Move failed: %v", err)
		}

		positions := testutil.ApplicationPositions(t, db, colID)
		if positions[0] != other || positions[1] != app.ID {
			t.Errorf("Expected [other, app], got %v", positions)
		}
		if got := transitionCount(t, db, app.ID); got != 1 {
			t.Errorf("Expected only the creation transition, got %d", got)
		}
	})

	t.Run("cross-column move splices and logs one transition", func(t *testing.T) {
		svc, db := newTestService(t)
		source := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		target := testutil.CreateTestColumn(t, db, "user-1", "Interview", "#222", 1)

		app, err := svc.Create(ctx, "user-1", CreateRequest{ColumnID: source, Company: "Acme", Role: "SWE"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		stays := testutil.CreateTestApplication(t, db, "user-1", source, "Globex", "SRE", 1)
		existing := testutil.CreateTestApplication(t, db, "user-1", target, "Initech", "PM", 0)

		if err := svc.Move(ctx, "user-1", app.ID, target, 0); err != nil {
			t.Fatalf("Move failed: %v", err)
		}

		sourcePositions := testutil.ApplicationPositions(t, db, source)
		testutil.AssertDense(t, sourcePositions)
		if sourcePositions[0] != stays {
			t.Errorf("Expected source compacted to [stays], got %v", sourcePositions)
		}

		targetPositions := testutil.ApplicationPositions(t, db, target)
		testutil.AssertDense(t, targetPositions)
		if targetPositions[0] != app.ID || targetPositions[1] != existing {
			t.Errorf("Expected [app, existing], got %v", targetPositions)
		}

		transitions, err := database.NewTransitionRepo(db).ListForApplication(ctx, app.ID)
		if err != nil {
			t.Fatalf("Failed to list transitions: %v", err)
		}
		if len(transitions) != 2 {
			t.Fatalf("Expected 2 transitions (create + move), got %d", len(transitions))
		}
		last := transitions[1]
		if last.FromColumnID == nil || *last.FromColumnID != source || last.ToColumnID != target {
			t.Errorf("Expected transition %s -> %s, got %v -> %s", source, target, last.FromColumnID, last.ToColumnID)
		}
	})

	t.Run("position past the end appends", func(t *testing.T) {
		svc, db := newTestService(t)
		source := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		target := testutil.CreateTestColumn(t, db, "user-1", "Interview", "#222", 1)

		appID := testutil.CreateTestApplication(t, db, "user-1", source, "Acme", "SWE", 0)
		existing := testutil.CreateTestApplication(t, db, "user-1", target, "Initech", "PM", 0)

		if err := svc.Move(ctx, "user-1", appID, target, 99); err != nil {
			t.Fatalf("Move failed: %v", err)
		}

		positions := testutil.ApplicationPositions(t, db, target)
		if positions[0] != existing || positions[1] != appID {
			t.Errorf("Expected [existing, app], got %v", positions)
		}
	})

	t.Run("rejects negative position", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		appID := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		if err := svc.Move(ctx, "user-1", appID, colID, -1); !errors.Is(err, ErrNegativePosition) {
			t.Errorf("Expected ErrNegativePosition, got %v", err)
		}
	})

	t.Run("target column must belong to the user", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		otherCol := testutil.CreateTestColumn(t, db, "user-2", "Theirs", "#222", 0)
		appID := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		if err := svc.Move(ctx, "user-1", appID, otherCol, 0); !errors.Is(err, ErrTargetColumnNotFound) {
			t.Errorf("Expected ErrTargetColumnNotFound, got %v", err)
		}
	})

	t.Run("store failure on the target lookup is not a not-found", func(t *testing.T) {
		svc, db := newTestService(t)
		colID := testutil.CreateTestColumn(t, db, "user-1", "Applied", "#111", 0)
		appID := testutil.CreateTestApplication(t, db, "user-1", colID, "Acme", "SWE", 0)

		// break the column table after the application guard has what it
		// needs, so only the target lookup fails
		if _, err := db.ExecContext(ctx, `ALTER TABLE board_columns RENAME TO board_columns_hidden`); err != nil {
			t.Fatalf("Failed to rename table: %v", err)
		}

		err := svc.Move(ctx, "user-1", appID, colID, 0)
		if err == nil {
			t.Fatal("Expected the store failure to surface")
		}
		if errors.Is(err, ErrTargetColumnNotFound) {
			t.Error("Expected the store failure not to masquerade as ErrTargetColumnNotFound")
		}
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			t.Errorf("Expected a non-not-found error, got %v", err)
		}
	})
}

func TestRandomOperationSequenceKeepsPositionsDense(t *testing.T) {
	svc, db := newTestService(t)
	colSvc := column.NewService(db)
	ctx := context.Background()

	cols := []string{
		testutil.CreateTestColumn(t, db, "user-1", "Bookmarked", "#111", 0),
		testutil.CreateTestColumn(t, db, "user-1", "Applied", "#222", 1),
		testutil.CreateTestColumn(t, db, "user-1", "Interview", "#333", 2),
	}

	rng := rand.New(rand.NewSource(42))
	var apps []string

	for step := 0; step < 60; step++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(apps) == 0:
			app, err := svc.Create(ctx, "user-1", CreateRequest{
				ColumnID: cols[rng.Intn(len(cols))],
				Company:  "Acme",
				Role:     "SWE",
			})
			if err != nil {
				t.Fatalf("Step %d: create failed: %v", step, err)
			}
			apps = append(apps, app.ID)
		case op == 1:
			idx := rng.Intn(len(apps))
			if err := svc.Delete(ctx, "user-1", apps[idx]); err != nil {
				t.Fatalf("Step %d: delete failed: %v", step, err)
			}
			apps = append(apps[:idx], apps[idx+1:]...)
		case op == 2:
			id := apps[rng.Intn(len(apps))]
			if err := svc.Move(ctx, "user-1", id, cols[rng.Intn(len(cols))], rng.Intn(6)); err != nil {
				t.Fatalf("Step %d: move failed: %v", step, err)
			}
		default:
			if err := colSvc.Reorder(ctx, "user-1", cols[rng.Intn(len(cols))], rng.Intn(len(cols))); err != nil {
				t.Fatalf("Step %d: reorder failed: %v", step, err)
			}
		}

		testutil.AssertDense(t, testutil.ColumnPositions(t, db, "user-1"))
		for _, colID := range cols {
			testutil.AssertDense(t, testutil.ApplicationPositions(t, db, colID))
		}
	}
}
