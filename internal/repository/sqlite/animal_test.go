package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pawtrail/rescue/internal/domain"
	"github.com/pawtrail/rescue/internal/repository/sqlite"
)

func coordPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse coordinate %q: %v", s, err)
	}
	return &d
}

func TestAnimalCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "reporter@example.com")

	repo := sqlite.NewAnimalRepository(db)
	animal := &domain.Animal{
		Name:                "Luna",
		Species:             "Cat",
		Breed:               "Tabby",
		Description:         "Found near the harbor",
		LocationDescription: "Harbor parking lot",
		Latitude:            coordPtr(t, "59.33258446"),
		Longitude:           coordPtr(t, "18.06489012"),
		ReportedByUserID:    user.ID,
	}
	if err := repo.Create(ctx, animal); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if animal.ID == 0 {
		t.Fatal("expected animal ID to be set after create")
	}
	if animal.Status != domain.StatusReported {
		t.Fatalf("expected default status %q, got %q", domain.StatusReported, animal.Status)
	}

	got, err := repo.GetByID(ctx, animal.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Luna" || got.Species != "Cat" {
		t.Fatalf("unexpected animal: %+v", got)
	}
	if got.Latitude == nil || got.Longitude == nil {
		t.Fatal("expected coordinates to round-trip")
	}
	// Fixed-point storage must preserve the value exactly.
	if got.Latitude.StringFixed(8) != "59.33258446" {
		t.Fatalf("latitude drifted: got %s", got.Latitude.StringFixed(8))
	}
	if got.Longitude.StringFixed(8) != "18.06489012" {
		t.Fatalf("longitude drifted: got %s", got.Longitude.StringFixed(8))
	}
}

func TestAnimalGetNotFound(t *testing.T) {
	db := newTestDB(t)

	repo := sqlite.NewAnimalRepository(db)
	_, err := repo.GetByID(context.Background(), 9999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnimalCoordinateRoundTripStable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "stable@example.com")

	repo := sqlite.NewAnimalRepository(db)
	animal := &domain.Animal{
		Name:             "Pixel",
		Species:          "Dog",
		Latitude:         coordPtr(t, "0.00000001"),
		Longitude:        coordPtr(t, "-179.99999999"),
		ReportedByUserID: user.ID,
	}
	if err := repo.Create(ctx, animal); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Load and store repeatedly; the stored text must never change.
	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(ctx, animal.ID)
		if err != nil {
			t.Fatalf("GetByID pass %d: %v", i, err)
		}
		if err := repo.Update(ctx, got); err != nil {
			t.Fatalf("Update pass %d: %v", i, err)
		}
	}

	got, err := repo.GetByID(ctx, animal.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Latitude.StringFixed(8) != "0.00000001" || got.Longitude.StringFixed(8) != "-179.99999999" {
		t.Fatalf("coordinates drifted after round trips: %s, %s",
			got.Latitude.StringFixed(8), got.Longitude.StringFixed(8))
	}
}

func TestAnimalListLocated(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "located@example.com")

	repo := sqlite.NewAnimalRepository(db)
	located := &domain.Animal{
		Name: "Milo", Species: "Cat",
		Latitude:  coordPtr(t, "55.60587000"),
		Longitude: coordPtr(t, "13.00073000"),
		ReportedByUserID: user.ID,
	}
	unlocated := &domain.Animal{
		Name: "Ghost", Species: "Cat",
		ReportedByUserID: user.ID,
	}
	for _, a := range []*domain.Animal{located, unlocated} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create %s: %v", a.Name, err)
		}
	}

	animals, err := repo.ListLocated(ctx)
	if err != nil {
		t.Fatalf("ListLocated: %v", err)
	}
	if len(animals) != 1 {
		t.Fatalf("expected 1 located animal, got %d", len(animals))
	}
	if animals[0].Name != "Milo" {
		t.Fatalf("expected Milo, got %s", animals[0].Name)
	}
}

func TestAnimalListByStatusAndCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "status@example.com")

	repo := sqlite.NewAnimalRepository(db)
	for _, st := range []domain.AnimalStatus{
		domain.StatusReported, domain.StatusRescued, domain.StatusRescued,
	} {
		a := &domain.Animal{Name: "A", Species: "Dog", Status: st, ReportedByUserID: user.ID}
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rescued, err := repo.ListByStatus(ctx, domain.StatusRescued)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(rescued) != 2 {
		t.Fatalf("expected 2 rescued animals, got %d", len(rescued))
	}

	count, err := repo.CountByStatus(ctx, domain.StatusRescued)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestAnimalSearch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "search@example.com")

	repo := sqlite.NewAnimalRepository(db)
	animals := []*domain.Animal{
		{Name: "Biscuit", Species: "Dog", Description: "brown terrier mix", ReportedByUserID: user.ID},
		{Name: "Shadow", Species: "Cat", Description: "black, very shy", ReportedByUserID: user.ID},
	}
	for _, a := range animals {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		term string
		want int
	}{
		{"biscuit", 1}, // case insensitive name match
		{"terrier", 1}, // description match
		{"parrot", 0},
	}
	for _, tc := range tests {
		got, err := repo.Search(ctx, tc.term)
		if err != nil {
			t.Fatalf("Search(%q): %v", tc.term, err)
		}
		if len(got) != tc.want {
			t.Fatalf("Search(%q): expected %d results, got %d", tc.term, tc.want, len(got))
		}
	}

	bySpecies, err := repo.ListBySpecies(ctx, "dog")
	if err != nil {
		t.Fatalf("ListBySpecies: %v", err)
	}
	if len(bySpecies) != 1 || bySpecies[0].Name != "Biscuit" {
		t.Fatalf("unexpected species results: %+v", bySpecies)
	}
}

func TestAnimalUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "update@example.com")

	repo := sqlite.NewAnimalRepository(db)
	animal := &domain.Animal{Name: "Rocky", Species: "Dog", ReportedByUserID: user.ID}
	if err := repo.Create(ctx, animal); err != nil {
		t.Fatalf("Create: %v", err)
	}

	animal.Status = domain.StatusAdopted
	animal.Description = "Adopted by the Larsson family"
	if err := repo.Update(ctx, animal); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, animal.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusAdopted {
		t.Fatalf("expected status adopted, got %s", got.Status)
	}
	if got.Description != "Adopted by the Larsson family" {
		t.Fatalf("unexpected description: %s", got.Description)
	}

	missing := &domain.Animal{ID: 9999, Name: "X", Species: "Y"}
	if err := repo.Update(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing animal, got %v", err)
	}
}

func TestAnimalDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "delete@example.com")

	repo := sqlite.NewAnimalRepository(db)
	animal := &domain.Animal{Name: "Temp", Species: "Cat", ReportedByUserID: user.ID}
	if err := repo.Create(ctx, animal); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, animal.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, animal.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, animal.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestAnimalListReportedSince(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "recent@example.com")

	repo := sqlite.NewAnimalRepository(db)
	animal := &domain.Animal{Name: "Nova", Species: "Dog", ReportedByUserID: user.ID}
	if err := repo.Create(ctx, animal); err != nil {
		t.Fatalf("Create: %v", err)
	}

	recent, err := repo.ListReportedSince(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListReportedSince: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent animal, got %d", len(recent))
	}

	none, err := repo.ListReportedSince(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("ListReportedSince (future): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no animals reported in the future, got %d", len(none))
	}
}
