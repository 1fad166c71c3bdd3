package registry

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/msidibe/gpr/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Piece{}, &models.Historique{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newPiece(identifiant, statut string) *models.Piece {
	return &models.Piece{
		Identifiant: identifiant,
		Statut:      statut,
		QrFilename:  identifiant + ".png",
		DateEntree:  "2026-01-15",
	}
}

func TestCreateAndLookups(t *testing.T) {
	r := New(setupTestDB(t))
	p := newPiece("P-001", models.StatutReparable)
	if err := r.Create(p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected assigned id")
	}

	byIdent, err := r.GetByIdentifiant("P-001")
	if err != nil {
		t.Fatalf("get by identifiant: %v", err)
	}
	byID, err := r.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byIdent.ID != byID.ID {
		t.Fatal("lookups disagree")
	}

	if _, err := r.GetByIdentifiant("P-404"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}

	taken, err := r.ExistsIdentifiant("P-001")
	if err != nil || !taken {
		t.Fatalf("expected P-001 taken, got %v/%v", taken, err)
	}
	free, err := r.ExistsIdentifiant("P-002")
	if err != nil || free {
		t.Fatalf("expected P-002 free, got %v/%v", free, err)
	}
}

func TestDuplicateIdentifiantRejectedByIndex(t *testing.T) {
	r := New(setupTestDB(t))
	if err := r.Create(newPiece("P-001", models.StatutReparable)); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := newPiece("P-001", models.StatutNonReparable)
	dup.QrFilename = "OTHER.png"
	if err := r.Create(dup); err == nil {
		t.Fatal("expected unique index violation")
	}
}

func TestListAllOrderedByID(t *testing.T) {
	r := New(setupTestDB(t))
	for _, ident := range []string{"P-003", "P-001", "P-002"} {
		if err := r.Create(newPiece(ident, models.StatutReparable)); err != nil {
			t.Fatalf("create %s: %v", ident, err)
		}
	}
	pieces, err := r.ListAll()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pieces) != 3 {
		t.Fatalf("expected 3 pieces got %d", len(pieces))
	}
	for i := 1; i < len(pieces); i++ {
		if pieces[i].ID <= pieces[i-1].ID {
			t.Fatal("expected ids ascending (creation order)")
		}
	}
}

func TestUpdateLocalisation(t *testing.T) {
	r := New(setupTestDB(t))
	p := newPiece("P-001", models.StatutCannibalisable)
	p.Commentaire = "corrosion"
	if err := r.Create(p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := r.UpdateLocalisation(p.ID, "Allée B, étagère 4"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := r.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Localisation != "Allée B, étagère 4" {
		t.Fatalf("localisation not updated: %q", got.Localisation)
	}
	// Only localisation moves; everything else stays put.
	if got.Statut != models.StatutCannibalisable || got.Commentaire != "corrosion" {
		t.Fatalf("unexpected field change: %+v", got)
	}

	if err := r.UpdateLocalisation(9999, "nowhere"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestSnapshotCounts(t *testing.T) {
	db := setupTestDB(t)
	r := New(db)
	agg := NewAggregator(db)

	empty, err := agg.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if empty.Total != 0 {
		t.Fatalf("expected empty snapshot got %+v", empty)
	}

	for i, statut := range []string{models.StatutReparable, models.StatutReparable, models.StatutNonReparable} {
		p := newPiece(fmt.Sprintf("P-%03d", i+1), statut)
		if err := r.Create(p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	snap, err := agg.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Total != 3 || snap.Reparable != 2 || snap.NonReparable != 1 || snap.Cannibalisable != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
