package source

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/footprint"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var sourceColumns = []string{"ra", "dec", "f062", "f087", "f106", "f129", "f158", "f184", "f213"}

func addSourceRow(rows *sqlmock.Rows, ra, dec, flux float64) *sqlmock.Rows {
	return rows.AddRow(ra, dec, flux, flux, flux, flux, flux, flux, flux)
}

func TestPostgresProviderSelect(t *testing.T) {
	db, mock := newMockDB(t)
	p := &PostgresProvider{db: db, provenance: catalog.ProvenanceGaia}
	fp, _ := footprint.Circle(10.0, -5.0, 0.3)

	rows := sqlmock.NewRows(sourceColumns)
	addSourceRow(rows, 10.05, -5.02, 2e-8) // inside
	addSourceRow(rows, 10.30, -4.72, 1e-8) // in bbox, outside circle
	mock.ExpectQuery("SELECT ra, dec, f062, .+ FROM sources").
		WillReturnRows(rows)

	got, err := p.Select(context.Background(), fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("expected 1 entry after exact footprint test, got %d", got.Len())
	}
	s := got.Sources[0]
	if s.RA != 10.05 || s.Provenance != catalog.ProvenanceGaia || s.Type != catalog.TypePointSource {
		t.Fatalf("unexpected entry: %+v", s)
	}
	if s.Flux["F184"] != 2e-8 {
		t.Fatalf("flux not mapped: %+v", s.Flux)
	}
	if len(got.Bands) != len(RomanBands) {
		t.Fatalf("expected %d bands, got %d", len(RomanBands), len(got.Bands))
	}
}

func TestPostgresProviderBoundingBoxArgs(t *testing.T) {
	db, mock := newMockDB(t)
	p := &PostgresProvider{db: db, provenance: catalog.ProvenanceGaia}
	fp, _ := footprint.Circle(180.0, 0.0, 0.25)

	raMin, raMax, decMin, decMax := fp.Bounds()
	mock.ExpectQuery("SELECT ra, dec, .+ FROM sources").
		WithArgs(raMin, raMax, decMin, decMax).
		WillReturnRows(sqlmock.NewRows(sourceColumns))

	got, err := p.Select(context.Background(), fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("expected empty selection, got %d", got.Len())
	}
}

func TestPostgresProviderQueryError(t *testing.T) {
	db, mock := newMockDB(t)
	p := &PostgresProvider{db: db, provenance: catalog.ProvenanceGaia}
	fp, _ := footprint.Circle(10.0, -5.0, 0.3)

	mock.ExpectQuery("SELECT ra, dec, .+ FROM sources").
		WillReturnError(sql.ErrConnDone)

	_, err := p.Select(context.Background(), fp)
	var ae *AccessError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AccessError, got %v", err)
	}
}
