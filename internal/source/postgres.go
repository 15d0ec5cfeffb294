package source

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/footprint"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RomanBands are the WFI imaging bandpasses carried as flux columns by the
// Postgres-backed catalog table.
var RomanBands = []string{"F062", "F087", "F106", "F129", "F158", "F184", "F213"}

// PostgresProvider selects catalog entries from a `sources` table by RA/Dec
// bounding box, then applies the exact footprint test in memory.
type PostgresProvider struct {
	db         *sql.DB
	provenance string
}

var _ Provider = (*PostgresProvider)(nil)

// NewPostgresProvider opens the database at the given URL, configures the
// connection pool, and runs any pending migrations.
func NewPostgresProvider(databaseURL, provenance string) (*PostgresProvider, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, &AccessError{Resource: databaseURL, Err: fmt.Errorf("open database: %w", err)}
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &AccessError{Resource: databaseURL, Err: fmt.Errorf("ping database: %w", err)}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, &AccessError{Resource: databaseURL, Err: fmt.Errorf("run migrations: %w", err)}
	}

	return &PostgresProvider{db: db, provenance: provenance}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (p *PostgresProvider) Close() error { return p.db.Close() }

const selectSourcesQuery = `SELECT ra, dec, f062, f087, f106, f129, f158, f184, f213
FROM sources
WHERE ra BETWEEN $1 AND $2 AND dec BETWEEN $3 AND $4
ORDER BY id`

func (p *PostgresProvider) Select(ctx context.Context, fp footprint.Footprint) (*catalog.Catalog, error) {
	raMin, raMax, decMin, decMax := fp.Bounds()
	rows, err := p.db.QueryContext(ctx, selectSourcesQuery, raMin, raMax, decMin, decMax)
	if err != nil {
		return nil, &AccessError{Resource: "postgres sources table", Err: err}
	}
	defer rows.Close()

	out := catalog.New(append([]string(nil), RomanBands...))
	for rows.Next() {
		var ra, dec float64
		fluxes := make([]float64, len(RomanBands))
		dest := []any{&ra, &dec}
		for i := range fluxes {
			dest = append(dest, &fluxes[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &AccessError{Resource: "postgres sources table", Err: err}
		}
		// The bounding box is coarse; apply the exact footprint test here.
		if !fp.Contains(ra, dec) {
			continue
		}
		s := catalog.Source{
			RA:         ra,
			Dec:        dec,
			Type:       catalog.TypePointSource,
			Flux:       make(map[string]float64, len(RomanBands)),
			Provenance: p.provenance,
		}
		for i, b := range RomanBands {
			s.Flux[b] = fluxes[i]
		}
		out.Sources = append(out.Sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &AccessError{Resource: "postgres sources table", Err: err}
	}
	return out, nil
}
