package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/footprint"
)

const galaxyECSV = `# %ECSV 1.0
# ---
# datatype:
# - {name: ra, datatype: float64, unit: deg}
# - {name: dec, datatype: float64, unit: deg}
# - {name: type, datatype: string}
# - {name: F184, datatype: float64, unit: mgy}
ra dec type F184
10.05 -5.02 SER 2e-08
10.10 -4.95 SER 1e-08
55.00 30.00 SER 3e-08
`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "galaxies.ecsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	return path
}

func TestFileProviderSelect(t *testing.T) {
	p := &FileProvider{Path: writeCatalogFile(t, galaxyECSV), Provenance: catalog.ProvenanceCosmos}
	fp, _ := footprint.Circle(10.0, -5.0, 0.3)

	got, err := p.Select(context.Background(), fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 entries inside footprint, got %d", got.Len())
	}
	for i, s := range got.Sources {
		if s.Provenance != catalog.ProvenanceCosmos {
			t.Fatalf("entry %d provenance %q", i, s.Provenance)
		}
	}
	if got.Sources[0].RA != 10.05 || got.Sources[1].RA != 10.10 {
		t.Fatalf("order not preserved: %+v", got.Sources)
	}

	// Idempotent: selecting again yields the same result set.
	again, err := p.Select(context.Background(), fp)
	if err != nil {
		t.Fatalf("second select: %v", err)
	}
	if again.Len() != got.Len() {
		t.Fatalf("re-selection differs: %d vs %d", again.Len(), got.Len())
	}
}

func TestFileProviderEmptySelection(t *testing.T) {
	p := &FileProvider{Path: writeCatalogFile(t, galaxyECSV), Provenance: catalog.ProvenanceCosmos}
	fp, _ := footprint.Circle(200.0, 40.0, 0.3)
	got, err := p.Select(context.Background(), fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("expected empty selection, got %d entries", got.Len())
	}
}

func TestFileProviderMissingFile(t *testing.T) {
	p := &FileProvider{Path: filepath.Join(t.TempDir(), "nope.ecsv"), Provenance: catalog.ProvenanceGaia}
	fp, _ := footprint.Circle(10.0, -5.0, 0.3)
	_, err := p.Select(context.Background(), fp)
	var ae *AccessError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AccessError, got %v", err)
	}
}

func TestNewDispatchesOnRef(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, "/data/cosmos.ecsv", catalog.ProvenanceCosmos, Options{})
	if err != nil {
		t.Fatalf("file ref: %v", err)
	}
	if _, ok := p.(*FileProvider); !ok {
		t.Fatalf("expected FileProvider, got %T", p)
	}

	if _, _, err := parseS3Ref("s3://bucket-only"); err == nil {
		t.Fatal("expected error for s3 ref without key")
	}
	bucket, key, err := parseS3Ref("s3://catalogs/gaia/subset.ecsv")
	if err != nil {
		t.Fatalf("s3 ref: %v", err)
	}
	if bucket != "catalogs" || key != "gaia/subset.ecsv" {
		t.Fatalf("parsed %q / %q", bucket, key)
	}
}
