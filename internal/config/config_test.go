package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.S3Region != "us-east-1" {
		t.Fatalf("S3Region = %q", cfg.S3Region)
	}
	if cfg.SimCommand != "romanisim-make-image" {
		t.Fatalf("SimCommand = %q", cfg.SimCommand)
	}
	if cfg.SimDate != "2027-06-01T00:00:00" {
		t.Fatalf("SimDate = %q", cfg.SimDate)
	}
	if cfg.UseCRDS {
		t.Fatal("UseCRDS should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROMANPREP_GALAXY_CATALOG", "s3://catalogs/cosmos.ecsv")
	t.Setenv("ROMANPREP_STAR_CATALOG", "postgres://localhost/gaia")
	t.Setenv("ROMANPREP_NATS_URL", "nats://localhost:4222")
	t.Setenv("ROMANPREP_S3_REGION", "eu-west-1")
	t.Setenv("ROMANPREP_USE_CRDS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GalaxyCatalog != "s3://catalogs/cosmos.ecsv" {
		t.Fatalf("GalaxyCatalog = %q", cfg.GalaxyCatalog)
	}
	if cfg.StarCatalog != "postgres://localhost/gaia" {
		t.Fatalf("StarCatalog = %q", cfg.StarCatalog)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Fatalf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.S3Region != "eu-west-1" {
		t.Fatalf("S3Region = %q", cfg.S3Region)
	}
	if !cfg.UseCRDS {
		t.Fatal("UseCRDS not set")
	}
}

func TestLoadBadBool(t *testing.T) {
	t.Setenv("ROMANPREP_USE_CRDS", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid ROMANPREP_USE_CRDS")
	}
}
