package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries environment-driven settings shared by both CLIs. Flags
// override these where both exist.
type Config struct {
	GalaxyCatalog string // ROMANPREP_GALAXY_CATALOG (path, s3://bucket/key)
	StarCatalog   string // ROMANPREP_STAR_CATALOG (path, s3://bucket/key, postgres:// URL)
	NATSURL       string // ROMANPREP_NATS_URL (optional, empty = no events)

	S3Region   string // ROMANPREP_S3_REGION (default "us-east-1")
	S3Endpoint string // ROMANPREP_S3_ENDPOINT (custom endpoint for MinIO)

	SimCommand string // ROMANPREP_SIM_COMMAND (default "romanisim-make-image")
	SimDate    string // ROMANPREP_SIM_DATE (default "2027-06-01T00:00:00")
	UseCRDS    bool   // ROMANPREP_USE_CRDS ("1"/"true" enables CRDS lookups)
}

func Load() (*Config, error) {
	c := &Config{
		GalaxyCatalog: os.Getenv("ROMANPREP_GALAXY_CATALOG"),
		StarCatalog:   os.Getenv("ROMANPREP_STAR_CATALOG"),
		NATSURL:       os.Getenv("ROMANPREP_NATS_URL"),
		S3Region:      envOrDefault("ROMANPREP_S3_REGION", "us-east-1"),
		S3Endpoint:    os.Getenv("ROMANPREP_S3_ENDPOINT"),
		SimCommand:    envOrDefault("ROMANPREP_SIM_COMMAND", "romanisim-make-image"),
		SimDate:       envOrDefault("ROMANPREP_SIM_DATE", "2027-06-01T00:00:00"),
	}

	if v := os.Getenv("ROMANPREP_USE_CRDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("ROMANPREP_USE_CRDS: %w", err)
		}
		c.UseCRDS = b
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
