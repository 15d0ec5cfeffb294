// Package source loads external catalog subsets — the pre-existing
// extragalactic (cosmos) and stellar (gaia) catalogs — from local ECSV files,
// S3-compatible object stores, or a Postgres table, selecting the entries that
// fall within an exposure footprint.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/footprint"
)

// AccessError reports that an external catalog resource could not be loaded.
type AccessError struct {
	Resource string
	Err      error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("catalog source %s: %v", e.Resource, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Provider selects catalog entries within a footprint. Implementations tag
// every returned entry with the provider's provenance and preserve the
// underlying catalog's entry order, so repeated selection with the same
// footprint yields identical results.
type Provider interface {
	Select(ctx context.Context, fp footprint.Footprint) (*catalog.Catalog, error)
}

// Options carry backend settings a reference alone does not encode.
type Options struct {
	S3Region   string
	S3Endpoint string // custom endpoint (MinIO and similar); enables path style
}

// New builds a provider from a resource reference: "s3://bucket/key" selects
// the S3 provider, "postgres://" or "postgresql://" URLs select the Postgres
// provider, anything else is a local ECSV file path.
func New(ctx context.Context, ref, provenance string, opts Options) (Provider, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		return NewS3Provider(ctx, ref, provenance, opts.S3Region, opts.S3Endpoint)
	case strings.HasPrefix(ref, "postgres://"), strings.HasPrefix(ref, "postgresql://"):
		return NewPostgresProvider(ref, provenance)
	default:
		return &FileProvider{Path: ref, Provenance: provenance}, nil
	}
}

// tag stamps every entry of c with the given provenance.
func tag(c *catalog.Catalog, provenance string) {
	for i := range c.Sources {
		c.Sources[i].Provenance = provenance
	}
}
