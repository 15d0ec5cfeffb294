package source

import (
	"context"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/footprint"
)

// FileProvider reads a catalog subset from a local ECSV file.
type FileProvider struct {
	Path       string
	Provenance string
}

var _ Provider = (*FileProvider)(nil)

func (p *FileProvider) Select(ctx context.Context, fp footprint.Footprint) (*catalog.Catalog, error) {
	c, err := catalog.ReadFile(p.Path)
	if err != nil {
		return nil, &AccessError{Resource: p.Path, Err: err}
	}
	out := c.Filter(fp)
	tag(out, p.Provenance)
	return out, nil
}
