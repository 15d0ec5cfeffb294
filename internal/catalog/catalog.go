// Package catalog models source catalogs: ordered collections of sky sources
// with per-band fluxes and a provenance tag recording which subset each entry
// came from.
package catalog

import (
	"fmt"

	"github.com/asterolab/romanprep/internal/footprint"
)

// Provenance tags. Every entry carries exactly one.
const (
	ProvenanceCosmos    = "cosmos"    // catalogued galaxy
	ProvenanceGaia      = "gaia"      // catalogued star
	ProvenanceSynthetic = "synthetic" // generated star
)

// Source morphology types, following the simulator's catalog convention.
const (
	TypePointSource = "PSF"
	TypeSersic      = "SER"
)

// Source is one catalog entry.
type Source struct {
	RA  float64 // deg
	Dec float64 // deg

	Type string // TypePointSource or TypeSersic

	// Sersic profile parameters; zero for point sources.
	SersicIndex     float64
	HalfLightRadius float64 // arcsec
	PA              float64 // deg
	BA              float64 // axis ratio b/a

	Flux       map[string]float64 // band name -> flux, maggies
	Provenance string
}

// Catalog is an ordered collection of sources sharing one band list.
type Catalog struct {
	Bands   []string
	Sources []Source
}

// New returns an empty catalog for the given bands.
func New(bands []string) *Catalog {
	return &Catalog{Bands: bands}
}

// Len returns the number of sources.
func (c *Catalog) Len() int { return len(c.Sources) }

// Append adds sources, verifying each carries a flux for every band.
func (c *Catalog) Append(sources ...Source) error {
	for _, s := range sources {
		for _, b := range c.Bands {
			if _, ok := s.Flux[b]; !ok {
				return fmt.Errorf("catalog: source at (%g, %g) has no flux for band %s", s.RA, s.Dec, b)
			}
		}
		c.Sources = append(c.Sources, s)
	}
	return nil
}

// Filter returns a new catalog holding, in order, the sources whose position
// falls inside the footprint. The receiver is not modified.
func (c *Catalog) Filter(fp footprint.Footprint) *Catalog {
	out := New(c.Bands)
	for _, s := range c.Sources {
		if fp.Contains(s.RA, s.Dec) {
			out.Sources = append(out.Sources, s)
		}
	}
	return out
}

// Concat returns the ordered union of the given catalogs. All inputs must
// share the band list of the first; provenance tags are preserved.
func Concat(catalogs ...*Catalog) (*Catalog, error) {
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("catalog: nothing to concatenate")
	}
	out := New(catalogs[0].Bands)
	for _, c := range catalogs {
		if len(c.Bands) != len(out.Bands) {
			return nil, fmt.Errorf("catalog: band lists differ (%v vs %v)", c.Bands, out.Bands)
		}
		for i, b := range c.Bands {
			if b != out.Bands[i] {
				return nil, fmt.Errorf("catalog: band lists differ (%v vs %v)", c.Bands, out.Bands)
			}
		}
		out.Sources = append(out.Sources, c.Sources...)
	}
	return out, nil
}
