package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/asterolab/romanprep/internal/footprint"
)

// SynthConfig controls synthetic star generation.
type SynthConfig struct {
	Count int    // number of stars; must be positive
	Seed  uint64 // generator seed; fixed seed + count reproduces the output
	Bands []string

	// AB magnitude range for the log-uniform flux distribution.
	MagFaint  float64
	MagBright float64
}

func (c SynthConfig) validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("synthetic star count must be positive, got %d", c.Count)
	}
	if len(c.Bands) == 0 {
		return fmt.Errorf("synthetic star generation needs at least one band")
	}
	if c.MagBright > c.MagFaint {
		return fmt.Errorf("magnitude range inverted: bright %g > faint %g", c.MagBright, c.MagFaint)
	}
	return nil
}

// GenerateStars returns exactly Count synthetic point sources with positions
// uniformly distributed over the footprint and fluxes log-uniform within the
// configured magnitude range. The generator is scoped to this call: the same
// config and footprint always produce the same catalog, and repeated calls do
// not share state.
func GenerateStars(fp footprint.Footprint, cfg SynthConfig) (*Catalog, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	out := New(cfg.Bands)
	for i := 0; i < cfg.Count; i++ {
		ra, dec := fp.Sample(rng)
		mag := cfg.MagBright + rng.Float64()*(cfg.MagFaint-cfg.MagBright)
		flux := math.Pow(10, -0.4*mag) // maggies
		s := Source{
			RA:         ra,
			Dec:        dec,
			Type:       TypePointSource,
			Flux:       make(map[string]float64, len(cfg.Bands)),
			Provenance: ProvenanceSynthetic,
		}
		for _, b := range cfg.Bands {
			s.Flux[b] = flux
		}
		out.Sources = append(out.Sources, s)
	}
	return out, nil
}
