// Package assemble builds the input source catalog for a simulation run:
// catalogued galaxies and stars selected within an exposure footprint, plus
// synthetic random stars, emitted as three subset files and their union.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/footprint"
	"github.com/asterolab/romanprep/internal/source"
)

// Config describes one assembly run.
type Config struct {
	Footprint footprint.Footprint
	Bands     []string

	Galaxies source.Provider // extragalactic catalog
	Stars    source.Provider // stellar catalog
	Synth    catalog.SynthConfig

	Logger *slog.Logger // nil disables logging
}

// Result holds the three subsets and their union, in assembly order.
type Result struct {
	Galaxies  *catalog.Catalog
	Stars     *catalog.Catalog
	Synthetic *catalog.Catalog
	Union     *catalog.Catalog

	// NoSources is set when the footprint yields no catalogued galaxies and
	// no catalogued stars; the union may still carry synthetic rows. The
	// output files are still written; callers surface this as a warning,
	// not a failure.
	NoSources bool
}

// Run selects, generates, tags, and unions the three subsets. Provider and
// generation failures abort the run before any file is written.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	galaxies, err := cfg.Galaxies.Select(ctx, cfg.Footprint)
	if err != nil {
		return nil, fmt.Errorf("selecting galaxies: %w", err)
	}
	if galaxies, err = project(galaxies, cfg.Bands); err != nil {
		return nil, fmt.Errorf("selecting galaxies: %w", err)
	}
	log.Info("selected galaxies", "count", galaxies.Len())

	stars, err := cfg.Stars.Select(ctx, cfg.Footprint)
	if err != nil {
		return nil, fmt.Errorf("selecting stars: %w", err)
	}
	if stars, err = project(stars, cfg.Bands); err != nil {
		return nil, fmt.Errorf("selecting stars: %w", err)
	}
	log.Info("selected stars", "count", stars.Len())

	synthCfg := cfg.Synth
	synthCfg.Bands = cfg.Bands
	synthetic, err := catalog.GenerateStars(cfg.Footprint, synthCfg)
	if err != nil {
		return nil, fmt.Errorf("generating synthetic stars: %w", err)
	}
	log.Info("generated synthetic stars", "count", synthetic.Len(), "seed", synthCfg.Seed)

	union, err := catalog.Concat(galaxies, stars, synthetic)
	if err != nil {
		return nil, fmt.Errorf("building union catalog: %w", err)
	}

	return &Result{
		Galaxies:  galaxies,
		Stars:     stars,
		Synthetic: synthetic,
		Union:     union,
		NoSources: galaxies.Len() == 0 && stars.Len() == 0,
	}, nil
}

// project rebuilds c onto the requested band list, failing if any entry lacks
// a flux for one of the bands. Providers may carry wider band sets than a run
// needs; outputs always carry exactly the run's bands.
func project(c *catalog.Catalog, bands []string) (*catalog.Catalog, error) {
	out := catalog.New(bands)
	if err := out.Append(c.Sources...); err != nil {
		return nil, err
	}
	return out, nil
}

// SubsetFilenames derives the three per-subset output paths from the union
// path by suffix insertion before the extension: out_cat.ecsv becomes
// out_cat_galaxies.ecsv, out_cat_stars.ecsv, out_cat_synthetic.ecsv.
func SubsetFilenames(unionPath string) (galaxies, stars, synthetic string) {
	return insertSuffix(unionPath, "_galaxies"),
		insertSuffix(unionPath, "_stars"),
		insertSuffix(unionPath, "_synthetic")
}

func insertSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// WriteFiles persists the union to unionPath and the subsets to paths derived
// by SubsetFilenames. Each file is written atomically; every subset file is
// produced even when empty.
func (r *Result) WriteFiles(unionPath string) error {
	galPath, starPath, synthPath := SubsetFilenames(unionPath)
	for _, out := range []struct {
		path string
		cat  *catalog.Catalog
	}{
		{galPath, r.Galaxies},
		{starPath, r.Stars},
		{synthPath, r.Synthetic},
		{unionPath, r.Union},
	} {
		if err := out.cat.WriteFile(out.path); err != nil {
			return fmt.Errorf("writing %s: %w", out.path, err)
		}
	}
	return nil
}
