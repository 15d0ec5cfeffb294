// Package sim drives the external image simulator: one invocation per plan
// row and SCA, fed a footprint-filtered slice of the combined input catalog.
// Exposure failures are isolated and summarized; a bad exposure never aborts
// the rest of the run.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/asterolab/romanprep/internal/catalog"
	"github.com/asterolab/romanprep/internal/events"
	"github.com/asterolab/romanprep/internal/footprint"
	"github.com/asterolab/romanprep/internal/plan"
)

// Failure records one exposure whose simulation did not complete.
type Failure struct {
	ID  plan.ExposureID
	SCA int
	Err error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s sca %d: %v", f.ID, f.SCA, f.Err)
}

// Driver runs the per-exposure simulation workflow over a plan.
type Driver struct {
	Catalog *catalog.Catalog         // combined input catalog, read-only
	Records []plan.ObservationRecord // plan rows, in file order
	SCAs    []int                    // SCA IDs to render per row

	// Radius of the circular re-filtering footprint around each exposure's
	// pointing, degrees.
	Radius float64

	Program    int    // program number for output filenames; 1 when zero
	OutputDir  string // where images and per-exposure catalogs are written
	MaxWorkers int    // concurrent simulator invocations; 1 when < 2

	Runner    Runner
	Publisher events.Publisher // nil disables events
	RunID     string
	Logger    *slog.Logger // nil disables logging
}

type job struct {
	rec         plan.ObservationRecord
	sca         int
	catalogPath string
	outputPath  string
}

// Run simulates every exposure and returns the failures. The returned error
// covers setup problems only; per-exposure simulation errors land in the
// failure list. There is no cross-exposure cancellation.
func (d *Driver) Run(ctx context.Context) ([]Failure, error) {
	if d.Catalog == nil || d.Runner == nil {
		return nil, fmt.Errorf("sim: driver needs a catalog and a runner")
	}
	if d.Radius <= 0 {
		return nil, fmt.Errorf("sim: footprint radius must be positive, got %g", d.Radius)
	}
	log := d.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	publisher := d.Publisher
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	program := d.Program
	if program == 0 {
		program = 1
	}
	scas := d.SCAs
	if len(scas) == 0 {
		scas = []int{1}
	}

	jobs := make([]job, 0, len(d.Records)*len(scas))
	for _, rec := range d.Records {
		for _, sca := range scas {
			jobs = append(jobs, job{
				rec: rec,
				sca: sca,
				catalogPath: filepath.Join(d.OutputDir,
					Filename(program, rec.ID, sca, rec.Bandpass, "cat")),
				outputPath: filepath.Join(d.OutputDir,
					Filename(program, rec.ID, sca, rec.Bandpass, "uncal")),
			})
		}
	}
	log.Info("starting simulation run", "run_id", d.RunID, "exposures", len(jobs), "workers", d.workers())

	var (
		mu       sync.Mutex
		failures []Failure
	)
	fail := func(j job, err error) {
		mu.Lock()
		failures = append(failures, Failure{ID: j.rec.ID, SCA: j.sca, Err: err})
		mu.Unlock()
		log.Error("exposure failed", "id", j.rec.ID.String(), "sca", j.sca, "err", err)
		_ = publisher.Publish(ctx, events.TopicExposureFailed, events.ExposureFailed{
			RunID: d.RunID, ID: j.rec.ID, SCA: j.sca, Error: err.Error(),
		})
	}

	ch := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < d.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				if err := d.runJob(ctx, j); err != nil {
					fail(j, err)
					continue
				}
				log.Info("exposure completed", "id", j.rec.ID.String(), "sca", j.sca, "output", j.outputPath)
				_ = publisher.Publish(ctx, events.TopicExposureDone, events.ExposureDone{
					RunID: d.RunID, ID: j.rec.ID, SCA: j.sca, Output: j.outputPath,
				})
			}
		}()
	}
	for _, j := range jobs {
		ch <- j
	}
	close(ch)
	wg.Wait()

	_ = publisher.Publish(ctx, events.TopicRunFinished, events.RunFinished{
		RunID: d.RunID, Exposures: len(jobs), Failed: len(failures),
	})
	return failures, nil
}

func (d *Driver) workers() int {
	if d.MaxWorkers < 2 {
		return 1
	}
	return d.MaxWorkers
}

// runJob re-derives the exposure footprint from the plan row, writes the
// filtered per-exposure catalog, and invokes the simulator.
func (d *Driver) runJob(ctx context.Context, j job) error {
	fp, err := footprint.Circle(j.rec.RA, j.rec.Dec, d.Radius)
	if err != nil {
		return err
	}
	filtered := d.Catalog.Filter(fp)
	if err := filtered.WriteFile(j.catalogPath); err != nil {
		return fmt.Errorf("writing per-exposure catalog: %w", err)
	}
	defer os.Remove(j.catalogPath)

	return d.Runner.Run(ctx, Job{
		Record:      j.rec,
		SCA:         j.sca,
		CatalogPath: j.catalogPath,
		OutputPath:  j.outputPath,
	})
}

// ExpandSCAs interprets the --sca-ids CLI value: nil defaults to SCA 1, a
// single negative value expands to all SCAs, anything else passes through.
func ExpandSCAs(ids []int) ([]int, error) {
	if len(ids) == 0 {
		return []int{1}, nil
	}
	if len(ids) == 1 && ids[0] < 0 {
		all := make([]int, 0, 17)
		for sca := 1; sca <= 17; sca++ {
			all = append(all, sca)
		}
		return all, nil
	}
	for _, sca := range ids {
		if sca < 1 || sca > 17 {
			return nil, fmt.Errorf("sim: SCA ID %d out of range 1..17", sca)
		}
	}
	return ids, nil
}
