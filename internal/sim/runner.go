package sim

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/asterolab/romanprep/internal/plan"
)

// Job is one simulator invocation: an exposure record, the SCA to render,
// the catalog to draw sources from, and where the image goes.
type Job struct {
	Record      plan.ObservationRecord
	SCA         int
	CatalogPath string
	OutputPath  string
}

// Runner executes one simulation job. The default implementation shells out
// to the external simulator; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, job Job) error
}

// DefaultCommand is the external image-simulation entry point.
const DefaultCommand = "romanisim-make-image"

// ExecRunner runs the external simulator as a subprocess, one call per
// exposure, producing a Level-1 image.
type ExecRunner struct {
	Command string // simulator executable; DefaultCommand when empty
	Level   int    // product level; 1 when zero
	Date    string // simulation epoch, e.g. "2027-06-01T00:00:00"
	RNGSeed int64  // simulator RNG seed
	UseCRDS bool   // pass --usecrds for reference-file lookups

	Logger *slog.Logger // nil disables logging
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, job Job) error {
	command := r.Command
	if command == "" {
		command = DefaultCommand
	}
	level := r.Level
	if level == 0 {
		level = 1
	}
	date := r.Date
	if date == "" {
		date = "2027-06-01T00:00:00"
	}
	seed := r.RNGSeed
	if seed == 0 {
		seed = 1
	}

	rec := job.Record
	args := []string{
		"--radec", strconv.FormatFloat(rec.RA, 'g', -1, 64), strconv.FormatFloat(rec.Dec, 'g', -1, 64),
		"--level", strconv.Itoa(level),
		"--sca", strconv.Itoa(job.SCA),
		"--bandpass", rec.Bandpass,
		"--roll", strconv.FormatFloat(rec.PA, 'g', -1, 64),
		"--catalog", job.CatalogPath,
		"--stpsf",
		"--ma_table_number", strconv.FormatInt(rec.MATableNumber, 10),
		"--date", date,
		"--rng_seed", strconv.FormatInt(seed, 10),
	}
	if r.UseCRDS {
		args = append(args, "--usecrds")
	}
	args = append(args, "--drop-extra-dq", job.OutputPath)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if r.Logger != nil {
		r.Logger.Debug("simulator finished",
			"output", job.OutputPath, "stdout", stdout.String(), "stderr", stderr.String())
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %s", command, err, lastLine(stderr.String()))
	}
	return nil
}

// lastLine returns the final non-empty line of s, the part of simulator
// stderr most likely to carry the actual error.
func lastLine(s string) string {
	lines := bytes.Split(bytes.TrimSpace([]byte(s)), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
