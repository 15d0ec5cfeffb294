// Package plan reads observation plans: one record per exposure, carrying the
// pointing, bandpass, cadence reference, duration, and the hierarchical
// identifier tuple that uniquely names the exposure. Plans are accepted as
// ECSV tables or as an equivalent TOML encoding.
package plan

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ExposureID is the hierarchical identifier tuple of one exposure.
type ExposureID struct {
	Plan        int64
	Pass        int64
	Segment     int64
	Observation int64
	Visit       int64
	Exposure    int64
}

func (id ExposureID) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d,%d,%d)", id.Plan, id.Pass, id.Segment, id.Observation, id.Visit, id.Exposure)
}

// ObservationRecord is one row of the plan. Records are read-only once parsed.
type ObservationRecord struct {
	RA       float64 // deg
	Dec      float64 // deg
	PA       float64 // deg
	Bandpass string

	MATableNumber int64 // cadence-table reference
	Duration      int64 // seconds

	ID ExposureID
}

// FormatError reports a malformed plan: a missing column, a value that cannot
// be coerced to its declared type, or a violated record invariant.
type FormatError struct {
	Path string
	Row  int // 1-based data row; 0 for file-level problems
	Err  error
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %v", e.Path, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Read parses the plan file at path, dispatching on extension: .toml is the
// TOML encoding, anything else is read as ECSV.
func Read(path string) ([]ObservationRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ReadTOML(path)
	}
	return ReadECSV(path)
}

// validate checks per-record invariants and identifier-tuple uniqueness,
// in file order.
func validate(path string, records []ObservationRecord) error {
	seen := make(map[ExposureID]int, len(records))
	for i, r := range records {
		row := i + 1
		if r.Duration <= 0 {
			return &FormatError{Path: path, Row: row, Err: fmt.Errorf("DURATION must be positive, got %d", r.Duration)}
		}
		if r.MATableNumber <= 0 {
			return &FormatError{Path: path, Row: row, Err: fmt.Errorf("MA_TABLE_NUMBER must be positive, got %d", r.MATableNumber)}
		}
		if r.Bandpass == "" {
			return &FormatError{Path: path, Row: row, Err: fmt.Errorf("BANDPASS must be non-empty")}
		}
		if prev, dup := seen[r.ID]; dup {
			return &FormatError{Path: path, Row: row, Err: fmt.Errorf("identifier tuple %s duplicates row %d", r.ID, prev)}
		}
		seen[r.ID] = row
	}
	return nil
}
