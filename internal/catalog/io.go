package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/asterolab/romanprep/internal/ecsv"
	"github.com/asterolab/romanprep/internal/idgen"
)

// Fixed (non-band) catalog columns. Any other float64 column in an input
// catalog is treated as a per-band flux column.
const (
	colRA         = "ra"
	colDec        = "dec"
	colType       = "type"
	colSersic     = "n"
	colHLR        = "half_light_radius"
	colPA         = "pa"
	colBA         = "ba"
	colProvenance = "provenance"
)

func isFixedColumn(name string) bool {
	switch name {
	case colRA, colDec, colType, colSersic, colHLR, colPA, colBA, colProvenance:
		return true
	}
	return false
}

// Table converts the catalog into an ECSV table with one flux column per band
// and a provenance column.
func (c *Catalog) Table() (*ecsv.Table, error) {
	cols := []ecsv.Column{
		{Name: colRA, Datatype: ecsv.TypeFloat64, Unit: "deg"},
		{Name: colDec, Datatype: ecsv.TypeFloat64, Unit: "deg"},
		{Name: colType, Datatype: ecsv.TypeString},
		{Name: colSersic, Datatype: ecsv.TypeFloat64},
		{Name: colHLR, Datatype: ecsv.TypeFloat64, Unit: "arcsec"},
		{Name: colPA, Datatype: ecsv.TypeFloat64, Unit: "deg"},
		{Name: colBA, Datatype: ecsv.TypeFloat64},
	}
	for _, b := range c.Bands {
		cols = append(cols, ecsv.Column{Name: b, Datatype: ecsv.TypeFloat64, Unit: "mgy"})
	}
	cols = append(cols, ecsv.Column{Name: colProvenance, Datatype: ecsv.TypeString})

	tab := ecsv.New(cols)
	for _, s := range c.Sources {
		values := []any{s.RA, s.Dec, s.Type, s.SersicIndex, s.HalfLightRadius, s.PA, s.BA}
		for _, b := range c.Bands {
			values = append(values, s.Flux[b])
		}
		values = append(values, s.Provenance)
		if err := tab.AppendValues(values...); err != nil {
			return nil, err
		}
	}
	return tab, nil
}

// Read parses a catalog table from r. Band columns are every float64 column
// that is not one of the fixed catalog columns; a provenance column is
// optional (external input catalogs do not carry one).
func Read(r io.Reader) (*Catalog, error) {
	tab, err := ecsv.Read(r)
	if err != nil {
		return nil, err
	}
	return fromTable(tab)
}

// ReadFile parses the catalog file at path.
func ReadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func fromTable(tab *ecsv.Table) (*Catalog, error) {
	for _, required := range []string{colRA, colDec} {
		if !tab.HasColumn(required) {
			return nil, fmt.Errorf("catalog: missing required column %s", required)
		}
	}
	var bands []string
	for _, col := range tab.Columns {
		if !isFixedColumn(col.Name) && col.Datatype == ecsv.TypeFloat64 {
			bands = append(bands, col.Name)
		}
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("catalog: no per-band flux columns found")
	}

	c := New(bands)
	for i := 0; i < tab.NumRows(); i++ {
		s := Source{Type: TypePointSource, Flux: make(map[string]float64, len(bands))}
		var err error
		readF := func(name string, dst *float64, optional bool) {
			if err != nil || (optional && !tab.HasColumn(name)) {
				return
			}
			*dst, err = tab.Float(i, name)
		}
		readF(colRA, &s.RA, false)
		readF(colDec, &s.Dec, false)
		readF(colSersic, &s.SersicIndex, true)
		readF(colHLR, &s.HalfLightRadius, true)
		readF(colPA, &s.PA, true)
		readF(colBA, &s.BA, true)
		if err == nil && tab.HasColumn(colType) {
			s.Type, err = tab.String(i, colType)
		}
		if err == nil && tab.HasColumn(colProvenance) {
			s.Provenance, err = tab.String(i, colProvenance)
		}
		for _, b := range bands {
			var f float64
			readF(b, &f, false)
			s.Flux[b] = f
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: row %d: %w", i+1, err)
		}
		c.Sources = append(c.Sources, s)
	}
	return c, nil
}

// WriteFile writes the catalog to path atomically: the table is written to a
// temp file in the same directory, then renamed over the target, so a named
// output path never holds a partial catalog.
func (c *Catalog) WriteFile(path string) error {
	tab, err := c.Table()
	if err != nil {
		return err
	}

	suffix, err := idgen.GenerateWithPrefix("tmp-")
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+suffix)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating temp catalog: %w", err)
	}
	if err := tab.Write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming catalog into place: %w", err)
	}
	return nil
}
