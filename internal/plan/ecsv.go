package plan

import (
	"fmt"

	"github.com/asterolab/romanprep/internal/ecsv"
)

// Columns is the required plan column set, in canonical order.
var Columns = []ecsv.Column{
	{Name: "RA", Datatype: ecsv.TypeFloat64, Unit: "deg"},
	{Name: "DEC", Datatype: ecsv.TypeFloat64, Unit: "deg"},
	{Name: "PA", Datatype: ecsv.TypeFloat64, Unit: "deg"},
	{Name: "BANDPASS", Datatype: ecsv.TypeString},
	{Name: "MA_TABLE_NUMBER", Datatype: ecsv.TypeInt64},
	{Name: "DURATION", Datatype: ecsv.TypeInt64, Unit: "s"},
	{Name: "PLAN", Datatype: ecsv.TypeInt64},
	{Name: "PASS", Datatype: ecsv.TypeInt64},
	{Name: "SEGMENT", Datatype: ecsv.TypeInt64},
	{Name: "OBSERVATION", Datatype: ecsv.TypeInt64},
	{Name: "VISIT", Datatype: ecsv.TypeInt64},
	{Name: "EXPOSURE", Datatype: ecsv.TypeInt64},
}

// ReadECSV parses an ECSV-encoded plan, preserving row order.
func ReadECSV(path string) ([]ObservationRecord, error) {
	tab, err := ecsv.ReadFile(path)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	for _, c := range Columns {
		if !tab.HasColumn(c.Name) {
			return nil, &FormatError{Path: path, Err: fmt.Errorf("missing required column %s", c.Name)}
		}
	}

	records := make([]ObservationRecord, 0, tab.NumRows())
	for i := 0; i < tab.NumRows(); i++ {
		var r ObservationRecord
		var err error
		read := func(get func() error) {
			if err == nil {
				err = get()
			}
		}
		read(func() (e error) { r.RA, e = tab.Float(i, "RA"); return })
		read(func() (e error) { r.Dec, e = tab.Float(i, "DEC"); return })
		read(func() (e error) { r.PA, e = tab.Float(i, "PA"); return })
		read(func() (e error) { r.Bandpass, e = tab.String(i, "BANDPASS"); return })
		read(func() (e error) { r.MATableNumber, e = tab.Int(i, "MA_TABLE_NUMBER"); return })
		read(func() (e error) { r.Duration, e = tab.Int(i, "DURATION"); return })
		read(func() (e error) { r.ID.Plan, e = tab.Int(i, "PLAN"); return })
		read(func() (e error) { r.ID.Pass, e = tab.Int(i, "PASS"); return })
		read(func() (e error) { r.ID.Segment, e = tab.Int(i, "SEGMENT"); return })
		read(func() (e error) { r.ID.Observation, e = tab.Int(i, "OBSERVATION"); return })
		read(func() (e error) { r.ID.Visit, e = tab.Int(i, "VISIT"); return })
		read(func() (e error) { r.ID.Exposure, e = tab.Int(i, "EXPOSURE"); return })
		if err != nil {
			return nil, &FormatError{Path: path, Row: i + 1, Err: err}
		}
		records = append(records, r)
	}

	if err := validate(path, records); err != nil {
		return nil, err
	}
	return records, nil
}
