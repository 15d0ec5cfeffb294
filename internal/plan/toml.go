package plan

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// tomlPlan mirrors the ECSV column set as an array of tables:
//
//	[[exposures]]
//	ra = 10.0
//	dec = -5.0
//	pa = 0.0
//	bandpass = "F184"
//	ma_table_number = 1
//	duration = 150
//	plan = 1
//	pass = 1
//	segment = 1
//	observation = 1
//	visit = 1
//	exposure = 1
type tomlPlan struct {
	Exposures []tomlExposure `toml:"exposures"`
}

type tomlExposure struct {
	RA            *float64 `toml:"ra"`
	Dec           *float64 `toml:"dec"`
	PA            *float64 `toml:"pa"`
	Bandpass      *string  `toml:"bandpass"`
	MATableNumber *int64   `toml:"ma_table_number"`
	Duration      *int64   `toml:"duration"`
	Plan          *int64   `toml:"plan"`
	Pass          *int64   `toml:"pass"`
	Segment       *int64   `toml:"segment"`
	Observation   *int64   `toml:"observation"`
	Visit         *int64   `toml:"visit"`
	Exposure      *int64   `toml:"exposure"`
}

// ReadTOML parses a TOML-encoded plan, preserving table order.
func ReadTOML(path string) ([]ObservationRecord, error) {
	var doc tomlPlan
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	records := make([]ObservationRecord, 0, len(doc.Exposures))
	for i, e := range doc.Exposures {
		row := i + 1
		missing := func(field string) error {
			return &FormatError{Path: path, Row: row, Err: fmt.Errorf("missing required field %s", field)}
		}
		switch {
		case e.RA == nil:
			return nil, missing("ra")
		case e.Dec == nil:
			return nil, missing("dec")
		case e.PA == nil:
			return nil, missing("pa")
		case e.Bandpass == nil:
			return nil, missing("bandpass")
		case e.MATableNumber == nil:
			return nil, missing("ma_table_number")
		case e.Duration == nil:
			return nil, missing("duration")
		case e.Plan == nil:
			return nil, missing("plan")
		case e.Pass == nil:
			return nil, missing("pass")
		case e.Segment == nil:
			return nil, missing("segment")
		case e.Observation == nil:
			return nil, missing("observation")
		case e.Visit == nil:
			return nil, missing("visit")
		case e.Exposure == nil:
			return nil, missing("exposure")
		}
		records = append(records, ObservationRecord{
			RA:            *e.RA,
			Dec:           *e.Dec,
			PA:            *e.PA,
			Bandpass:      *e.Bandpass,
			MATableNumber: *e.MATableNumber,
			Duration:      *e.Duration,
			ID: ExposureID{
				Plan:        *e.Plan,
				Pass:        *e.Pass,
				Segment:     *e.Segment,
				Observation: *e.Observation,
				Visit:       *e.Visit,
				Exposure:    *e.Exposure,
			},
		})
	}

	if err := validate(path, records); err != nil {
		return nil, err
	}
	return records, nil
}
