package sim

import (
	"testing"

	"github.com/asterolab/romanprep/internal/plan"
)

func TestFilename(t *testing.T) {
	id := plan.ExposureID{Plan: 2, Pass: 3, Segment: 4, Observation: 5, Visit: 6, Exposure: 7}
	got := Filename(1, id, 8, "F106", "cat")
	want := "r102003004005006_0007_wfi08_f106_cat.asdf"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}

func TestFilenameUncal(t *testing.T) {
	id := plan.ExposureID{Plan: 1, Pass: 1, Segment: 1, Observation: 1, Visit: 1, Exposure: 1}
	got := Filename(1, id, 1, "F184", "uncal")
	want := "r101001001001001_0001_wfi01_f184_uncal.asdf"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}
