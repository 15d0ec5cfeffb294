package catalog

import (
	"math"
	"testing"

	"github.com/asterolab/romanprep/internal/footprint"
)

func synthConfig(n int, seed uint64) SynthConfig {
	return SynthConfig{
		Count:     n,
		Seed:      seed,
		Bands:     []string{"F184"},
		MagFaint:  24.0,
		MagBright: 18.0,
	}
}

func TestGenerateStarsCountAndBounds(t *testing.T) {
	fp, _ := footprint.Circle(10.0, -5.0, 0.3)
	c, err := GenerateStars(fp, synthConfig(250, 42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 250 {
		t.Fatalf("expected 250 stars, got %d", c.Len())
	}
	faint := math.Pow(10, -0.4*24.0)
	bright := math.Pow(10, -0.4*18.0)
	for i, s := range c.Sources {
		if !fp.Contains(s.RA, s.Dec) {
			t.Fatalf("star %d at (%g, %g) outside footprint", i, s.RA, s.Dec)
		}
		if s.Provenance != ProvenanceSynthetic || s.Type != TypePointSource {
			t.Fatalf("star %d tags: %+v", i, s)
		}
		f := s.Flux["F184"]
		if f < faint || f > bright {
			t.Fatalf("star %d flux %g outside magnitude range", i, f)
		}
	}
}

func TestGenerateStarsDeterministic(t *testing.T) {
	fp, _ := footprint.Circle(10.0, -5.0, 0.3)
	a, err := GenerateStars(fp, synthConfig(50, 7))
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	b, err := GenerateStars(fp, synthConfig(50, 7))
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	for i := range a.Sources {
		if a.Sources[i].RA != b.Sources[i].RA ||
			a.Sources[i].Dec != b.Sources[i].Dec ||
			a.Sources[i].Flux["F184"] != b.Sources[i].Flux["F184"] {
			t.Fatalf("star %d differs between calls", i)
		}
	}

	other, err := GenerateStars(fp, synthConfig(50, 8))
	if err != nil {
		t.Fatalf("third call: %v", err)
	}
	if other.Sources[0].RA == a.Sources[0].RA && other.Sources[0].Dec == a.Sources[0].Dec {
		t.Fatal("different seeds produced identical first star")
	}
}

func TestGenerateStarsRejectsBadConfig(t *testing.T) {
	fp, _ := footprint.Circle(10.0, -5.0, 0.3)
	for _, tc := range []struct {
		name string
		cfg  SynthConfig
	}{
		{"zero count", synthConfig(0, 1)},
		{"negative count", synthConfig(-5, 1)},
		{"no bands", SynthConfig{Count: 1, Seed: 1, MagFaint: 24, MagBright: 18}},
		{"inverted magnitudes", SynthConfig{Count: 1, Seed: 1, Bands: []string{"F184"}, MagFaint: 18, MagBright: 24}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := GenerateStars(fp, tc.cfg); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
