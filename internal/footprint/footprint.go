// Package footprint models the sky area covered by one exposure: a circle or
// a position-angle-rotated rectangle centered at RA/Dec. All angles are
// degrees. Positions near the center are treated in a local tangent plane,
// which is accurate at the sub-degree scales of an imaging field of view.
package footprint

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Footprint is a sky footprint. Radius > 0 selects the circular shape;
// otherwise Width/Height/PA define a rotated rectangle.
type Footprint struct {
	RA  float64 // center right ascension, deg
	Dec float64 // center declination, deg

	Radius float64 // circle radius, deg (0 for rectangles)

	Width  float64 // rectangle extent across the PA axis, deg
	Height float64 // rectangle extent along the PA axis, deg
	PA     float64 // position angle of the rectangle, deg east of north
}

// Circle returns a circular footprint.
func Circle(ra, dec, radius float64) (Footprint, error) {
	if radius <= 0 {
		return Footprint{}, fmt.Errorf("footprint: radius must be positive, got %g", radius)
	}
	return Footprint{RA: ra, Dec: dec, Radius: radius}, nil
}

// Rect returns a rectangular footprint rotated by pa degrees.
func Rect(ra, dec, width, height, pa float64) (Footprint, error) {
	if width <= 0 || height <= 0 {
		return Footprint{}, fmt.Errorf("footprint: width and height must be positive, got %g x %g", width, height)
	}
	return Footprint{RA: ra, Dec: dec, Width: width, Height: height, PA: pa}, nil
}

// wrapDelta normalizes an angle difference to [-180, 180).
func wrapDelta(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

// offsets returns the tangent-plane offsets (dx toward increasing RA,
// dy toward increasing Dec) of a position relative to the center.
func (f Footprint) offsets(ra, dec float64) (dx, dy float64) {
	dx = wrapDelta(ra-f.RA) * math.Cos(f.Dec*math.Pi/180)
	dy = dec - f.Dec
	return dx, dy
}

// Contains reports whether the given sky position falls inside the footprint.
func (f Footprint) Contains(ra, dec float64) bool {
	dx, dy := f.offsets(ra, dec)
	if f.Radius > 0 {
		return dx*dx+dy*dy <= f.Radius*f.Radius
	}
	// Rotate into the rectangle frame: the PA axis points north at PA=0 and
	// swings east of north as PA grows. Height spans the PA axis, Width the
	// perpendicular.
	pa := f.PA * math.Pi / 180
	u := dx*math.Sin(pa) + dy*math.Cos(pa)
	v := dx*math.Cos(pa) - dy*math.Sin(pa)
	return math.Abs(u) <= f.Height/2 && math.Abs(v) <= f.Width/2
}

// Sample returns a sky position uniformly distributed over the footprint,
// drawn from the provided generator.
func (f Footprint) Sample(rng *rand.Rand) (ra, dec float64) {
	var dx, dy float64
	if f.Radius > 0 {
		r := f.Radius * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		dx = r * math.Cos(theta)
		dy = r * math.Sin(theta)
	} else {
		u := (rng.Float64() - 0.5) * f.Height
		v := (rng.Float64() - 0.5) * f.Width
		pa := f.PA * math.Pi / 180
		dx = u*math.Sin(pa) + v*math.Cos(pa)
		dy = u*math.Cos(pa) - v*math.Sin(pa)
	}
	ra = f.RA + dx/math.Cos(f.Dec*math.Pi/180)
	if ra < 0 {
		ra += 360
	} else if ra >= 360 {
		ra -= 360
	}
	return ra, f.Dec + dy
}

// Bounds returns an RA/Dec bounding box enclosing the footprint, suitable for
// coarse database selection ahead of an exact Contains pass. The RA range may
// extend past [0, 360) when the footprint straddles RA=0; callers comparing
// against wrapped coordinates should use Contains for the exact test.
func (f Footprint) Bounds() (raMin, raMax, decMin, decMax float64) {
	half := f.Radius
	if half == 0 {
		// Any rotation of the rectangle fits inside its circumscribed circle.
		half = math.Hypot(f.Width, f.Height) / 2
	}
	cosDec := math.Cos(f.Dec * math.Pi / 180)
	if cosDec < 1e-9 {
		// Polar field: the bounding box in RA degenerates to the full range.
		return 0, 360, f.Dec - half, f.Dec + half
	}
	return f.RA - half/cosDec, f.RA + half/cosDec, f.Dec - half, f.Dec + half
}
