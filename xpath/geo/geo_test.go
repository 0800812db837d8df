package geo

import (
	"math"
	"testing"
)

func TestDistanceTwoPoints(t *testing.T) {
	// Roughly 1 degree of longitude at the equator is about 111.32km.
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 0, Lon: 1}
	got := Distance([]Point{a, b})
	want := 111319.49
	if math.Abs(got-want) > 500 {
		t.Errorf("Distance(equator, 1 degree east) = %v, want close to %v", got, want)
	}
}

func TestDistanceSumsPairwiseAlongTrace(t *testing.T) {
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 0, Lon: 1}
	c := Point{Lat: 0, Lon: 2}
	ab := Distance([]Point{a, b})
	bc := Distance([]Point{b, c})
	full := Distance([]Point{a, b, c})
	if math.Abs(full-(ab+bc)) > 1e-6 {
		t.Errorf("Distance over a 3-point trace should equal the sum of its segments: %v vs %v", full, ab+bc)
	}
}

func TestDistanceDegenerate(t *testing.T) {
	if got := Distance(nil); got != 0 {
		t.Errorf("Distance(nil) = %v, want 0", got)
	}
	if got := Distance([]Point{{Lat: 1, Lon: 1}}); got != 0 {
		t.Errorf("Distance of a single point = %v, want 0", got)
	}
}

func TestAreaOfASquareDegree(t *testing.T) {
	pts := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 0},
	}
	got := Area(pts)
	if got <= 0 {
		t.Errorf("Area of a non-degenerate polygon should be positive, got %v", got)
	}
}

func TestAreaDegenerate(t *testing.T) {
	if got := Area([]Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}); got != 0 {
		t.Errorf("Area of fewer than 3 points = %v, want 0", got)
	}
}
