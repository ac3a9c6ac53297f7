// Package sample builds uniform grids and evaluates functions over them.
package sample

import (
	"encoding/json"
	"math"
)

// Point is one evaluation on a grid. Y is NaN when Valid is false.
type Point struct {
	X     float64
	Y     float64
	Valid bool
}

// MarshalJSON writes gaps as {"x": x, "y": null} since JSON has no NaN.
func (p Point) MarshalJSON() ([]byte, error) {
	var y *float64
	if p.Valid {
		y = &p.Y
	}
	return json.Marshal(struct {
		X float64  `json:"x"`
		Y *float64 `json:"y"`
	}{X: p.X, Y: y})
}

// Uniform returns count evenly spaced values from min to max, both
// endpoints included. The last value is exactly max.
func Uniform(min, max float64, count int) []float64 {
	switch {
	case count <= 0:
		return nil
	case count == 1:
		return []float64{min}
	}
	xs := make([]float64, count)
	step := (max - min) / float64(count-1)
	for i := range xs {
		xs[i] = min + float64(i)*step
	}
	xs[count-1] = max
	return xs
}

// Evaluate applies f at every x. Points where f reports false or returns a
// non-finite number are kept as gaps.
func Evaluate(xs []float64, f func(x float64) (float64, bool)) []Point {
	points := make([]Point, len(xs))
	for i, x := range xs {
		y, ok := f(x)
		if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
			points[i] = Point{X: x, Y: math.NaN()}
			continue
		}
		points[i] = Point{X: x, Y: y, Valid: true}
	}
	return points
}

// Extent returns the minimum and maximum Y over valid points. ok is false
// when no point is valid.
func Extent(points []Point) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if !p.Valid {
			continue
		}
		ok = true
		lo = math.Min(lo, p.Y)
		hi = math.Max(hi, p.Y)
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
