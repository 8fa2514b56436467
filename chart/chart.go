// Package chart provides the small geometry and data-mapping pieces
// needed to plot a stock's price history, without any rendering backend.
// Plot returns plain coordinates for a caller to render with whatever
// toolkit it has.
package chart

import "math"

// Point is a location in 2D cartesian space.
type Point struct {
	X, Y float64
}

// Offset returns p shifted by (dx, dy).
func (p Point) Offset(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rect is an axis-aligned rectangle, anchored at its top-left origin with
// a width and height.
type Rect struct {
	Origin        Point
	Width, Height float64
}

func (r Rect) Top() float64    { return r.Origin.Y }
func (r Rect) Bottom() float64 { return r.Origin.Y + r.Height }
func (r Rect) Left() float64   { return r.Origin.X }
func (r Rect) Right() float64  { return r.Origin.X + r.Width }
func (r Rect) Area() float64   { return r.Width * r.Height }

func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Width/2, Y: r.Origin.Y + r.Height/2}
}

// Inset shrinks r on all four sides by i.
func (r Rect) Inset(i float64) Rect {
	return Rect{
		Origin: Point{X: r.Origin.X + i, Y: r.Origin.Y + i},
		Width:  r.Width - 2*i,
		Height: r.Height - 2*i,
	}
}

// Contains reports whether p lies within r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left() < other.Right() && r.Right() > other.Left() &&
		r.Top() < other.Bottom() && r.Bottom() > other.Top()
}

// Sample is one point in a price history: a time offset (in whatever unit
// the caller chooses — seconds, trading days, sample index) and a price.
type Sample struct {
	Time  float64
	Price float64
}

// Series is an ordered price history for a single ticker.
type Series struct {
	Ticker  string
	Samples []Sample
}

// Plot maps a Series onto normalized plot-space coordinates within bounds
// by scanning for the sample range and scaling each point into it. An
// empty series produces an empty plot without error.
func Plot(series Series, bounds Rect) []Point {
	if len(series.Samples) == 0 {
		return nil
	}

	minTime, maxTime := series.Samples[0].Time, series.Samples[0].Time
	minPrice, maxPrice := series.Samples[0].Price, series.Samples[0].Price
	for _, s := range series.Samples[1:] {
		minTime = math.Min(minTime, s.Time)
		maxTime = math.Max(maxTime, s.Time)
		minPrice = math.Min(minPrice, s.Price)
		maxPrice = math.Max(maxPrice, s.Price)
	}

	timeSpan := maxTime - minTime
	priceSpan := maxPrice - minPrice

	points := make([]Point, len(series.Samples))
	for i, s := range series.Samples {
		var xFrac, yFrac float64
		if timeSpan > 0 {
			xFrac = (s.Time - minTime) / timeSpan
		}
		if priceSpan > 0 {
			yFrac = (s.Price - minPrice) / priceSpan
		}
		points[i] = Point{
			X: bounds.Left() + xFrac*bounds.Width,
			// Price increases upward on a chart but Y increases downward
			// in screen space, so invert the fraction.
			Y: bounds.Bottom() - yFrac*bounds.Height,
		}
	}
	return points
}
