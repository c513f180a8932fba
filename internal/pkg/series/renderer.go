// Package series draws the lines of a chart.
package series

import (
	"image/color"
	"math"

	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/layout"
	"github.com/fredbi/linechart/internal/pkg/model"
)

const (
	areaAlpha    = 0.2
	lineWidth    = 1
	markerRadius = 2
)

// Point is a data point projected in pixel space.
type Point struct {
	Index int
	X     float64
	Y     float64
}

// Project the defined points of a series onto the plot area.
//
// Points past the end of the x-axis are ignored.
func Project(s model.Series, g layout.Geometry) []Point {
	n := min(len(s.Points), g.Categories)
	points := make([]Point, 0, n)

	for i := range n {
		v, ok := s.Value(i)
		if !ok {
			continue
		}

		points = append(points, Point{
			Index: i,
			X:     g.X(i),
			Y:     g.Y(v),
		})
	}

	return points
}

// Render draws every visible series, in declaration order.
//
// Each series is drawn as a filled area under the line, then the line itself, then a marker on each point.
// Hidden series are skipped.
func Render(c canvas.Canvas, lines []model.Series, g layout.Geometry) {
	for _, s := range lines {
		if s.Hidden {
			continue
		}

		renderOne(c, s, g)
	}
}

func renderOne(c canvas.Canvas, s model.Series, g layout.Geometry) {
	points := Project(s, g)
	if len(points) == 0 {
		return
	}

	lineColor := canvas.ParseColorOr(s.Color, color.RGBA{A: 0xff})
	last := points[len(points)-1]

	// area
	c.BeginPath()
	c.SetGlobalAlpha(areaAlpha)
	c.SetFillColor(lineColor)
	c.MoveTo(points[0].X, g.YOffset)
	for _, p := range points {
		c.LineTo(p.X, p.Y)
	}
	c.LineTo(last.X, g.YOffset)
	c.ClosePath()
	c.Fill()

	// line
	c.BeginPath()
	c.SetGlobalAlpha(1)
	c.SetLineWidth(lineWidth)
	c.SetStrokeColor(lineColor)
	c.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.LineTo(p.X, p.Y)
	}
	c.Stroke()

	// hollow markers
	c.SetFillColor(color.White)
	for _, p := range points {
		c.BeginPath()
		c.Arc(p.X, p.Y, markerRadius, 0, 2*math.Pi)
		c.ClosePath()
		c.Fill()
		c.Stroke()
	}
}
