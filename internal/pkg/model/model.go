// Package model defines the data rendered by a line chart.
package model

import (
	"math"
	"slices"
)

// Default values applied to unset [Chart] fields.
const (
	DefaultWidth      = 320
	DefaultHeight     = 200
	DefaultLabelColor = "#888888"
	DefaultAxisColor  = "#d0d0d0"
	DefaultMargin     = 20
	DefaultFontSize   = 12
)

// Chart holds the configuration of a line chart: its dimensions, its styling and its data.
//
// A [Chart] is treated as immutable once a draw cycle begins. It may be replaced wholesale between draws.
type Chart struct {
	Width      float64
	Height     float64
	Margin     float64
	FontSize   float64
	LabelColor string
	AxisColor  string
	XUnit      string
	YUnit      string
	XAxis      []string
	Lines      []Series
}

// Series is a single line of the chart.
//
// Points are index-aligned with the x-axis. A point is absent when its index is past the end
// of Points or when its value is NaN.
type Series struct {
	Name   string
	Color  string
	Hidden bool
	Points []float64
}

// Value returns the value of the series at index i, and whether it is defined.
func (s Series) Value(i int) (float64, bool) {
	if i < 0 || i >= len(s.Points) {
		return 0, false
	}

	v := s.Points[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// WithDefaults returns a copy of the chart with all unset fields set to their default.
//
// Slices are cloned so that the returned chart does not share mutable state with the receiver.
func (c Chart) WithDefaults() Chart {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Margin <= 0 {
		c.Margin = DefaultMargin
	}
	if c.FontSize <= 0 {
		c.FontSize = DefaultFontSize
	}
	if c.LabelColor == "" {
		c.LabelColor = DefaultLabelColor
	}
	if c.AxisColor == "" {
		c.AxisColor = DefaultAxisColor
	}

	c.XAxis = slices.Clone(c.XAxis)
	lines := make([]Series, len(c.Lines))
	for i, s := range c.Lines {
		s.Points = slices.Clone(s.Points)
		lines[i] = s
	}
	c.Lines = lines

	return c
}

// XAxisOffset is the height of the band reserved at the bottom of the chart for x-axis labels.
func (c Chart) XAxisOffset() float64 {
	return c.Margin + c.FontSize*1.5 //nolint:mnd
}

// MaxValue returns the largest defined value across all series, hidden or not.
//
// It returns 1 when no series holds a positive value, so that the scale is never degenerate.
func (c Chart) MaxValue() float64 {
	maxValue := math.Inf(-1)

	for _, s := range c.Lines {
		for i := range s.Points {
			v, ok := s.Value(i)
			if !ok {
				continue
			}

			maxValue = max(maxValue, v)
		}
	}

	if maxValue <= 0 {
		return 1
	}

	return maxValue
}

// Validate checks the chart configuration.
//
// When requireLines is true, a chart without any series is invalid (this is the case when tooltips are enabled).
func (c Chart) Validate(requireLines bool) error {
	if len(c.XAxis) == 0 {
		return NewConfigurationError("xAxis", "can not be empty")
	}

	if requireLines && len(c.Lines) == 0 {
		return NewConfigurationError("lines", "can not be empty when tooltips are enabled")
	}

	if c.Width <= 0 || c.Height <= 0 {
		return NewConfigurationError("width/height", "must be positive")
	}

	if c.Margin <= 0 || c.FontSize <= 0 {
		return NewConfigurationError("margin/fontSize", "must be positive")
	}

	return nil
}
