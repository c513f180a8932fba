// Package canvas exposes the drawing surface consumed by the chart engine.
//
// A [Canvas] follows the conventions of a 2D context: a current path is built with [Canvas.BeginPath],
// [Canvas.MoveTo], [Canvas.LineTo] and [Canvas.Arc], then painted with [Canvas.Fill] or [Canvas.Stroke].
// Painting does not consume the current path.
//
// Drawing commands are pending until [Canvas.Flush] commits them to the visible surface.
package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Measurer knows how to measure text rendered on a surface.
type Measurer interface {
	SetFontSize(size float64)
	MeasureText(text string) float64
}

// Canvas is a 2D drawing surface.
type Canvas interface {
	Measurer

	ClearRect(x, y, width, height float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64)
	Rect(x, y, width, height float64)
	ClosePath()

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(width float64)
	SetGlobalAlpha(alpha float64)

	Fill()
	Stroke()
	FillText(text string, x, y float64)

	// Flush commits all pending drawing commands to the visible surface.
	Flush() error
}

// ParseColor parses a color given as "#rgb", "#rrggbb", "#rrggbbaa" or as a CSS color name (e.g. "red").
func ParseColor(value string) (color.RGBA, error) {
	value = strings.TrimSpace(value)

	if !strings.HasPrefix(value, "#") {
		c, ok := colornames.Map[strings.ToLower(value)]
		if !ok {
			return color.RGBA{}, fmt.Errorf("unknown color name: %q", value)
		}

		return c, nil
	}

	hex := value[1:]
	if len(hex) == 3 { //nolint:mnd
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	switch len(hex) {
	case 6: //nolint:mnd
		hex += "ff"
	case 8: //nolint:mnd
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color: %q", value)
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color: %q: %w", value, err)
	}

	return color.RGBA{
		R: uint8(n >> 24), //nolint:gosec,mnd
		G: uint8(n >> 16), //nolint:gosec,mnd
		B: uint8(n >> 8),  //nolint:gosec,mnd
		A: uint8(n),       //nolint:gosec
	}, nil
}

// ParseColorOr is like [ParseColor] but returns fallback on invalid input.
func ParseColorOr(value string, fallback color.RGBA) color.RGBA {
	c, err := ParseColor(value)
	if err != nil {
		return fallback
	}

	return c
}

// WithAlpha scales the opacity of a color by alpha, in [0, 1].
func WithAlpha(c color.Color, alpha float64) color.Color {
	if alpha >= 1 {
		return c
	}

	alpha = max(alpha, 0)
	r, g, b, a := c.RGBA()

	// RGBA returns alpha-premultiplied components
	return color.RGBA64{
		R: uint16(float64(r) * alpha), //nolint:gosec
		G: uint16(float64(g) * alpha), //nolint:gosec
		B: uint16(float64(b) * alpha), //nolint:gosec
		A: uint16(float64(a) * alpha), //nolint:gosec
	}
}
