// Package layout computes the pixel geometry of a line chart and draws its axes.
package layout

import (
	"math"
	"strconv"

	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/model"
)

const (
	// yLabelSpacing is the approximate vertical distance in pixels between two y-axis labels.
	yLabelSpacing = 25

	// headroom is the fraction of the max value added above the highest point.
	headroom = 1.2

	guideLineWidth = 0.8
	axisLineWidth  = 1
	yLabelPadding  = 5
	yLabelBaseline = 4
)

// TickLabel is a formatted y-axis label.
type TickLabel struct {
	Text  string
	Value float64
	Y     float64
}

// XLabel is a category label retained on the x-axis.
type XLabel struct {
	Index int
	Text  string
	Width float64
	X     float64
}

// Geometry is the pixel-space layout of a chart, computed for one render pass.
//
// XOffset, YOffset locate the origin of the plot area. XStep is the distance between two adjacent categories,
// YStep is the number of pixels per data unit.
type Geometry struct {
	Width       float64
	Height      float64
	Margin      float64
	XAxisOffset float64

	XOffset float64
	YOffset float64
	XStep   float64
	YStep   float64

	XAxisLen float64
	YAxisLen float64

	YMaxValue   float64
	YDelta      float64
	Fixed       int
	YLabelCount int
	TickLabels  []TickLabel

	XLabelMaxWidth float64
	YLabelMaxWidth float64
	XLabelStep     int
	XLabels        []XLabel

	Categories int
}

// X returns the horizontal pixel position of the category at index i.
func (g Geometry) X(i int) float64 {
	return g.XOffset + float64(i)*g.XStep
}

// Y returns the vertical pixel position of a data value.
func (g Geometry) Y(value float64) float64 {
	return g.YOffset - value*g.YStep
}

// Right returns the horizontal pixel position of the right edge of the plot area.
func (g Geometry) Right() float64 {
	return g.Width - g.Margin
}

// Compute the [Geometry] of a chart.
//
// The [canvas.Measurer] is only used to measure labels: nothing is drawn.
func Compute(chart model.Chart, m canvas.Measurer) Geometry {
	g := Geometry{
		Width:       chart.Width,
		Height:      chart.Height,
		Margin:      chart.Margin,
		XAxisOffset: chart.XAxisOffset(),
		Categories:  len(chart.XAxis),
	}

	m.SetFontSize(chart.FontSize)

	g.YAxisLen = chart.Height - chart.Margin - g.XAxisOffset
	g.YLabelCount = int(math.Floor(g.YAxisLen / yLabelSpacing))
	g.YMaxValue = chart.MaxValue()
	g.YDelta, g.Fixed = tickStep(g.YMaxValue*headroom, g.YLabelCount)

	g.YOffset = chart.Margin + g.YAxisLen
	if g.YAxisLen > 0 {
		g.YStep = g.YAxisLen / (g.YMaxValue * headroom)
	}

	// labels for ticks 1..n-1: the zero baseline is drawn by the axis itself
	for i := 1; i < g.YLabelCount; i++ {
		value := roundTo(float64(i)*g.YDelta, g.Fixed)
		g.TickLabels = append(g.TickLabels, TickLabel{
			Text:  FormatValue(value) + chart.YUnit,
			Value: value,
			Y:     g.Y(value),
		})
	}

	for _, label := range g.TickLabels {
		g.YLabelMaxWidth = max(g.YLabelMaxWidth, m.MeasureText(label.Text))
	}
	g.YLabelMaxWidth += chart.Margin
	g.XOffset = g.YLabelMaxWidth

	g.XAxisLen = chart.Width - chart.Margin - g.YLabelMaxWidth
	if len(chart.XAxis) > 1 {
		g.XStep = g.XAxisLen / float64(len(chart.XAxis)-1)
	}

	widths := make([]float64, len(chart.XAxis))
	for i, category := range chart.XAxis {
		widths[i] = m.MeasureText(category + chart.XUnit)
		g.XLabelMaxWidth = max(g.XLabelMaxWidth, widths[i])
	}

	g.XLabelStep = labelStride(len(chart.XAxis), g.XAxisLen, g.XLabelMaxWidth)
	for i := 0; i < len(chart.XAxis); i += g.XLabelStep {
		g.XLabels = append(g.XLabels, XLabel{
			Index: i,
			Text:  chart.XAxis[i] + chart.XUnit,
			Width: widths[i],
			X:     g.X(i) - widths[i]/2,
		})
	}

	return g
}

// tickStep divides span into count ticks and rounds the tick spacing to a readable value.
//
// Spacings below 1 keep as many decimals as needed to resolve them. Other spacings are rounded up to an integer.
// The returned spacing is always positive for a positive span.
func tickStep(span float64, count int) (delta float64, fixed int) {
	delta = span / float64(max(count, 1))

	if delta >= 1 {
		return math.Ceil(delta), 0
	}

	fixed = len(strconv.FormatFloat(math.Round(1/delta), 'f', 0, 64))
	delta = roundTo(delta, fixed)

	return delta, fixed
}

// labelStride returns k such that only every k-th category label is rendered, so that labels do not overlap.
func labelStride(categories int, axisLen, labelWidth float64) int {
	if categories == 0 {
		return 1
	}

	fit := categories
	if labelWidth > 0 {
		fit = int(math.Floor(axisLen / labelWidth))
	}
	fit = max(fit, 1)

	return max(int(math.Ceil(float64(categories)/float64(fit))), 1)
}

func roundTo(value float64, decimals int) float64 {
	p := math.Pow10(decimals)

	return math.Round(value*p) / p
}

// FormatValue prints a data value the way it appears on labels and tooltips, without trailing zeros.
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
