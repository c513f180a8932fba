package layout

import (
	"image/color"

	"github.com/fredbi/linechart/internal/pkg/canvas"
)

// AxisStyle holds the colors used to draw axes.
type AxisStyle struct {
	LabelColor color.Color
	AxisColor  color.Color
}

// DrawAxis draws the x-axis baseline, the horizontal guide lines with their y-axis labels, and the retained
// x-axis labels.
func DrawAxis(c canvas.Canvas, g Geometry, style AxisStyle) {
	baseline := g.Height - g.XAxisOffset

	c.BeginPath()
	c.SetGlobalAlpha(1)
	c.SetLineWidth(axisLineWidth)
	c.SetStrokeColor(style.AxisColor)
	c.MoveTo(g.XOffset, baseline)
	c.LineTo(g.Right(), baseline)
	c.Stroke()

	c.SetFillColor(style.LabelColor)
	for _, label := range g.XLabels {
		c.FillText(label.Text, label.X, g.Height-g.Margin)
	}

	for _, label := range g.TickLabels {
		c.BeginPath()
		c.SetLineWidth(guideLineWidth)
		c.SetStrokeColor(style.AxisColor)
		c.MoveTo(g.XOffset, label.Y)
		c.LineTo(g.Right(), label.Y)
		c.Stroke()

		x := g.YLabelMaxWidth - c.MeasureText(label.Text) - yLabelPadding
		c.SetFillColor(style.LabelColor)
		c.FillText(label.Text, x, label.Y+yLabelBaseline)
	}
}
