// Package tooltip renders an annotation tracking the pointer position over a chart, on an overlay surface.
package tooltip

import (
	"image/color"
	"log/slog"
	"math"

	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/layout"
	"github.com/fredbi/linechart/internal/pkg/model"
)

const (
	guideWidth    = 1
	markerRadius  = 3
	panelPadding  = 6
	panelGap      = 8
	swatchSize    = 8
	swatchGap     = 4
	panelAlpha    = 0.7
	lineHeightPct = 1.5
)

// Row is a line of the tooltip panel, showing the value of one series.
type Row struct {
	Series int
	Text   string
	Color  color.Color
	Value  float64
}

// Panel is the placement of the floating tooltip panel.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	Rows          []Row
}

// Controller maps the pointer position to a category and renders the tooltip on the overlay surface.
//
// A [Controller] without an overlay surface ignores all pointer events.
type Controller struct {
	overlay      canvas.Canvas
	requestFlush func(canvas.Canvas)

	lastIndex int
	hasLast   bool
	l         *slog.Logger
}

// New builds a tooltip [Controller] drawing on overlay, which may be nil.
//
// requestFlush is called whenever the overlay needs to be committed.
func New(overlay canvas.Canvas, requestFlush func(canvas.Canvas)) *Controller {
	return &Controller{
		overlay:      overlay,
		requestFlush: requestFlush,
		l:            slog.Default().With(slog.String("module", "tooltip")),
	}
}

// ResolveIndex maps a horizontal pixel position to the index of the closest category.
func ResolveIndex(g layout.Geometry, pixelX float64) int {
	if pixelX <= g.XOffset || g.Categories <= 1 || g.XStep <= 0 {
		return 0
	}

	index := int(math.Round((pixelX - g.XOffset) / g.XStep))

	return min(max(index, 0), g.Categories-1)
}

// LastIndex returns the last rendered category index, if any.
func (c *Controller) LastIndex() (int, bool) {
	return c.lastIndex, c.hasLast
}

// Reset forgets the last rendered index, so that the next pointer move always renders.
func (c *Controller) Reset() {
	c.hasLast = false
	c.lastIndex = 0
}

// PointerMoved renders the tooltip for the category closest to pixelX.
//
// Nothing is drawn nor flushed when the resolved index is the one last rendered.
// It reports whether the overlay was redrawn.
func (c *Controller) PointerMoved(chart model.Chart, g layout.Geometry, pixelX float64) bool {
	if c.overlay == nil {
		return false
	}

	index := ResolveIndex(g, pixelX)
	if c.hasLast && index == c.lastIndex {
		return false
	}

	c.clear(g)
	c.render(chart, g, index)
	c.lastIndex = index
	c.hasLast = true
	c.flush()

	c.l.Debug("tooltip rendered", slog.Int("index", index))

	return true
}

// PointerLeft clears the overlay and forgets the last rendered index.
func (c *Controller) PointerLeft(g layout.Geometry) {
	if c.overlay == nil {
		return
	}

	c.clear(g)
	c.Reset()
	c.flush()
}

// PlacePanel computes the tooltip panel for a category, without drawing it.
func PlacePanel(chart model.Chart, g layout.Geometry, m canvas.Measurer, index int) Panel {
	m.SetFontSize(chart.FontSize)

	p := Panel{
		Y:     g.Margin,
		Title: chart.XAxis[index] + chart.XUnit,
	}

	for i, s := range chart.Lines {
		if s.Hidden {
			continue
		}

		v, ok := s.Value(index)
		if !ok {
			continue
		}

		p.Rows = append(p.Rows, Row{
			Series: i,
			Text:   layout.FormatValue(v) + chart.YUnit,
			Color:  canvas.ParseColorOr(s.Color, color.RGBA{A: 0xff}),
			Value:  v,
		})
	}

	var rowWidth float64
	for _, row := range p.Rows {
		rowWidth = max(rowWidth, m.MeasureText(row.Text))
	}

	lineHeight := chart.FontSize * lineHeightPct
	p.Width = max(m.MeasureText(p.Title), rowWidth+swatchSize+swatchGap) + 2*panelPadding
	p.Height = 2*panelPadding + lineHeight*float64(1+len(p.Rows))

	guideX := g.X(index)
	p.X = guideX - panelGap - p.Width
	if p.X < g.XOffset {
		p.X = guideX + panelGap
	}

	return p
}

func (c *Controller) render(chart model.Chart, g layout.Geometry, index int) {
	o := c.overlay
	x := g.X(index)
	axisColor := canvas.ParseColorOr(chart.AxisColor, color.RGBA{A: 0xff})

	o.SetGlobalAlpha(1)
	o.BeginPath()
	o.SetLineWidth(guideWidth)
	o.SetStrokeColor(axisColor)
	o.MoveTo(x, g.YOffset)
	o.LineTo(x, g.Margin)
	o.Stroke()

	panel := PlacePanel(chart, g, o, index)

	for _, row := range panel.Rows {
		o.BeginPath()
		o.Arc(x, g.Y(row.Value), markerRadius, 0, 2*math.Pi)
		o.ClosePath()
		o.SetFillColor(row.Color)
		o.Fill()
	}

	o.BeginPath()
	o.SetGlobalAlpha(panelAlpha)
	o.SetFillColor(color.Black)
	o.Rect(panel.X, panel.Y, panel.Width, panel.Height)
	o.Fill()
	o.SetGlobalAlpha(1)

	lineHeight := chart.FontSize * lineHeightPct
	left := panel.X + panelPadding
	baseline := panel.Y + panelPadding + chart.FontSize

	o.SetFillColor(color.White)
	o.FillText(panel.Title, left, baseline)

	for _, row := range panel.Rows {
		baseline += lineHeight

		o.BeginPath()
		o.SetFillColor(row.Color)
		o.Rect(left, baseline-swatchSize, swatchSize, swatchSize)
		o.Fill()

		o.SetFillColor(color.White)
		o.FillText(row.Text, left+swatchSize+swatchGap, baseline)
	}
}

func (c *Controller) clear(g layout.Geometry) {
	c.overlay.ClearRect(0, 0, g.Width, g.Height)
}

func (c *Controller) flush() {
	if c.requestFlush != nil {
		c.requestFlush(c.overlay)
	}
}
