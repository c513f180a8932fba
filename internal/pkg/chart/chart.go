// Package chart assembles the layout, series and tooltip components into a drawable line chart.
package chart

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/layout"
	"github.com/fredbi/linechart/internal/pkg/model"
	"github.com/fredbi/linechart/internal/pkg/scheduler"
	"github.com/fredbi/linechart/internal/pkg/series"
	"github.com/fredbi/linechart/internal/pkg/tooltip"
)

// LineChart draws a multi-series line chart on a [canvas.Canvas], with an optional tooltip overlay.
//
// The chart configuration is fixed for a draw cycle. Series visibility is tracked separately, by series index,
// and may change between draws.
//
// All methods are meant to be called from the turn of a single event loop (see [scheduler.Loop]).
type LineChart struct {
	options

	surface   canvas.Canvas
	config    model.Chart
	hidden    []bool
	geometry  layout.Geometry
	drawn     bool
	scheduler *scheduler.Scheduler
	tooltip   *tooltip.Controller
	l         *slog.Logger
}

// New builds a [LineChart] drawing on surface.
//
// Unset configuration fields take their default value. It fails with a [model.ConfigurationError]
// if the configuration can not be laid out.
func New(surface canvas.Canvas, cfg model.Chart, opts ...Option) (*LineChart, error) {
	if surface == nil {
		return nil, model.NewConfigurationError("surface", "is required")
	}

	c := &LineChart{
		options: optionsWithDefaults(opts),
		surface: surface,
		l:       slog.Default().With(slog.String("module", "chart")),
	}

	if err := c.setConfig(cfg); err != nil {
		return nil, err
	}

	if c.background != "" {
		if _, err := canvas.ParseColor(c.background); err != nil {
			return nil, model.NewConfigurationError("background", err.Error())
		}
	}

	c.scheduler = scheduler.New(c.loop)
	c.tooltip = tooltip.New(c.overlay, c.requestFlush)

	return c, nil
}

// Loop returns the event loop on which flushes are deferred.
func (c *LineChart) Loop() *scheduler.Loop {
	return c.loop
}

// Scheduler returns the flush scheduler of this chart.
func (c *LineChart) Scheduler() *scheduler.Scheduler {
	return c.scheduler
}

// Config returns the current configuration, with series visibility applied.
func (c *LineChart) Config() model.Chart {
	view := c.config
	view.Lines = make([]model.Series, len(c.config.Lines))
	for i, s := range c.config.Lines {
		s.Hidden = c.hidden[i]
		view.Lines[i] = s
	}

	return view
}

// Geometry returns the geometry computed by the last draw.
func (c *LineChart) Geometry() (layout.Geometry, bool) {
	return c.geometry, c.drawn
}

// Visible reports, for each series, whether it is drawn.
func (c *LineChart) Visible() []bool {
	visible := make([]bool, len(c.hidden))
	for i, hidden := range c.hidden {
		visible[i] = !hidden
	}

	return visible
}

// Replace the configuration wholesale. The new configuration is used by the next draw.
//
// Series visibility is reset to the one declared by the new configuration.
func (c *LineChart) Replace(cfg model.Chart) error {
	if err := c.setConfig(cfg); err != nil {
		return err
	}

	c.drawn = false
	c.tooltip.Reset()

	return nil
}

// Draw recomputes the geometry, then renders the axes and all visible series. The surface flush is deferred.
func (c *LineChart) Draw() {
	view := c.Config()
	s := c.surface

	s.ClearRect(0, 0, view.Width, view.Height)
	if c.background != "" {
		s.BeginPath()
		s.SetGlobalAlpha(1)
		s.SetFillColor(canvas.ParseColorOr(c.background, color.RGBA{}))
		s.Rect(0, 0, view.Width, view.Height)
		s.Fill()
	}

	g := layout.Compute(view, s)
	layout.DrawAxis(s, g, layout.AxisStyle{
		LabelColor: canvas.ParseColorOr(view.LabelColor, color.RGBA{A: 0xff}),
		AxisColor:  canvas.ParseColorOr(view.AxisColor, color.RGBA{A: 0xff}),
	})
	series.Render(s, view.Lines, g)

	c.geometry = g
	c.drawn = true
	// geometry changed: the tooltip must render again on the next pointer move
	c.tooltip.Reset()

	c.requestFlush(s)

	c.l.Info("chart drawn",
		slog.Int("series", len(view.Lines)),
		slog.Int("visible_series", c.countVisible()),
		slog.Float64("y_max", g.YMaxValue),
		slog.Float64("x_step", g.XStep),
		slog.Float64("y_step", g.YStep),
	)
}

// HideLine hides the series at index and redraws. Out of range indices and hidden series are ignored.
func (c *LineChart) HideLine(index int) {
	c.setHidden(index, true)
}

// ShowLine shows the series at index and redraws. Out of range indices and visible series are ignored.
func (c *LineChart) ShowLine(index int) {
	c.setHidden(index, false)
}

// TooltipAt renders the tooltip for the category closest to the horizontal pixel position.
//
// It does nothing when no overlay is configured, or when the category is the one already shown.
func (c *LineChart) TooltipAt(pixelX float64) {
	if c.overlay == nil {
		return
	}

	c.tooltip.PointerMoved(c.Config(), c.currentGeometry(), pixelX)
}

// ClearTooltip clears the overlay. It does nothing when no overlay is configured.
func (c *LineChart) ClearTooltip() {
	if c.overlay == nil {
		return
	}

	c.tooltip.PointerLeft(c.currentGeometry())
}

func (c *LineChart) setConfig(cfg model.Chart) error {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(c.overlay != nil); err != nil {
		return err
	}

	if err := validateColors(cfg); err != nil {
		return err
	}

	c.config = cfg
	c.hidden = make([]bool, len(cfg.Lines))
	for i, s := range cfg.Lines {
		c.hidden[i] = s.Hidden
	}

	return nil
}

func (c *LineChart) setHidden(index int, hidden bool) {
	if index < 0 || index >= len(c.hidden) || c.hidden[index] == hidden {
		return
	}

	c.hidden[index] = hidden
	c.Draw()
}

// currentGeometry returns the geometry of the last draw, or computes it if the chart has not been drawn yet.
func (c *LineChart) currentGeometry() layout.Geometry {
	if c.drawn {
		return c.geometry
	}

	return layout.Compute(c.Config(), c.surface)
}

func (c *LineChart) requestFlush(surface canvas.Canvas) {
	c.scheduler.RequestFlush(surface)
}

func (c *LineChart) countVisible() int {
	var n int
	for _, hidden := range c.hidden {
		if !hidden {
			n++
		}
	}

	return n
}

func validateColors(cfg model.Chart) error {
	if _, err := canvas.ParseColor(cfg.LabelColor); err != nil {
		return model.NewConfigurationError("labelColor", err.Error())
	}

	if _, err := canvas.ParseColor(cfg.AxisColor); err != nil {
		return model.NewConfigurationError("axisColor", err.Error())
	}

	for i, s := range cfg.Lines {
		if s.Color == "" {
			continue
		}

		if _, err := canvas.ParseColor(s.Color); err != nil {
			return model.NewConfigurationError(fmt.Sprintf("lines[%d].color", i), err.Error())
		}
	}

	return nil
}
