package chart

import (
	"testing"

	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/model"
	"github.com/fredbi/linechart/internal/pkg/scheduler"
	"github.com/fredbi/linechart/internal/pkg/series"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestDrawScenario(t *testing.T) {
	surface := canvas.NewRecorder()
	c, err := New(surface, scenarioChart())
	require.NoError(t, err)

	_, drawn := c.Geometry()
	assert.False(t, drawn)

	require.NotPanics(t, c.Draw)

	g, drawn := c.Geometry()
	require.True(t, drawn)
	assert.InDelta(t, 5.0, g.YMaxValue, 1e-9)
	assert.Positive(t, g.YStep)
	assert.InDelta(t, (300-10-g.YLabelMaxWidth)/2, g.XStep, 1e-9)
	assert.Len(t, series.Project(c.Config().Lines[0], g), 3)

	ops := surface.Ops()
	require.NotEmpty(t, ops)
	assert.Equal(t, canvas.OpClearRect, ops[0].Name)
	assert.Equal(t, []float64{0, 0, 300, 150}, ops[0].Args)

	assert.Zero(t, surface.Flushes(), "flush is deferred to the idle point")
	c.Loop().RunPending()
	assert.Equal(t, 1, surface.Flushes())
}

func TestNewConfigurationErrors(t *testing.T) {
	t.Run("with empty x-axis", func(t *testing.T) {
		cfg := scenarioChart()
		cfg.XAxis = nil

		_, err := New(canvas.NewRecorder(), cfg)
		require.ErrorIs(t, err, model.ErrConfiguration)

		var cerr *model.ConfigurationError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "xAxis", cerr.Field)
	})

	t.Run("with invalid series color", func(t *testing.T) {
		cfg := scenarioChart()
		cfg.Lines[0].Color = "not-a-color"

		_, err := New(canvas.NewRecorder(), cfg)
		var cerr *model.ConfigurationError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "lines[0].color", cerr.Field)
	})

	t.Run("with invalid background", func(t *testing.T) {
		_, err := New(canvas.NewRecorder(), scenarioChart(), WithBackground("#12"))
		require.ErrorIs(t, err, model.ErrConfiguration)
	})

	t.Run("without surface", func(t *testing.T) {
		_, err := New(nil, scenarioChart())
		require.ErrorIs(t, err, model.ErrConfiguration)
	})

	t.Run("without series", func(t *testing.T) {
		cfg := scenarioChart()
		cfg.Lines = nil

		c, err := New(canvas.NewRecorder(), cfg)
		require.NoError(t, err, "a chart without series draws its axes only")
		require.NotPanics(t, c.Draw)

		_, err = New(canvas.NewRecorder(), cfg, WithOverlay(canvas.NewRecorder()))
		require.ErrorIs(t, err, model.ErrConfiguration, "tooltips need at least one series")
	})
}

func TestNewDoesNotAlias(t *testing.T) {
	cfg := scenarioChart()
	c, err := New(canvas.NewRecorder(), cfg)
	require.NoError(t, err)

	cfg.Lines[0].Points[1] = 100
	cfg.XAxis[0] = "z"

	assert.Equal(t, []float64{1, 5, 3}, c.Config().Lines[0].Points)
	assert.Equal(t, "a", c.Config().XAxis[0])
}

func TestHideShowLine(t *testing.T) {
	cfg := scenarioChart()
	cfg.Lines = append(cfg.Lines, model.Series{Points: []float64{8, 2, 1}, Color: "blue"})
	surface := canvas.NewRecorder()

	c, err := New(surface, cfg)
	require.NoError(t, err)
	c.Draw()
	assert.Equal(t, []bool{true, true}, c.Visible())

	t.Run("hiding redraws", func(t *testing.T) {
		surface.Reset()
		c.HideLine(1)

		assert.Equal(t, []bool{true, false}, c.Visible())
		assert.NotEmpty(t, surface.Ops())
		assert.Equal(t, 1, surface.Count(canvas.OpClearRect))

		g, _ := c.Geometry()
		assert.InDelta(t, 8.0, g.YMaxValue, 1e-9, "hidden series still contribute to the scale")
	})

	t.Run("hiding twice is a no-op", func(t *testing.T) {
		surface.Reset()
		c.HideLine(1)

		assert.Empty(t, surface.Ops())
		assert.Equal(t, []bool{true, false}, c.Visible())
	})

	t.Run("out of range indices are ignored", func(t *testing.T) {
		surface.Reset()
		require.NotPanics(t, func() {
			c.HideLine(-1)
			c.HideLine(2)
			c.ShowLine(42)
		})

		assert.Empty(t, surface.Ops())
	})

	t.Run("showing a visible line is a no-op", func(t *testing.T) {
		surface.Reset()
		c.ShowLine(0)

		assert.Empty(t, surface.Ops())
	})

	t.Run("showing redraws", func(t *testing.T) {
		surface.Reset()
		c.ShowLine(1)

		assert.Equal(t, []bool{true, true}, c.Visible())
		assert.NotEmpty(t, surface.Ops())
	})
}

func TestDrawCoalescesFlushes(t *testing.T) {
	cfg := scenarioChart()
	cfg.Lines = append(cfg.Lines, model.Series{Points: []float64{2, 2}})
	surface := canvas.NewRecorder()

	c, err := New(surface, cfg)
	require.NoError(t, err)

	c.Draw()
	c.Draw()
	c.HideLine(1)
	c.ShowLine(1)
	c.Draw()

	c.Loop().RunPending()
	assert.Equal(t, 1, surface.Flushes(), "several draws in one turn yield a single flush")
	assert.Equal(t, 1, c.Scheduler().Stats().Flushes)
	assert.Equal(t, 5, c.Scheduler().Stats().Requests)
}

func TestSharedLoop(t *testing.T) {
	loop := scheduler.NewLoop()
	first, second := canvas.NewRecorder(), canvas.NewRecorder()

	c1, err := New(first, scenarioChart(), WithLoop(loop))
	require.NoError(t, err)
	c2, err := New(second, scenarioChart(), WithLoop(loop))
	require.NoError(t, err)
	assert.Same(t, loop, c1.Loop())

	c1.Draw()
	c2.Draw()

	assert.Equal(t, 2, loop.RunPending())
	assert.Equal(t, 1, first.Flushes())
	assert.Equal(t, 1, second.Flushes())
}

func TestBackground(t *testing.T) {
	surface := canvas.NewRecorder()
	c, err := New(surface, scenarioChart(), WithBackground("white"))
	require.NoError(t, err)

	c.Draw()

	ops := surface.Ops()
	require.Greater(t, len(ops), 5)
	assert.Equal(t, canvas.OpClearRect, ops[0].Name)

	var rect canvas.Op
	for _, op := range ops {
		if op.Name == canvas.OpRect {
			rect = op

			break
		}
	}
	assert.Equal(t, []float64{0, 0, 300, 150}, rect.Args, "the background covers the whole surface")
}

func TestTooltip(t *testing.T) {
	surface, overlay := canvas.NewRecorder(), canvas.NewRecorder()
	c, err := New(surface, scenarioChart(), WithOverlay(overlay))
	require.NoError(t, err)

	t.Run("before the first draw", func(t *testing.T) {
		c.TooltipAt(200)
		assert.NotEmpty(t, overlay.Ops())
		assert.Zero(t, surface.Count(canvas.OpStroke), "the main surface is not drawn")
	})

	c.Draw()
	g, _ := c.Geometry()

	t.Run("a draw invalidates the last rendered index", func(t *testing.T) {
		overlay.Reset()
		c.TooltipAt(200)
		assert.NotEmpty(t, overlay.Ops())
	})

	t.Run("same category is not redrawn", func(t *testing.T) {
		overlay.Reset()
		c.TooltipAt(200 + g.XStep/10)
		assert.Empty(t, overlay.Ops())
	})

	t.Run("clear", func(t *testing.T) {
		overlay.Reset()
		c.ClearTooltip()

		ops := overlay.Ops()
		require.Len(t, ops, 1)
		assert.Equal(t, canvas.OpClearRect, ops[0].Name)
	})

	t.Run("overlay flushes are deferred and coalesced", func(t *testing.T) {
		overlay.Reset()
		c.TooltipAt(g.X(0))
		c.TooltipAt(g.X(1))
		c.TooltipAt(g.X(2))

		before := overlay.Flushes()
		c.Loop().RunPending()
		assert.Equal(t, before+1, overlay.Flushes())
	})
}

func TestTooltipWithoutOverlay(t *testing.T) {
	surface := canvas.NewRecorder()
	c, err := New(surface, scenarioChart())
	require.NoError(t, err)

	require.NotPanics(t, func() {
		c.TooltipAt(100)
		c.ClearTooltip()
	})
	assert.Empty(t, surface.Ops())
	assert.Zero(t, c.Loop().Pending())
}

func TestReplace(t *testing.T) {
	surface := canvas.NewRecorder()
	c, err := New(surface, scenarioChart())
	require.NoError(t, err)
	c.Draw()
	c.HideLine(0)

	next := scenarioChart()
	next.XAxis = []string{"x", "y"}
	next.Lines[0].Points = []float64{10, 20}
	require.NoError(t, c.Replace(next))

	_, drawn := c.Geometry()
	assert.False(t, drawn)
	assert.Equal(t, []bool{true}, c.Visible(), "visibility follows the new configuration")

	c.Draw()
	g, _ := c.Geometry()
	assert.Equal(t, 2, g.Categories)
	assert.InDelta(t, 20.0, g.YMaxValue, 1e-9)

	t.Run("an invalid configuration is rejected and the previous one kept", func(t *testing.T) {
		bad := scenarioChart()
		bad.XAxis = nil

		require.ErrorIs(t, c.Replace(bad), model.ErrConfiguration)
		assert.Equal(t, []string{"x", "y"}, c.Config().XAxis)
	})
}

func scenarioChart() model.Chart {
	return model.Chart{
		XAxis:    []string{"a", "b", "c"},
		Lines:    []model.Series{{Points: []float64{1, 5, 3}, Color: "red"}},
		Width:    300,
		Height:   150,
		Margin:   10,
		FontSize: 10,
	}
}
