package export

import (
	"bytes"
	"math"
	"testing"

	"github.com/fredbi/linechart/internal/pkg/model"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestBuild(t *testing.T) {
	cfg := testChart()
	c := NewChart(cfg, WithTitle("Timings"), WithSubtitle("linux/amd64"))

	line := c.Build()
	require.NotNil(t, line)

	require.Len(t, line.MultiSeries, 2)
	assert.Equal(t, "fast", line.MultiSeries[0].Name)
	assert.Equal(t, "Series 2", line.MultiSeries[1].Name, "unnamed series get a positional name")

	assert.Equal(t, map[string]bool{"fast": true, "Series 2": false}, line.Legend.Selected,
		"hidden series are deselected")
}

func TestLineData(t *testing.T) {
	cfg := testChart()

	data := lineData(cfg, cfg.Lines[1])
	require.Len(t, data, len(cfg.XAxis), "one data item per category")

	assert.Equal(t, echartsopts.LineData{Name: "2ms", Value: 2.0}, data[0])
	assert.Equal(t, absentValue, data[1].Value, "NaN is a gap")
	assert.Equal(t, absentValue, data[2].Value, "short series leave gaps")
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"1KB", "2KB", "4KB"}, categories(testChart()))
}

func TestRenderPage(t *testing.T) {
	page := NewPage("Benchmarks")
	page.AddChart(NewChart(testChart(), WithTitle("Timings")))

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Benchmarks")
	assert.Contains(t, html, "fast")
}

func TestRenderEmptyPage(t *testing.T) {
	page := NewPage("Empty")

	assert.Zero(t, page.Len())

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	assert.NotZero(t, buf.Len())
}

func TestRenderCenteredPage(t *testing.T) {
	page := NewPage("Centered", WithCenteredLayout())
	page.AddChart(NewChart(testChart()))
	page.AddChart(NewChart(testChart(), WithTitle("Again")))
	assert.Equal(t, 2, page.Len())

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	assert.Contains(t, buf.String(), "Again")
}

func testChart() model.Chart {
	return model.Chart{
		XAxis: []string{"1", "2", "4"},
		XUnit: "KB",
		YUnit: "ms",
		Lines: []model.Series{
			{Name: "fast", Color: "#ff0000", Points: []float64{1, 2, 3}},
			{Color: "blue", Hidden: true, Points: []float64{2, math.NaN()}},
		},
	}.WithDefaults()
}
