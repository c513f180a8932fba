// Package export renders a line chart configuration as an interactive HTML page, using go-echarts.
package export

import (
	"fmt"
	"math"

	"github.com/fredbi/linechart/internal/pkg/layout"
	"github.com/fredbi/linechart/internal/pkg/model"
	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"
)

const (
	areaOpacity = 0.2
	markerSize  = 4
	absentValue = "-" // echarts convention for a missing data point
)

// Chart is the HTML rendition of a [model.Chart].
type Chart struct {
	options

	config model.Chart
}

// NewChart creates an exportable chart. The configuration is expected to carry its defaults.
func NewChart(cfg model.Chart, opts ...Option) *Chart {
	return &Chart{
		options: optionsWithDefaults(opts),
		config:  cfg,
	}
}

// Build creates the echarts line chart.
//
// Hidden series are exported but deselected in the legend, so they may be toggled back on from the page.
func (c *Chart) Build() *charts.Line {
	cfg := c.config
	line := charts.NewLine()

	titleOpts := echartsopts.Title{
		Title: c.Title,
	}
	if c.Subtitle != "" {
		titleOpts.Subtitle = c.Subtitle
		titleOpts.SubtitleStyle = &echartsopts.TextStyle{
			FontStyle: "italic",
			FontSize:  int(cfg.FontSize),
		}
	}

	selected := make(map[string]bool, len(cfg.Lines))
	for i, s := range cfg.Lines {
		selected[seriesName(i, s)] = !s.Hidden
	}

	legendOpts := echartsopts.Legend{
		Show:     echartsopts.Bool(c.ShowLegend),
		Selected: selected,
	}
	if c.ShowLegend {
		legendOpts.X = "right"
		legendOpts.Y = "bottom"
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(echartsopts.Initialization{
			Theme:           c.Theme,
			Width:           fmt.Sprintf("%.0fpx", cfg.Width),
			Height:          fmt.Sprintf("%.0fpx", cfg.Height),
			BackgroundColor: c.Background,
		}),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(legendOpts),
		charts.WithXAxisOpts(echartsopts.XAxis{
			Type:      "category",
			AxisLabel: &echartsopts.AxisLabel{Color: cfg.LabelColor},
			AxisLine: &echartsopts.AxisLine{
				LineStyle: &echartsopts.LineStyle{Color: cfg.AxisColor},
			},
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Type: "value",
			Max:  cfg.MaxValue() * 1.2,
			AxisLabel: &echartsopts.AxisLabel{
				Color:     cfg.LabelColor,
				Formatter: echartsopts.FuncOpts(fmt.Sprintf("function (value) { return value + %q; }", cfg.YUnit)),
			},
			SplitLine: &echartsopts.SplitLine{
				Show:      echartsopts.Bool(true),
				LineStyle: &echartsopts.LineStyle{Color: cfg.AxisColor},
			},
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
			AxisPointer: &echartsopts.AxisPointer{
				Type: "line",
			},
		}),
	)

	line.SetXAxis(categories(cfg))

	for i, s := range cfg.Lines {
		line.AddSeries(seriesName(i, s), lineData(cfg, s),
			charts.WithLineChartOpts(echartsopts.LineChart{
				Symbol:     "circle",
				SymbolSize: markerSize,
				ShowSymbol: echartsopts.Bool(true),
			}),
			charts.WithAreaStyleOpts(echartsopts.AreaStyle{
				Color:   s.Color,
				Opacity: echartsopts.Float(areaOpacity),
			}),
			charts.WithLineStyleOpts(echartsopts.LineStyle{
				Color: s.Color,
				Width: 1,
			}),
			charts.WithItemStyleOpts(echartsopts.ItemStyle{
				Color: s.Color,
			}),
		)
	}

	return line
}

func categories(cfg model.Chart) []string {
	labels := make([]string, len(cfg.XAxis))
	for i, label := range cfg.XAxis {
		labels[i] = label + cfg.XUnit
	}

	return labels
}

// lineData projects series values on the categories. Absent values are exported as gaps.
func lineData(cfg model.Chart, s model.Series) []echartsopts.LineData {
	data := make([]echartsopts.LineData, 0, len(cfg.XAxis))
	for i := range cfg.XAxis {
		v, ok := s.Value(i)
		if !ok || math.IsInf(v, 0) {
			data = append(data, echartsopts.LineData{Value: absentValue})

			continue
		}

		data = append(data, echartsopts.LineData{
			Name:  layout.FormatValue(v) + cfg.YUnit,
			Value: v,
		})
	}

	return data
}

func seriesName(index int, s model.Series) string {
	if s.Name != "" {
		return s.Name
	}

	return fmt.Sprintf("Series %d", index+1)
}
