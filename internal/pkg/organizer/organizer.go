// Package organizer rearranges parsed benchmark sets into line chart data.
//
// Each input set (one benchmark run) becomes a category of the x-axis, and each benchmark
// becomes a series, so that a chart shows how benchmarks evolve across runs.
package organizer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fredbi/linechart/internal/pkg/model"
	"github.com/fredbi/linechart/internal/pkg/parser"
)

// ErrNoBenchmark is returned when the parsed input holds no usable benchmark.
var ErrNoBenchmark = errors.New("no benchmark data")

// Organizer turns parsed benchmark sets into a [model.Chart].
type Organizer struct {
	options

	l *slog.Logger
}

// New builds an [Organizer] ready to reshuffle parsed benchmark data.
func New(opts ...Option) *Organizer {
	return &Organizer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "organizer")),
	}
}

// Organize builds the chart data from parsed sets.
//
// The x-axis holds one category per set, named after its input file. There is one series per
// benchmark name (without the GOMAXPROCS suffix), sorted by name. A point is the mean of the metric
// over the runs of that benchmark in the set: it is absent (NaN) if the benchmark is missing from the set.
//
// Only data fields are set on the returned chart: dimensions and styling are left to the caller.
func (o *Organizer) Organize(sets []parser.Set) (model.Chart, error) {
	if len(sets) == 0 {
		return model.Chart{}, fmt.Errorf("organizing benchmarks: empty input: %w", ErrNoBenchmark)
	}

	chart := model.Chart{
		XAxis: categories(sets),
		YUnit: o.metric.Unit(),
	}

	for _, name := range seriesNames(sets) {
		points := make([]float64, len(sets))
		var defined int

		for i, set := range sets {
			points[i] = o.mean(set, name)
			if !math.IsNaN(points[i]) {
				defined++
			}
		}

		if defined == 0 {
			o.l.Warn("benchmark not ingested: metric never measured",
				slog.String("benchmark_name", name),
				slog.String("metric", o.metric.String()),
			)

			if o.isStrict {
				return model.Chart{}, fmt.Errorf("strict requirement not met for benchmark %q: no %s measurement: %w", name, o.metric, ErrNoBenchmark)
			}

			continue
		}

		chart.Lines = append(chart.Lines, model.Series{
			Name:   name,
			Points: points,
		})
	}

	if len(chart.Lines) == 0 {
		o.l.Warn("benchmark set is empty")

		if o.isStrict {
			return model.Chart{}, fmt.Errorf("strict requirement not met: empty benchmark set: %w", ErrNoBenchmark)
		}
	}

	o.l.Info("benchmarks organized",
		slog.Int("categories", len(chart.XAxis)),
		slog.Int("series", len(chart.Lines)),
		slog.String("metric", o.metric.String()),
	)

	return chart, nil
}

// Environment returns the first known environment found in the sets.
func Environment(sets []parser.Set) string {
	for _, set := range sets {
		if env := set.Environment; env != "" && env != "unknown environment" {
			return env
		}
	}

	return ""
}

// mean of the metric over all runs of the series name in the set, NaN when there is none.
func (o *Organizer) mean(set parser.Set, name string) float64 {
	var (
		sum   float64
		count int
	)

	for benchName, runs := range set.Set {
		if SeriesName(benchName) != name {
			continue
		}

		for _, run := range runs {
			v, ok := o.metric.Value(run)
			if !ok {
				continue
			}

			sum += v
			count++
		}
	}

	if count == 0 {
		return math.NaN()
	}

	return sum / float64(count)
}

// SeriesName converts a benchmark name into a series name.
//
// It strips the "Benchmark" prefix and the GOMAXPROCS suffix (e.g. "-16").
func SeriesName(benchmark string) string {
	name := strings.TrimPrefix(benchmark, "Benchmark")
	name = strings.TrimPrefix(name, "_")

	if idx := strings.LastIndex(name, "-"); idx > 0 {
		if _, err := strconv.ParseUint(name[idx+1:], 10, 64); err == nil {
			name = name[:idx]
		}
	}

	return name
}

func seriesNames(sets []parser.Set) []string {
	var names []string
	for _, set := range sets {
		for benchName := range set.Set {
			names = append(names, SeriesName(benchName))
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// categories names each set after its input file, without directory nor extension.
//
// Duplicate names are disambiguated with a counter.
func categories(sets []parser.Set) []string {
	labels := make([]string, 0, len(sets))
	seen := make(map[string]int, len(sets))

	for i, set := range sets {
		label := strings.TrimSuffix(filepath.Base(set.File), filepath.Ext(set.File))
		if set.File == "" || set.File == "-" {
			label = "run " + strconv.Itoa(i+1)
		}

		seen[label]++
		if n := seen[label]; n > 1 {
			label += " (" + strconv.Itoa(n) + ")"
		}

		labels = append(labels, label)
	}

	return labels
}
