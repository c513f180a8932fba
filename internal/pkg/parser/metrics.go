package parser

import "golang.org/x/tools/benchmark/parse"

// Metric identifies a benchmark measurement (e.g. "nsPerOp", "allocsPerOp").
type Metric string

// Standard benchmark metrics.
const (
	MetricNsPerOp     Metric = "nsPerOp"
	MetricAllocsPerOp Metric = "allocsPerOp"
	MetricBytesPerOp  Metric = "bytesPerOp"
	MetricMBPerS      Metric = "MBytesPerS"
)

// String returns the metric name as a plain string.
func (m Metric) String() string {
	return string(m)
}

// IsValid reports whether the metric is one of the known benchmark metrics.
func (m Metric) IsValid() bool {
	switch m {
	case MetricNsPerOp, MetricAllocsPerOp, MetricBytesPerOp, MetricMBPerS:
		return true
	default:
		return false
	}
}

// Unit is the unit suffix shown on the value axis for this metric.
func (m Metric) Unit() string {
	switch m {
	case MetricNsPerOp:
		return "ns"
	case MetricAllocsPerOp:
		return " allocs"
	case MetricBytesPerOp:
		return "B"
	case MetricMBPerS:
		return "MB/s"
	default:
		return ""
	}
}

// Value extracts this metric from a benchmark line.
//
// It reports false when the benchmark did not measure it.
func (m Metric) Value(bench *parse.Benchmark) (float64, bool) {
	if bench == nil {
		return 0, false
	}

	switch m {
	case MetricNsPerOp:
		return bench.NsPerOp, bench.Measured&parse.NsPerOp != 0
	case MetricAllocsPerOp:
		return float64(bench.AllocsPerOp), bench.Measured&parse.AllocsPerOp != 0
	case MetricBytesPerOp:
		return float64(bench.AllocedBytesPerOp), bench.Measured&parse.AllocedBytesPerOp != 0
	case MetricMBPerS:
		return bench.MBPerS, bench.Measured&parse.MBPerS != 0
	default:
		return 0, false
	}
}

// AllMetrics returns all known benchmark metrics.
func AllMetrics() []Metric {
	return []Metric{
		MetricNsPerOp,
		MetricAllocsPerOp,
		MetricBytesPerOp,
		MetricMBPerS,
	}
}
