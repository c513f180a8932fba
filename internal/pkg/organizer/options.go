package organizer

import "github.com/fredbi/linechart/internal/pkg/parser"

// Option configures an [Organizer].
type Option func(*options)

type options struct {
	metric   parser.Metric
	isStrict bool
}

// WithMetric selects the benchmark metric plotted on the value axis.
//
// The default is [parser.MetricNsPerOp].
func WithMetric(metric parser.Metric) Option {
	return func(o *options) {
		if metric == "" {
			return
		}

		o.metric = metric
	}
}

// WithStrict turns ingestion warnings into errors.
func WithStrict(enabled bool) Option {
	return func(o *options) {
		o.isStrict = enabled
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		metric: parser.MetricNsPerOp,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
