package chart

import (
	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/scheduler"
)

// Option configures a [LineChart].
type Option func(*options)

type options struct {
	overlay    canvas.Canvas
	loop       *scheduler.Loop
	background string
}

// WithOverlay sets the secondary surface used to render tooltips.
//
// When an overlay is set, the chart requires at least one series.
func WithOverlay(overlay canvas.Canvas) Option {
	return func(o *options) {
		o.overlay = overlay
	}
}

// WithLoop sets the event loop on which surface flushes are deferred.
//
// By default, each chart owns its own [scheduler.Loop], available from [LineChart.Loop].
func WithLoop(loop *scheduler.Loop) Option {
	return func(o *options) {
		if loop == nil {
			return
		}

		o.loop = loop
	}
}

// WithBackground sets a color painted on the main surface before each draw.
//
// By default, the surface is left transparent.
func WithBackground(color string) Option {
	return func(o *options) {
		o.background = color
	}
}

func optionsWithDefaults(opts []Option) options {
	var o options

	for _, apply := range opts {
		apply(&o)
	}

	if o.loop == nil {
		o.loop = scheduler.NewLoop()
	}

	return o
}
