package image //nolint:revive // it's okay for an internal package to use this name

import (
	"math"
	"time"
)

// Option to tune image rendering.
type Option func(*options)

type options struct {
	Height        int64
	Width         int64
	SleepDuration time.Duration
	Timeout       time.Duration
}

const (
	defaultHeight  int64 = 200
	defaultWidth   int64 = 320
	defaultWait          = time.Second
	defaultTimeout       = 30 * time.Second
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Height:        defaultHeight,
		Width:         defaultWidth,
		SleepDuration: defaultWait,
		Timeout:       defaultTimeout,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithSize sets the viewport of the screenshot, usually the size of the chart.
//
// Fractional sizes are rounded up. Non-positive sizes are ignored.
func WithSize(width, height float64) Option {
	return func(o *options) {
		if width > 0 {
			o.Width = int64(math.Ceil(width))
		}

		if height > 0 {
			o.Height = int64(math.Ceil(height))
		}
	}
}

// WithSleep sets the time to wait for the chrome headless engine to render the HTML page.
//
// Defaults to 1s.
func WithSleep(sleep time.Duration) Option {
	return func(o *options) {
		if sleep <= 0 {
			return
		}

		o.SleepDuration = sleep
	}
}

// WithTimeout bounds the time spent driving the browser.
//
// Defaults to 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout <= 0 {
			return
		}

		o.Timeout = timeout
	}
}
