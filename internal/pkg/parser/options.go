package parser //nolint:revive // it's okay for an internal package to use this name

import (
	"io"
	"os"
)

// Option configures a [BenchmarkParser].
type Option func(*options)

type options struct {
	isJSON bool
	stdin  io.Reader
}

// WithParseJSON reads the output of "go test -json" instead of the default text format.
func WithParseJSON(enabled bool) Option {
	return func(o *options) {
		o.isJSON = enabled
	}
}

// WithStdin sets the reader used for the file name "-". Defaults to [os.Stdin].
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		if r == nil {
			return
		}

		o.stdin = r
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		stdin: os.Stdin,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
