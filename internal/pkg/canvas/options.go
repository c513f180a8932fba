package canvas

import "image"

// Font selects the typeface used by a [Raster] canvas.
type Font string

// Supported fonts.
const (
	FontGoRegular Font = "goregular"
	FontBasic     Font = "basic"
)

const defaultMeasureCacheSize = 512

// RasterOption configures a [Raster] canvas.
type RasterOption func(*rasterOptions)

type rasterOptions struct {
	font             Font
	measureCacheSize int
	sink             func(image.Image) error
}

// WithFont sets the typeface.
//
// Defaults to [FontGoRegular]. [FontBasic] renders a fixed 7x13 bitmap font, regardless of the font size.
func WithFont(f Font) RasterOption {
	return func(o *rasterOptions) {
		switch f {
		case FontGoRegular, FontBasic:
			o.font = f
		}
	}
}

// WithSink sets a function called with the committed frame on every flush.
func WithSink(sink func(image.Image) error) RasterOption {
	return func(o *rasterOptions) {
		o.sink = sink
	}
}

// WithMeasureCacheSize sets the number of text measurements kept in cache.
//
// Defaults to 512.
func WithMeasureCacheSize(size int) RasterOption {
	return func(o *rasterOptions) {
		if size <= 0 {
			return
		}

		o.measureCacheSize = size
	}
}

func rasterOptionsWithDefaults(opts []RasterOption) rasterOptions {
	o := rasterOptions{
		font:             FontGoRegular,
		measureCacheSize: defaultMeasureCacheSize,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
