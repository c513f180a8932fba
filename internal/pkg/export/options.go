package export

// Theme constants from go-echarts.
const (
	ThemeRoma = "roma"
	ThemeNone = "white"
)

// Option configures an exported [Chart].
type Option func(*options)

type options struct {
	Title      string
	Subtitle   string
	Theme      string
	Background string
	ShowLegend bool
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.Title = title
	}
}

// WithSubtitle sets the chart subtitle (typically environment info).
func WithSubtitle(subtitle string) Option {
	return func(o *options) {
		o.Subtitle = subtitle
	}
}

// WithTheme sets the color theme.
func WithTheme(theme string) Option {
	return func(o *options) {
		o.Theme = theme
	}
}

// WithBackground sets the background color of the chart canvas.
func WithBackground(color string) Option {
	return func(o *options) {
		o.Background = color
	}
}

// WithLegend enables or disables the legend.
func WithLegend(show bool) Option {
	return func(o *options) {
		o.ShowLegend = show
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme:      ThemeNone,
		ShowLegend: true,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
