// Package config loads the YAML configuration of a line chart.
package config

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/model"
	"github.com/fredbi/linechart/internal/pkg/parser"
	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default_config.yaml
var efs embed.FS

// DefaultPalette holds the colors assigned to series that don't declare one.
var DefaultPalette = []string{ //nolint:gochecknoglobals // read-only defaults
	"#5470c6",
	"#91cc75",
	"#fac858",
	"#ee6666",
	"#73c0de",
	"#3ba272",
	"#fc8452",
	"#9a60b4",
}

// Config holds the configuration for linechart.
type Config struct {
	Name    string
	Chart   model.Chart
	Render  Rendering
	Outputs Output `mapstructure:"-"`
}

// Rendering holds the settings of the rendering surfaces.
type Rendering struct {
	Title      string
	Tooltip    bool
	Font       canvas.Font
	Background string
	Palette    []string
	Metric     parser.Metric
	Screenshot Screenshot
}

// Screenshot configures the headless Chrome screenshot of the HTML export.
type Screenshot struct {
	Sleep string
}

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// Output holds the resolved output file paths.
type Output struct {
	PngFile     string
	TooltipFile string
	HTMLFile    string
	IsTemp      bool
}

// Load a configuration file from the local file system, on top of the default configuration.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Join(".", filepath.Base(file))

	return load(fsys, pth, cfg)
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	if err = yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	if err = mapstructure.Decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}

	if err = cfg.validateRender(); err != nil {
		return nil, err
	}

	cfg.resolveSeries()

	return cfg, nil
}

// SetData replaces the data of the chart (axis, series and units), keeping its dimensions and styling.
//
// Series names and colors are resolved like for series loaded from a file.
func (c *Config) SetData(data model.Chart) {
	c.Chart.XAxis = data.XAxis
	c.Chart.Lines = data.Lines
	if data.XUnit != "" {
		c.Chart.XUnit = data.XUnit
	}
	if data.YUnit != "" {
		c.Chart.YUnit = data.YUnit
	}

	c.resolveSeries()
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (Outputs) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

func (c *Config) validateRender() error {
	switch c.Render.Font {
	case "":
		c.Render.Font = canvas.FontGoRegular
	case canvas.FontGoRegular, canvas.FontBasic:
	default:
		return model.NewConfigurationError("render.font", fmt.Sprintf("unsupported font %q (should be one of %q, %q)", c.Render.Font, canvas.FontGoRegular, canvas.FontBasic))
	}

	if c.Render.Metric != "" && !c.Render.Metric.IsValid() {
		return model.NewConfigurationError("render.metric", fmt.Sprintf("invalid metric %q (should be one of %v)", c.Render.Metric, parser.AllMetrics()))
	}

	if c.Render.Background != "" {
		if _, err := canvas.ParseColor(c.Render.Background); err != nil {
			return model.NewConfigurationError("render.background", err.Error())
		}
	}

	for i, value := range c.Render.Palette {
		if _, err := canvas.ParseColor(value); err != nil {
			return model.NewConfigurationError(fmt.Sprintf("render.palette[%d]", i), err.Error())
		}
	}

	return nil
}

// resolveSeries gives a name and a color to every series.
func (c *Config) resolveSeries() {
	palette := c.Render.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	for i, s := range c.Chart.Lines {
		if s.Name == "" {
			s.Name = fmt.Sprintf("Series %d", i+1)
		} else {
			s.Name = titleize(s.Name)
		}

		if s.Color == "" {
			s.Color = palette[i%len(palette)]
		}

		c.Chart.Lines[i] = s
	}
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the case is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}
