// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path"
	"strconv"
	"strings"

	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/config"
	"github.com/fredbi/linechart/internal/pkg/export"
	"github.com/fredbi/linechart/internal/pkg/image"
	"github.com/fredbi/linechart/internal/pkg/organizer"
	"github.com/fredbi/linechart/internal/pkg/parser"
)

const noTooltip = -1

// Command holds command line flags and executes the linechart command.
//
// It knows how to load a configuration file in a [config.Config] and manage CLI flag configuration overrides.
//
// The main purpose of this package is to deal with io's: opening and closing files, watching files and
// driving the event loop of the chart.
type Command struct {
	Config      string
	OutputFile  string
	HTMLFile    string
	TooltipAt   float64
	Hide        string
	PngFromHTML bool
	Bench       bool
	IsJSON      bool
	Strict      bool
	Trace       bool
	Watch       bool
	DumpConfig  bool
	L           *slog.Logger

	out io.Writer
}

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	// inject a structured logger
	cli := &Command{
		L: slog.Default().With(slog.String("module", "main")),
	}

	cli.registerFlags()

	return cli
}

// Parse command line flags and arguments.
func (*Command) Parse() error {
	return flag.CommandLine.Parse(os.Args[1:])
}

// Fatalf logs an error message then exits. The output is spewed on both stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Execute the CLI with flags and extra arguments.
//
// If no argument is passed, command line arguments (i.e. [os.Args]) are used.
// Arguments are benchmark files, used with the -bench flag.
//
// In watch mode, Execute returns when interrupted.
func (c *Command) Execute(args ...string) error {
	if args == nil { // passing explicit args allows for testing Execute without altering [os.Args]
		args = c.args()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.run(ctx, args)
}

func (c *Command) run(ctx context.Context, args []string) error {
	if c.Bench && len(args) == 0 { // no file is provided: assume stdin
		args = append(args, "-")
	}

	cfg, cleanup, err := c.prepareConfig(args)
	if err != nil {
		return err
	}
	defer cleanup()

	if c.DumpConfig {
		return cfg.EncodeYAML(c.stdout())
	}

	// 1. draw the chart on its surfaces and commit the frames
	s, err := c.newSession(cfg)
	if err != nil {
		return err
	}

	hidden, err := parseIndices(c.Hide)
	if err != nil {
		return err
	}

	s.render(hidden, c.TooltipAt)

	if err = s.commit(); err != nil {
		return err
	}

	if c.Trace {
		if err = s.encodeTrace(c.stdout()); err != nil {
			return fmt.Errorf("encoding trace: %w", err)
		}
	}

	// 2. export the chart as an interactive HTML page, then possibly as a screenshot
	if err = c.export(ctx, cfg, s); err != nil {
		return err
	}

	if !c.Watch {
		return nil
	}

	// 3. redraw when watched files change
	return c.watch(ctx, s, args)
}

func (*Command) args() []string {
	return flag.CommandLine.Args()
}

func (c *Command) stdout() io.Writer {
	if c.out == nil {
		return os.Stdout
	}

	return c.out
}

func (c *Command) registerFlags() {
	defaults := Command{
		Config:     "",
		OutputFile: "linechart.png",
		TooltipAt:  noTooltip,
	}

	flag.StringVar(&c.Config, "config", defaults.Config, "config file (defaults apply when empty)")
	flag.StringVar(&c.Config, "c", defaults.Config, "config file (shorthand)")
	flag.StringVar(&c.OutputFile, "output", defaults.OutputFile, "PNG output file")
	flag.StringVar(&c.OutputFile, "o", defaults.OutputFile, "PNG output file (shorthand)")
	flag.StringVar(&c.HTMLFile, "html", defaults.HTMLFile, "interactive HTML output file")
	flag.Float64Var(&c.TooltipAt, "tooltip-at", defaults.TooltipAt, "render the tooltip at this horizontal pixel position, on a separate PNG")
	flag.StringVar(&c.Hide, "hide", defaults.Hide, "comma-separated indices of series to hide")
	flag.BoolVar(&c.PngFromHTML, "png-from-html", defaults.PngFromHTML, "take a screenshot of the HTML output with a headless Chrome")
	flag.BoolVar(&c.Bench, "bench", defaults.Bench, "build the chart data from the Go benchmark files passed as arguments")
	flag.BoolVar(&c.IsJSON, "json", defaults.IsJSON, "read benchmarks from JSON (go test -json)")
	flag.BoolVar(&c.Strict, "strict", defaults.Strict, "fail when a benchmark can not be ingested")
	flag.BoolVar(&c.Trace, "trace", defaults.Trace, "print the drawing commands as JSON instead of rendering PNG files")
	flag.BoolVar(&c.Watch, "watch", defaults.Watch, "redraw when the config or benchmark files change, until interrupted")
	flag.BoolVar(&c.DumpConfig, "dump-config", defaults.DumpConfig, "print the resolved configuration as YAML and exit")
}

func (c *Command) prepareConfig(args []string) (cfg *config.Config, cleanup func(), err error) {
	cfg, err = c.loadConfig(args)
	if err != nil {
		return nil, nil, err
	}

	if err = c.setConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("preparing config: %w", err)
	}

	if cfg.Outputs.IsTemp {
		cleanup = func() {
			_ = os.Remove(cfg.Outputs.HTMLFile)
		}

		return cfg, cleanup, nil
	}

	return cfg, func() {}, nil
}

// loadConfig loads the configuration file and, with -bench, the chart data from benchmark files.
func (c *Command) loadConfig(args []string) (cfg *config.Config, err error) {
	if c.Config == "" {
		cfg, err = config.LoadDefaults()
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if !c.Bench {
		return cfg, nil
	}

	p := parser.New(parser.WithParseJSON(c.IsJSON))
	if err = p.ParseFiles(args...); err != nil {
		return nil, fmt.Errorf("parsing files: %w", err)
	}

	o := organizer.New(
		organizer.WithMetric(cfg.Render.Metric),
		organizer.WithStrict(c.Strict),
	)

	data, err := o.Organize(p.Sets())
	if err != nil {
		return nil, fmt.Errorf("organizing benchmarks: %w", err)
	}

	cfg.SetData(data)
	if cfg.Render.Title == "" {
		cfg.Render.Title = organizer.Environment(p.Sets())
	}

	return cfg, nil
}

// apply CLI flags overrides to YAML config.
func (c *Command) setConfig(cfg *config.Config) error {
	if c.OutputFile != "" {
		cfg.Outputs.PngFile = inferImageFile(c.OutputFile)
		cfg.Outputs.TooltipFile = inferSuffixedFile(cfg.Outputs.PngFile, ".tooltip.png")
	}

	if c.HTMLFile != "" {
		cfg.Outputs.HTMLFile = inferHTMLFile(c.HTMLFile)
	}

	if c.TooltipAt != noTooltip && !cfg.Render.Tooltip {
		c.L.Info("tooltips are disabled by the configuration: -tooltip-at is ignored")
	}

	if !c.PngFromHTML || cfg.Outputs.HTMLFile != "" {
		return nil
	}

	c.L.Info("HTML generated as a temporary file to produce PNG")
	tmp, err := os.CreateTemp("", "linechart.*.html")
	if err != nil {
		return err
	}
	cfg.Outputs.HTMLFile = tmp.Name()
	cfg.Outputs.IsTemp = true
	_ = tmp.Close()

	return nil
}

// export renders the HTML page and its screenshot, when requested.
func (c *Command) export(ctx context.Context, cfg *config.Config, s *session) error {
	if cfg.Outputs.HTMLFile == "" {
		return nil
	}

	page := export.NewPage(cfg.Name)
	page.AddChart(export.NewChart(s.chart.Config(),
		export.WithTitle(cfg.Render.Title),
		export.WithBackground(cfg.Render.Background),
	))

	var html bytes.Buffer
	if err := page.Render(&html); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	if err := os.WriteFile(cfg.Outputs.HTMLFile, html.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing HTML file: %q: %w", cfg.Outputs.HTMLFile, err)
	}

	if !c.PngFromHTML {
		return nil
	}

	pngFile := inferSuffixedFile(cfg.Outputs.PngFile, ".echarts.png")
	pngWriter, pngCloser, err := getWriter(pngFile, "PNG")
	if err != nil {
		return err
	}
	defer pngCloser()

	r := image.New(
		image.WithSize(cfg.Chart.Width, cfg.Chart.Height),
		image.WithSleep(cfg.Render.Screenshot.SleepDuration()),
	)

	if err = r.Render(ctx, pngWriter, &html); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

func (c *Command) newSurfaces(cfg *config.Config) (main, overlay canvas.Canvas, err error) {
	withTooltip := cfg.Render.Tooltip && c.TooltipAt != noTooltip

	if c.Trace {
		main = canvas.NewRecorder()
		if withTooltip {
			overlay = canvas.NewRecorder()
		}

		return main, overlay, nil
	}

	size := cfg.Chart.WithDefaults()
	width, height := int(math.Ceil(size.Width)), int(math.Ceil(size.Height))

	main, err = canvas.NewRaster(width, height,
		canvas.WithFont(cfg.Render.Font),
		canvas.WithSink(canvas.PNGFile(cfg.Outputs.PngFile)),
	)
	if err != nil {
		return nil, nil, err
	}

	if withTooltip {
		overlay, err = canvas.NewRaster(width, height,
			canvas.WithFont(cfg.Render.Font),
			canvas.WithSink(canvas.PNGFile(cfg.Outputs.TooltipFile)),
		)
		if err != nil {
			return nil, nil, err
		}
	}

	return main, overlay, nil
}

// parseIndices parses a comma-separated list of series indices.
func parseIndices(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	parts := strings.Split(list, ",")
	indices := make([]int, 0, len(parts))

	for _, part := range parts {
		index, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid series index in %q: %w", list, err)
		}

		indices = append(indices, index)
	}

	return indices, nil
}

func getWriter(file, kind string) (wrt *os.File, cleanup func(), err error) {
	wrt, err = os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = wrt.Close()
	}

	return wrt, cleanup, nil
}

func inferHTMLFile(base string) string {
	return inferSuffixedFile(base, ".html")
}

func inferImageFile(base string) string {
	return inferSuffixedFile(base, ".png")
}

func inferSuffixedFile(base, suffix string) string {
	ext := path.Ext(base)
	file, _ := strings.CutSuffix(base, ext)

	return file + suffix
}

// traceOutput is the JSON document printed by -trace.
type traceOutput struct {
	Main    []canvas.Op `json:"main"`
	Overlay []canvas.Op `json:"overlay,omitempty"`
	Flushes struct {
		Main    int `json:"main"`
		Overlay int `json:"overlay"`
	} `json:"flushes"`
}

func encodeTrace(w io.Writer, main, overlay *canvas.Recorder) error {
	var out traceOutput
	out.Main = main.Ops()
	out.Flushes.Main = main.Flushes()

	if overlay != nil {
		out.Overlay = overlay.Ops()
		out.Flushes.Overlay = overlay.Flushes()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")

	return enc.Encode(out)
}
