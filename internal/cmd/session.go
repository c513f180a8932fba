package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fredbi/linechart/internal/pkg/canvas"
	"github.com/fredbi/linechart/internal/pkg/chart"
	"github.com/fredbi/linechart/internal/pkg/config"
	"github.com/fsnotify/fsnotify"
)

// session holds a chart and its surfaces for the lifetime of the command.
//
// After the first render, the chart is only accessed from the turns of its event loop.
type session struct {
	chart     *chart.LineChart
	main      canvas.Canvas
	overlay   canvas.Canvas
	hidden    []int
	tooltipAt float64
	reloads   atomic.Int64
	l         *slog.Logger
}

func (c *Command) newSession(cfg *config.Config) (*session, error) {
	main, overlay, err := c.newSurfaces(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating surfaces: %w", err)
	}

	opts := []chart.Option{
		chart.WithBackground(cfg.Render.Background),
	}
	if overlay != nil {
		opts = append(opts, chart.WithOverlay(overlay))
	}

	lc, err := chart.New(main, cfg.Chart, opts...)
	if err != nil {
		return nil, fmt.Errorf("building chart: %w", err)
	}

	return &session{
		chart:     lc,
		main:      main,
		overlay:   overlay,
		tooltipAt: noTooltip,
		l:         c.L,
	}, nil
}

// render draws the chart, hides the requested series and positions the tooltip.
//
// Surfaces are flushed at the next idle point of the event loop.
func (s *session) render(hidden []int, tooltipAt float64) {
	s.hidden = hidden
	s.tooltipAt = tooltipAt

	s.chart.Draw()

	for _, index := range hidden {
		s.chart.HideLine(index)
	}

	if tooltipAt != noTooltip {
		s.chart.TooltipAt(tooltipAt)
	}
}

// commit runs the pending flushes and reports flush failures.
func (s *session) commit() error {
	before := s.chart.Scheduler().Stats()
	s.chart.Loop().RunPending()
	after := s.chart.Scheduler().Stats()

	if failures := after.Failures - before.Failures; failures > 0 {
		return fmt.Errorf("committing frames: %d flush(es) failed", failures)
	}

	s.l.Info("frames committed", slog.Int("flushes", after.Flushes-before.Flushes))

	return nil
}

func (s *session) encodeTrace(w io.Writer) error {
	main, ok := s.main.(*canvas.Recorder)
	if !ok {
		return errors.New("drawing commands are only recorded with -trace")
	}

	overlay, _ := s.overlay.(*canvas.Recorder)

	return encodeTrace(w, main, overlay)
}

// watch redraws the chart whenever the configuration or benchmark files change, until ctx is done.
//
// File events are posted to the event loop of the chart, which runs on the calling goroutine.
func (c *Command) watch(ctx context.Context, s *session, args []string) error {
	files := c.watchedFiles(args)
	if len(files) == 0 {
		return errors.New("watch mode requires a config file or benchmark files")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// directories are watched, so that files replaced by editors are still tracked
	dirs := make(map[string]struct{}, len(files))
	for file := range files {
		dir := filepath.Dir(file)
		if _, seen := dirs[dir]; seen {
			continue
		}
		dirs[dir] = struct{}{}

		if err = watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %q: %w", dir, err)
		}
	}

	loop := s.chart.Loop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if _, isWatched := files[filepath.Clean(event.Name)]; !isWatched || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}

				c.L.Debug("file changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))
				loop.Post(func() {
					c.reload(s, args)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				c.L.Warn("file watcher error", slog.String("error", err.Error()))
			}
		}
	}()

	c.L.Info("watching files for changes", slog.Int("files", len(files)))

	if err = loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}

// reload replaces the chart configuration and redraws. Invalid configurations are skipped.
func (c *Command) reload(s *session, args []string) {
	cfg, err := c.loadConfig(args)
	if err != nil {
		c.L.Warn("configuration not reloaded", slog.String("error", err.Error()))

		return
	}

	if err = s.chart.Replace(cfg.Chart); err != nil {
		c.L.Warn("configuration not reloaded", slog.String("error", err.Error()))

		return
	}

	s.render(s.hidden, s.tooltipAt)
	s.reloads.Add(1)

	c.L.Info("configuration reloaded")
}

func (c *Command) watchedFiles(args []string) map[string]struct{} {
	files := make(map[string]struct{}, len(args)+1)

	if c.Config != "" {
		files[filepath.Clean(c.Config)] = struct{}{}
	}

	if !c.Bench {
		return files
	}

	for _, arg := range args {
		if arg == "-" {
			continue
		}

		files[filepath.Clean(arg)] = struct{}{}
	}

	return files
}
