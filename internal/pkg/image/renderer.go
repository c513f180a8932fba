// Package image takes PNG screenshots of the HTML export of a chart, with a headless Chrome.
package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// Renderer knows how to take a screenshot from a HTML input and write it as PNG.
type Renderer struct {
	options

	l *slog.Logger
}

// New builds an image [Renderer] from HTML.
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "image")),
	}
}

// Render a PNG image as a screenshot from a HTML input [io.Reader].
//
// The browser is stopped when ctx is done, or after the configured timeout.
func (r *Renderer) Render(ctx context.Context, dest io.Writer, source io.Reader) error {
	content, err := io.ReadAll(source)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	screenshot, err := r.screenshot(ctx, content)
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}

	if _, err = dest.Write(screenshot); err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	r.l.Info("screenshot rendered",
		slog.Int64("width", r.Width),
		slog.Int64("height", r.Height),
		slog.Int("bytes", len(screenshot)),
	)

	return nil
}

func (r *Renderer) screenshot(parent context.Context, content []byte) ([]byte, error) {
	ctx, cancelTimeout := context.WithTimeout(parent, r.Timeout)
	defer cancelTimeout()

	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	const qualityPNG = 100 // 100 to force PNG

	// the page is passed as a data URL: base64 keeps '#' colors from being read as a fragment
	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString(content)

	var screenshot []byte
	err := chromedp.Run(ctx,
		chromedp.Emulate(device.Info{
			Height:    r.Height,
			Width:     r.Width,
			Landscape: r.Width > r.Height,
		}),
		chromedp.Navigate(url),
		chromedp.Sleep(r.SleepDuration), // echarts animates the first rendering
		chromedp.FullScreenshot(&screenshot, qualityPNG),
	)
	if err != nil {
		return nil, err
	}

	return screenshot, nil
}
