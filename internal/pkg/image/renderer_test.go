package image //nolint:revive // it's okay for an internal package to use this name

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	_ "image/png"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fredbi/linechart/internal/pkg/export"
	"github.com/fredbi/linechart/internal/pkg/model"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestMain(m *testing.M) {
	os.Setenv("CHROME_FLAGS", "--no-sandbox")
	os.Exit(m.Run())
}

func TestOptions(t *testing.T) {
	o := optionsWithDefaults(nil)
	assert.Equal(t, defaultWidth, o.Width)
	assert.Equal(t, defaultHeight, o.Height)
	assert.Equal(t, defaultWait, o.SleepDuration)
	assert.Equal(t, defaultTimeout, o.Timeout)

	o = optionsWithDefaults([]Option{
		WithSize(300.2, 150),
		WithSleep(2 * time.Second),
		WithTimeout(time.Minute),
	})
	assert.Equal(t, int64(301), o.Width)
	assert.Equal(t, int64(150), o.Height)
	assert.Equal(t, 2*time.Second, o.SleepDuration)
	assert.Equal(t, time.Minute, o.Timeout)

	o = optionsWithDefaults([]Option{WithSize(-1, 0), WithSleep(0), WithTimeout(-time.Second)})
	assert.Equal(t, optionsWithDefaults(nil), o, "invalid values are ignored")
}

func TestRenderFailingReader(t *testing.T) {
	r := New()
	errExpected := errors.New("read failure")

	err := r.Render(context.Background(), &bytes.Buffer{}, &failingReader{err: errExpected})
	require.ErrorIs(t, err, errExpected)
	assert.Contains(t, err.Error(), "read content")
}

func TestRenderFailingWriter(t *testing.T) {
	skipIfNoBrowser(t)

	r := New(WithSleep(time.Millisecond))
	html := `<html><body><p>hello</p></body></html>`
	errExpected := errors.New("write failure")

	err := r.Render(context.Background(), &failingWriter{err: errExpected}, strings.NewReader(html))
	require.ErrorIs(t, err, errExpected)
	assert.Contains(t, err.Error(), "writing screenshot")
}

func TestRenderCancelled(t *testing.T) {
	skipIfNoBrowser(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Render(ctx, &bytes.Buffer{}, strings.NewReader("<html></html>"))
	require.Error(t, err)
}

func TestRenderExportedChart(t *testing.T) {
	skipIfNoBrowser(t)

	cfg := model.Chart{
		Width:  300,
		Height: 150,
		XAxis:  []string{"a", "b", "c"},
		Lines:  []model.Series{{Name: "latency", Color: "#ff0000", Points: []float64{1, 5, 3}}},
	}.WithDefaults()

	page := export.NewPage("Test")
	page.AddChart(export.NewChart(cfg))

	var html bytes.Buffer
	require.NoError(t, page.Render(&html))

	var dest bytes.Buffer
	r := New(WithSize(cfg.Width, cfg.Height))
	require.NoError(t, r.Render(context.Background(), &dest, &html))

	img, format, err := stdimage.DecodeConfig(&dest)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Positive(t, img.Width)
	assert.Positive(t, img.Height)
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

type failingWriter struct {
	err error
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func skipIfNoBrowser(t *testing.T) {
	t.Helper()
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome/Chromium browser found, skipping integration test")
}
