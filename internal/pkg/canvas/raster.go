package canvas

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"github.com/fogleman/gg"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	defaultFontSize = 10
	fontDPI         = 72
)

type measureKey struct {
	size float64
	text string
}

// Raster is a [Canvas] painting on an in-memory RGBA image, using a [gg.Context].
//
// Drawing commands paint on a back buffer. [Raster.Flush] copies the back buffer into the committed frame
// and hands it over to the configured sink, if any.
type Raster struct {
	rasterOptions

	mu       sync.Mutex
	dc       *gg.Context
	fill     color.Color
	stroke   color.Color
	alpha    float64
	fontSize float64
	ttf      *opentype.Font
	faces    map[float64]font.Face
	widths   *lru.Cache
	frame    *image.RGBA
	frames   int
	l        *slog.Logger
}

// NewRaster builds a raster [Canvas] of the given size in pixels.
func NewRaster(width, height int, opts ...RasterOption) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size: %dx%d", width, height)
	}

	o := rasterOptionsWithDefaults(opts)

	widths, err := lru.New(o.measureCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating text measurement cache: %w", err)
	}

	r := &Raster{
		rasterOptions: o,
		dc:            gg.NewContext(width, height),
		fill:          color.Black,
		stroke:        color.Black,
		alpha:         1,
		faces:         make(map[float64]font.Face),
		widths:        widths,
		l:             slog.Default().With(slog.String("module", "canvas")),
	}

	if o.font == FontGoRegular {
		ttf, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded font: %w", err)
		}
		r.ttf = ttf
	}

	r.SetFontSize(defaultFontSize)

	return r, nil
}

// Size of the surface in pixels.
func (r *Raster) Size() (width, height int) {
	return r.dc.Width(), r.dc.Height()
}

// Frame returns the last committed frame, or nil if the surface has never been flushed.
func (r *Raster) Frame() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frame == nil {
		return nil
	}

	return r.frame
}

// Frames returns the number of committed frames.
func (r *Raster) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frames
}

func (r *Raster) SetFontSize(size float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fontSize = size
	r.dc.SetFontFace(r.face(size))
}

func (r *Raster) MeasureText(text string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := measureKey{size: r.fontSize, text: text}
	if w, ok := r.widths.Get(key); ok {
		return w.(float64) //nolint:forcetypeassert // the cache only holds float64 values
	}

	w, _ := r.dc.MeasureString(text)
	r.widths.Add(key, w)

	return w
}

func (r *Raster) ClearRect(x, y, width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dst, ok := r.dc.Image().(draw.Image)
	if !ok {
		return
	}

	rect := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+width)), int(math.Ceil(y+height)),
	)
	draw.Draw(dst, rect, image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) BeginPath() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.ClearPath()
}

func (r *Raster) MoveTo(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.MoveTo(x, y)
}

func (r *Raster) LineTo(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.LineTo(x, y)
}

func (r *Raster) Arc(x, y, radius, startAngle, endAngle float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.DrawArc(x, y, radius, startAngle, endAngle)
}

func (r *Raster) Rect(x, y, width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.DrawRectangle(x, y, width, height)
}

func (r *Raster) ClosePath() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.ClosePath()
}

func (r *Raster) SetFillColor(c color.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fill = c
}

func (r *Raster) SetStrokeColor(c color.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stroke = c
}

func (r *Raster) SetLineWidth(width float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.SetLineWidth(width)
}

func (r *Raster) SetGlobalAlpha(alpha float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alpha = min(max(alpha, 0), 1)
}

func (r *Raster) Fill() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.SetColor(WithAlpha(r.fill, r.alpha))
	r.dc.FillPreserve()
}

func (r *Raster) Stroke() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.SetColor(WithAlpha(r.stroke, r.alpha))
	r.dc.StrokePreserve()
}

func (r *Raster) FillText(text string, x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dc.SetColor(WithAlpha(r.fill, r.alpha))
	r.dc.DrawString(text, x, y)
}

// Flush commits the back buffer as the visible frame, then hands it over to the sink.
func (r *Raster) Flush() error {
	r.mu.Lock()
	src := r.dc.Image()
	bounds := src.Bounds()
	if r.frame == nil {
		r.frame = image.NewRGBA(bounds)
	}
	draw.Draw(r.frame, bounds, src, bounds.Min, draw.Src)
	r.frames++
	frame := r.frame
	sink := r.sink
	r.mu.Unlock()

	if sink == nil {
		return nil
	}

	if err := sink(frame); err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}

	return nil
}

// face returns the font face for the given size. Faces are built once per size.
func (r *Raster) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}

	var f font.Face = basicfont.Face7x13
	if r.ttf != nil {
		face, err := opentype.NewFace(r.ttf, &opentype.FaceOptions{
			Size:    size,
			DPI:     fontDPI,
			Hinting: font.HintingFull,
		})
		if err != nil {
			r.l.Warn("falling back to basic font", slog.Float64("size", size), slog.String("error", err.Error()))
		} else {
			f = face
		}
	}

	r.faces[size] = f

	return f
}

// PNGFile is a sink writing each committed frame to a PNG file.
func PNGFile(file string) func(image.Image) error {
	return func(img image.Image) error {
		return gg.SavePNG(file, img)
	}
}
