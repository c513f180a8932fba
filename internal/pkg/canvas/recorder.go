package canvas

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"sync"
	"unicode/utf8"
)

// Recorded operation names.
const (
	OpClearRect   = "clearRect"
	OpFontSize    = "fontSize"
	OpBeginPath   = "beginPath"
	OpMoveTo      = "moveTo"
	OpLineTo      = "lineTo"
	OpArc         = "arc"
	OpRect        = "rect"
	OpClosePath   = "closePath"
	OpFillColor   = "fillColor"
	OpStrokeColor = "strokeColor"
	OpLineWidth   = "lineWidth"
	OpGlobalAlpha = "globalAlpha"
	OpFill        = "fill"
	OpStroke      = "stroke"
	OpFillText    = "fillText"
	OpFlush       = "flush"
)

// glyphRatio is the advance of a glyph relative to the font size, for recorded text metrics.
const glyphRatio = 0.6

// Op is a single recorded drawing command.
type Op struct {
	Name  string    `json:"op"`
	Args  []float64 `json:"args,omitempty"`
	Text  string    `json:"text,omitempty"`
	Color string    `json:"color,omitempty"`
}

// Recorder is a [Canvas] that records drawing commands instead of painting them.
//
// Text is measured with a fixed advance per rune, proportional to the font size.
//
// A [Recorder] is used to inspect the drawing commands emitted by the chart and to probe flushes.
type Recorder struct {
	mu       sync.Mutex
	ops      []Op
	fontSize float64
	flushes  int
	flushErr error
}

// NewRecorder builds a recording [Canvas].
func NewRecorder() *Recorder {
	return &Recorder{
		fontSize: 10, //nolint:mnd
	}
}

// Ops returns a copy of the commands recorded so far.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)

	return ops
}

// Count the recorded commands with the given name.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, op := range r.ops {
		if op.Name == name {
			n++
		}
	}

	return n
}

// Flushes returns the number of times the surface has been flushed.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.flushes
}

// Reset forgets all recorded commands. The flush count is preserved.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops = r.ops[:0]
}

// FailFlush makes subsequent flushes fail with err. A nil err restores normal flushes.
func (r *Recorder) FailFlush(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushErr = err
}

// EncodeJSON writes the recorded commands as JSON.
func (r *Recorder) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")

	return enc.Encode(r.Ops())
}

func (r *Recorder) SetFontSize(size float64) {
	r.record(Op{Name: OpFontSize, Args: []float64{size}})

	r.mu.Lock()
	r.fontSize = size
	r.mu.Unlock()
}

func (r *Recorder) MeasureText(text string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return float64(utf8.RuneCountInString(text)) * r.fontSize * glyphRatio
}

func (r *Recorder) ClearRect(x, y, width, height float64) {
	r.record(Op{Name: OpClearRect, Args: []float64{x, y, width, height}})
}

func (r *Recorder) BeginPath() {
	r.record(Op{Name: OpBeginPath})
}

func (r *Recorder) MoveTo(x, y float64) {
	r.record(Op{Name: OpMoveTo, Args: []float64{x, y}})
}

func (r *Recorder) LineTo(x, y float64) {
	r.record(Op{Name: OpLineTo, Args: []float64{x, y}})
}

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64) {
	r.record(Op{Name: OpArc, Args: []float64{x, y, radius, startAngle, endAngle}})
}

func (r *Recorder) Rect(x, y, width, height float64) {
	r.record(Op{Name: OpRect, Args: []float64{x, y, width, height}})
}

func (r *Recorder) ClosePath() {
	r.record(Op{Name: OpClosePath})
}

func (r *Recorder) SetFillColor(c color.Color) {
	r.record(Op{Name: OpFillColor, Color: hexColor(c)})
}

func (r *Recorder) SetStrokeColor(c color.Color) {
	r.record(Op{Name: OpStrokeColor, Color: hexColor(c)})
}

func (r *Recorder) SetLineWidth(width float64) {
	r.record(Op{Name: OpLineWidth, Args: []float64{width}})
}

func (r *Recorder) SetGlobalAlpha(alpha float64) {
	r.record(Op{Name: OpGlobalAlpha, Args: []float64{alpha}})
}

func (r *Recorder) Fill() {
	r.record(Op{Name: OpFill})
}

func (r *Recorder) Stroke() {
	r.record(Op{Name: OpStroke})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.record(Op{Name: OpFillText, Args: []float64{x, y}, Text: text})
}

func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flushErr != nil {
		return r.flushErr
	}

	r.flushes++
	r.ops = append(r.ops, Op{Name: OpFlush})

	return nil
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops = append(r.ops, op)
}

func hexColor(c color.Color) string {
	if c == nil {
		return ""
	}

	rgba := color.NRGBAModel.Convert(c).(color.NRGBA) //nolint:forcetypeassert // NRGBAModel always yields NRGBA

	return fmt.Sprintf("#%02x%02x%02x%02x", rgba.R, rgba.G, rgba.B, rgba.A)
}
