package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/components"
)

// PageOption tunes the layout of a [Page].
type PageOption func(*Page)

// WithCenteredLayout stacks the charts in a single centered column, instead of the default flex layout.
func WithCenteredLayout() PageOption {
	return func(p *Page) {
		p.layout = components.PageCenterLayout
	}
}

// Page is an HTML document holding one or more line charts.
type Page struct {
	title  string
	layout components.Layout
	charts []*Chart
}

// NewPage creates an empty page with the given title.
func NewPage(title string, opts ...PageOption) *Page {
	p := &Page{
		title:  title,
		layout: components.PageFlexLayout,
	}

	for _, apply := range opts {
		apply(p)
	}

	return p
}

// AddChart appends a chart to the page.
func (p *Page) AddChart(c *Chart) {
	p.charts = append(p.charts, c)
}

// Len returns the number of charts on the page.
func (p *Page) Len() int {
	return len(p.charts)
}

// Render writes the page HTML to w.
func (p *Page) Render(w io.Writer) error {
	page := components.NewPage()
	page.SetLayout(p.layout)
	page.SetPageTitle(p.title)

	for _, c := range p.charts {
		page.AddCharts(c.Build())
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering %d chart(s): %w", len(p.charts), err)
	}

	return nil
}
