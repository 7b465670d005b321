package chart

import (
	"github.com/Alias1177/ChartBot/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	bodyWidth   = 0.6 // share of a bar slot covered by the open/close body
	wickWidth   = 0.1 // share of a bar slot covered by the low/high wick
	volumeWidth = 0.8
)

// candleSeries draws OHLC bars on the primary axis. Bar i sits at x = i.
type candleSeries struct {
	bars model.PriceSeries
	up   drawing.Color
	down drawing.Color
}

func (cs candleSeries) GetName() string             { return "price" }
func (cs candleSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (cs candleSeries) GetStyle() gochart.Style     { return gochart.Style{} }
func (cs candleSeries) Validate() error             { return Validate(cs.bars) }

func (cs candleSeries) Render(r gochart.Renderer, box gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	for i, bar := range cs.bars {
		c := BarColor(bar, cs.up, cs.down)
		x := float64(i)

		fillRect(r, c,
			box.Left+xrange.Translate(x-wickWidth/2), box.Bottom-yrange.Translate(bar.High),
			box.Left+xrange.Translate(x+wickWidth/2), box.Bottom-yrange.Translate(bar.Low))

		top, bottom := bar.Close, bar.Open
		if bar.Open > bar.Close {
			top, bottom = bar.Open, bar.Close
		}
		fillRect(r, c,
			box.Left+xrange.Translate(x-bodyWidth/2), box.Bottom-yrange.Translate(top),
			box.Left+xrange.Translate(x+bodyWidth/2), box.Bottom-yrange.Translate(bottom))
	}
}

// volumeSeries draws one bar per observation on the secondary axis
type volumeSeries struct {
	bars  model.PriceSeries
	color drawing.Color
}

func (vs volumeSeries) GetName() string             { return "volume" }
func (vs volumeSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisSecondary }
func (vs volumeSeries) GetStyle() gochart.Style     { return gochart.Style{} }
func (vs volumeSeries) Validate() error             { return nil }

func (vs volumeSeries) Render(r gochart.Renderer, box gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	for i, bar := range vs.bars {
		if bar.Volume <= 0 {
			continue
		}
		x := float64(i)
		fillRect(r, vs.color,
			box.Left+xrange.Translate(x-volumeWidth/2), box.Bottom-yrange.Translate(bar.Volume),
			box.Left+xrange.Translate(x+volumeWidth/2), box.Bottom)
	}
}

// fillRect fills the rectangle spanned by two corners, at least one pixel wide and tall
func fillRect(r gochart.Renderer, c drawing.Color, left, top, right, bottom int) {
	if right <= left {
		right = left + 1
	}
	if bottom <= top {
		bottom = top + 1
	}
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(0)
	r.MoveTo(left, top)
	r.LineTo(right, top)
	r.LineTo(right, bottom)
	r.LineTo(left, bottom)
	r.Close()
	r.Fill()
}
