package chart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Alias1177/ChartBot/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gochart "github.com/wcharczuk/go-chart/v2"
)

// Request is the input of a single render
type Request struct {
	Series model.PriceSeries
	Label  string // x axis caption, usually the ticker
}

// Renderer turns price series into PNG candlestick charts with a volume backdrop
type Renderer struct {
	opts   Options
	logger zerolog.Logger

	// go-chart keeps its default font in package state, so draws are serialized
	mu sync.Mutex
}

// NewRenderer creates a renderer, zero option fields take the darkgrid defaults
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts:   opts.withDefaults(),
		logger: log.With().Str("component", "chart_renderer").Logger(),
	}
}

// Options returns the effective renderer options
func (r *Renderer) Options() Options {
	return r.opts
}

// Render draws the chart and writes the PNG to w. Nothing is written when validation
// or drawing fails.
func (r *Renderer) Render(req Request, w io.Writer) error {
	if err := Validate(req.Series); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.draw(req, &buf); err != nil {
		r.logger.Debug().Err(err).Str("label", req.Label).Int("bars", len(req.Series)).Msg("Chart drawing failed")
		return err
	}

	n, err := buf.WriteTo(w)
	if err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}

	r.logger.Debug().Str("label", req.Label).Int("bars", len(req.Series)).Int64("bytes", n).Msg("Rendered chart")
	return nil
}

// RenderPNG draws the chart into memory
func (r *Renderer) RenderPNG(req Request) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(req, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderToFile draws the chart into path. The file only appears when rendering succeeds.
func (r *Renderer) RenderToFile(req Request, path string) error {
	data, err := r.RenderPNG(req)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*.png")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving chart into place: %w", err)
	}
	return nil
}

// draw builds a fresh figure for req and renders it. Panics inside the drawing
// library are reported as ErrRender.
func (r *Renderer) draw(req Request, w io.Writer) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRender, p)
		}
	}()

	fig := r.figure(req)
	if err := fig.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// figure lays out both tracks of the chart for req
func (r *Renderer) figure(req Request) gochart.Chart {
	o := r.opts
	n := len(req.Series)

	priceMin, priceMax := PriceRange(req.Series, o.LowPad, o.HighPad)
	volMin, volMax := VolumeRange(req.Series, o.VolumeFactor)

	// go-chart derives the x range from the tick extremes, so the half slot margins
	// on both sides are pinned with unlabelled ticks
	ticks := []gochart.Tick{{Value: -0.5}}
	ticks = append(ticks, Ticks(req.Series, o.LabelFormat)...)
	ticks = append(ticks, gochart.Tick{Value: float64(n) - 0.5})

	text := gochart.Style{FontColor: o.TextColor, StrokeColor: o.TextColor}
	grid := gochart.Style{StrokeColor: o.GridColor, StrokeWidth: 1}

	return gochart.Chart{
		Width:      o.Width,
		Height:     o.Height,
		DPI:        o.DPI,
		Background: gochart.Style{FillColor: o.Background, Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		Canvas:     gochart.Style{FillColor: o.Canvas},
		XAxis: gochart.XAxis{
			Name:           req.Label,
			NameStyle:      text,
			Style:          text,
			TickPosition:   gochart.TickPositionUnderTick,
			Range:          &gochart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Ticks:          ticks,
			GridMajorStyle: grid,
		},
		YAxis: gochart.YAxis{
			Style:          text,
			Range:          &gochart.ContinuousRange{Min: priceMin, Max: priceMax},
			GridMajorStyle: grid,
		},
		YAxisSecondary: gochart.YAxis{
			Style: gochart.Style{Hidden: true},
			Range: &gochart.ContinuousRange{Min: volMin, Max: volMax},
		},
		// volume first so the price track is drawn over it
		Series: []gochart.Series{
			volumeSeries{bars: req.Series, color: o.VolumeColor},
			candleSeries{bars: req.Series, up: o.UpColor, down: o.DownColor},
		},
	}
}
