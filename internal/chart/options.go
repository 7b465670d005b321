package chart

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default rendering parameters
const (
	DefaultWidth        = 1200
	DefaultHeight       = 640
	DefaultDPI          = 96.0
	DefaultLowPad       = 0.96
	DefaultHighPad      = 1.01
	DefaultVolumeFactor = 5.0
	DefaultLabelFormat  = "02/01-15:04"
)

// Options configures a Renderer. The two bundled themes are variants of the same
// renderer, they differ only in colours and figure size.
type Options struct {
	Width  int
	Height int
	DPI    float64

	// LowPad and HighPad scale min(low) and max(high) into the price axis range.
	LowPad  float64
	HighPad float64

	// VolumeFactor scales max(volume) into the volume axis upper bound.
	VolumeFactor float64

	// LabelFormat is a time layout used for x axis labels.
	LabelFormat string

	UpColor     drawing.Color
	DownColor   drawing.Color
	VolumeColor drawing.Color
	Background  drawing.Color
	Canvas      drawing.Color
	GridColor   drawing.Color
	TextColor   drawing.Color
}

// DefaultOptions returns the darkgrid theme
func DefaultOptions() Options {
	return Options{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		DPI:          DefaultDPI,
		LowPad:       DefaultLowPad,
		HighPad:      DefaultHighPad,
		VolumeFactor: DefaultVolumeFactor,
		LabelFormat:  DefaultLabelFormat,
		UpColor:      drawing.Color{R: 38, G: 166, B: 91, A: 255},
		DownColor:    drawing.Color{R: 214, G: 48, B: 49, A: 255},
		VolumeColor:  drawing.Color{R: 76, G: 114, B: 176, A: 110},
		Background:   drawing.ColorWhite,
		Canvas:       drawing.Color{R: 234, G: 234, B: 242, A: 255},
		GridColor:    drawing.ColorWhite,
		TextColor:    drawing.Color{R: 51, G: 51, B: 51, A: 255},
	}
}

// WhiteOptions returns the white theme with a wider figure
func WhiteOptions() Options {
	opts := DefaultOptions()
	opts.Width = 1400
	opts.Height = 700
	opts.UpColor = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	opts.DownColor = drawing.Color{R: 200, G: 0, B: 0, A: 255}
	opts.VolumeColor = drawing.Color{R: 128, G: 128, B: 128, A: 90}
	opts.Canvas = drawing.ColorWhite
	opts.GridColor = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	return opts
}

// ThemeOptions returns the options for a named theme, falling back to the darkgrid theme
func ThemeOptions(name string) Options {
	switch name {
	case "white", "light":
		return WhiteOptions()
	default:
		return DefaultOptions()
	}
}

// withDefaults fills zero fields from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.LowPad <= 0 {
		o.LowPad = d.LowPad
	}
	if o.HighPad <= 0 {
		o.HighPad = d.HighPad
	}
	if o.VolumeFactor <= 0 {
		o.VolumeFactor = d.VolumeFactor
	}
	if o.LabelFormat == "" {
		o.LabelFormat = d.LabelFormat
	}
	if o.UpColor.IsZero() {
		o.UpColor = d.UpColor
	}
	if o.DownColor.IsZero() {
		o.DownColor = d.DownColor
	}
	if o.VolumeColor.IsZero() {
		o.VolumeColor = d.VolumeColor
	}
	if o.Background.IsZero() {
		o.Background = d.Background
	}
	if o.Canvas.IsZero() {
		o.Canvas = d.Canvas
	}
	if o.GridColor.IsZero() {
		o.GridColor = d.GridColor
	}
	if o.TextColor.IsZero() {
		o.TextColor = d.TextColor
	}
	return o
}
