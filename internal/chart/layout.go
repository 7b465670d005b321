package chart

import (
	"fmt"
	"math"

	"github.com/Alias1177/ChartBot/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// TickCount is the number of x axis labels drawn regardless of series length
const TickCount = 5

// TickIndices returns round(linspace(0, n-1, TickCount)). Halves round to even.
func TickIndices(n int) []int {
	if n <= 0 {
		return nil
	}
	idx := make([]int, TickCount)
	last := float64(n - 1)
	for k := 0; k < TickCount; k++ {
		idx[k] = int(math.RoundToEven(last * float64(k) / float64(TickCount-1)))
	}
	return idx
}

// Labels formats every bar timestamp with layout
func Labels(series model.PriceSeries, layout string) []string {
	labels := make([]string, len(series))
	for i, bar := range series {
		labels[i] = bar.Timestamp.Format(layout)
	}
	return labels
}

// Ticks returns the labelled x axis positions, with repeated indices collapsed
func Ticks(series model.PriceSeries, layout string) []gochart.Tick {
	var ticks []gochart.Tick
	prev := -1
	for _, i := range TickIndices(len(series)) {
		if i == prev {
			continue
		}
		prev = i
		ticks = append(ticks, gochart.Tick{
			Value: float64(i),
			Label: series[i].Timestamp.Format(layout),
		})
	}
	return ticks
}

// PriceRange returns the price axis bounds [min(low)*lowPad, max(high)*highPad]
func PriceRange(series model.PriceSeries, lowPad, highPad float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, bar := range series {
		lo = math.Min(lo, bar.Low)
		hi = math.Max(hi, bar.High)
	}
	return lo * lowPad, hi * highPad
}

// VolumeRange returns the volume axis bounds [0, factor*max(volume)].
// A series without volume gets [0, 1] so the axis keeps a non-zero span.
func VolumeRange(series model.PriceSeries, factor float64) (float64, float64) {
	var hi float64
	for _, bar := range series {
		hi = math.Max(hi, bar.Volume)
	}
	if hi == 0 {
		return 0, 1
	}
	return 0, factor * hi
}

// BarColor picks up for bars that closed above their open and down otherwise
func BarColor(bar model.PriceBar, up, down drawing.Color) drawing.Color {
	if bar.Up() {
		return up
	}
	return down
}

// Validate rejects series the renderer cannot draw
func Validate(series model.PriceSeries) error {
	if len(series) == 0 {
		return ErrEmptySeries
	}
	for i, bar := range series {
		if !finite(bar.Open, bar.High, bar.Low, bar.Close, bar.Volume) {
			return fmt.Errorf("%w: bar %d at %s has non-finite fields",
				ErrInvalidBar, i, bar.Timestamp.Format("2006-01-02 15:04"))
		}
		if bar.Low > bar.High {
			return fmt.Errorf("%w: bar %d at %s has low %v above high %v",
				ErrInvalidBar, i, bar.Timestamp.Format("2006-01-02 15:04"), bar.Low, bar.High)
		}
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
