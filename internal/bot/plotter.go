package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alias1177/ChartBot/internal/api/yahoo"
	"github.com/Alias1177/ChartBot/internal/chart"
	"github.com/Alias1177/ChartBot/internal/model"
	"github.com/Alias1177/ChartBot/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HistorySource returns the price series of a ticker
type HistorySource interface {
	History(ctx context.Context, ticker string, period model.Period, interval model.Interval) (model.PriceSeries, error)
}

// ChartRenderer turns a series into PNG bytes
type ChartRenderer interface {
	RenderPNG(req chart.Request) ([]byte, error)
}

// ObjectStore uploads a chart and returns its public URL
type ObjectStore interface {
	Upload(ctx context.Context, name string, body []byte) (string, error)
}

// Reply is the outcome of a plot command. Exactly one of PhotoURL and Text is set.
type Reply struct {
	Query    Query
	PhotoURL string
	Text     string
	Status   string
}

// Plotter runs the fetch, render and upload pipeline behind /plot
type Plotter struct {
	source   HistorySource
	renderer ChartRenderer
	store    ObjectStore
	newName  func() string
	logger   zerolog.Logger
}

// NewPlotter wires the pipeline collaborators
func NewPlotter(source HistorySource, renderer ChartRenderer, store ObjectStore) *Plotter {
	return &Plotter{
		source:   source,
		renderer: renderer,
		store:    store,
		newName:  storage.NewObjectName,
		logger:   log.With().Str("component", "plotter").Logger(),
	}
}

// Plot validates the raw arguments, then fetches, renders and uploads the chart.
// Nothing is retried, any failure ends the request with a user facing text.
func (p *Plotter) Plot(ctx context.Context, ticker, period, interval string) Reply {
	q, err := ParseQuery(ticker, period, interval)
	if err != nil {
		var argErr *ArgumentError
		if errors.As(err, &argErr) {
			return Reply{Text: argErr.Message, Status: model.PlotStatusInvalidArgs}
		}
		return Reply{Text: err.Error(), Status: model.PlotStatusInvalidArgs}
	}

	logger := p.logger.With().
		Str("ticker", q.Ticker).
		Str("period", string(q.Period)).
		Str("interval", string(q.Interval)).
		Logger()

	series, err := p.source.History(ctx, q.Ticker, q.Period, q.Interval)
	switch {
	case errors.Is(err, yahoo.ErrUnknownTicker):
		logger.Info().Msg("Unknown ticker")
		return Reply{Query: q, Text: fmt.Sprintf("%s not found", q.Ticker), Status: model.PlotStatusUnknownTicker}
	case err != nil:
		logger.Error().Err(err).Msg("Error fetching history")
		return Reply{Query: q, Text: "Could not fetch market data, please try again", Status: model.PlotStatusFetchFailed}
	case len(series) == 0:
		logger.Info().Msg("No data for range")
		return Reply{
			Query:  q,
			Text:   fmt.Sprintf("No data for %s in period %s with interval %s", q.Ticker, q.Period, q.Interval),
			Status: model.PlotStatusNoData,
		}
	}

	img, err := p.renderer.RenderPNG(chart.Request{Series: series, Label: q.Ticker})
	switch {
	case errors.Is(err, chart.ErrEmptySeries), errors.Is(err, chart.ErrInvalidBar):
		logger.Warn().Err(err).Msg("Rejected series")
		return Reply{Query: q, Text: "Could not chart this range", Status: model.PlotStatusBadData}
	case err != nil:
		logger.Error().Err(err).Int("bars", len(series)).Msg("Error rendering chart")
		return Reply{Query: q, Text: "Chart generation failed", Status: model.PlotStatusRenderFailed}
	}

	name := p.newName()
	url, err := p.store.Upload(ctx, name, img)
	if err != nil {
		logger.Error().Err(err).Str("object", name).Msg("Error uploading chart")
		return Reply{Query: q, Text: "Chart could not be delivered, please try again", Status: model.PlotStatusUploadFailed}
	}

	logger.Info().Str("url", url).Int("bars", len(series)).Msg("Chart delivered")
	return Reply{Query: q, PhotoURL: url, Status: model.PlotStatusDelivered}
}
