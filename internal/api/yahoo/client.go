package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/Alias1177/ChartBot/internal/model"
	httpClient "github.com/Alias1177/ChartBot/internal/platform/http"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public Yahoo Finance query host
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const userAgent = "Mozilla/5.0 (compatible; ChartBot/1.0)"

// ErrUnknownTicker is returned when Yahoo has no such symbol
var ErrUnknownTicker = errors.New("unknown ticker")

// Client is the Yahoo Finance chart API client
type Client struct {
	baseURL    string
	maxBars    int
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Yahoo client
type ClientOptions struct {
	BaseURL         string
	MaxBars         int // keep only the most recent bars, 0 keeps everything
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Yahoo Finance client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		maxBars:    options.MaxBars,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "yahoo_client").Logger(),
	}
}

// History fetches the price series of ticker over period, one bar per interval.
// An unknown symbol yields ErrUnknownTicker, a known symbol without data in the
// window yields an empty series and no error.
func (c *Client) History(ctx context.Context, ticker string, period model.Period, interval model.Interval) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("range", string(period))
	q.Set("interval", string(interval))
	q.Set("includePrePost", "true")
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker), q.Encode())

	logger := c.logger.With().Str("ticker", ticker).Str("period", string(period)).Str("interval", string(interval)).Logger()
	logger.Debug().Str("url", endpoint).Msg("Fetching history")

	// Create a new request with context
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		var statusErr *httpClient.HTTPStatusError
		if errors.As(err, &statusErr) {
			return c.handleStatusError(logger, ticker, statusErr)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data model.YahooChartResponse
	if err := json.Unmarshal(body, &data); err != nil {
		logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if data.Chart.Error != nil {
		if data.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
		}
		logger.Error().Str("code", data.Chart.Error.Code).Str("description", data.Chart.Error.Description).Msg("Yahoo API error")
		return nil, fmt.Errorf("Yahoo API error: %s: %s", data.Chart.Error.Code, data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}

	series := toSeries(data)
	if len(series) == 0 {
		logger.Warn().Msg("No bars in response")
		return series, nil
	}

	series = series.Tail(c.maxBars)
	logger.Debug().Int("count", len(series)).Msg("Fetched history")
	return series, nil
}

// handleStatusError maps a 4xx response to the client errors
func (c *Client) handleStatusError(logger zerolog.Logger, ticker string, statusErr *httpClient.HTTPStatusError) (model.PriceSeries, error) {
	var data model.YahooChartResponse
	_ = json.Unmarshal(statusErr.Body, &data)

	switch {
	case statusErr.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	case statusErr.StatusCode == http.StatusUnprocessableEntity && data.Chart.Error != nil:
		// Yahoo refuses windows the interval is not offered for, e.g. 1m over 1mo
		logger.Warn().Str("description", data.Chart.Error.Description).Msg("Range not available")
		return model.PriceSeries{}, nil
	default:
		logger.Error().Int("status", statusErr.StatusCode).Str("response", string(statusErr.Body)).Msg("Yahoo API error")
		return nil, fmt.Errorf("HTTP request failed: %w", statusErr)
	}
}

// toSeries converts the first chart result into bars, oldest first. Rows with a
// missing price are skipped, a missing volume counts as zero.
func toSeries(data model.YahooChartResponse) model.PriceSeries {
	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return model.PriceSeries{}
	}
	quote := result.Indicators.Quote[0]
	loc := location(result.Meta.Timezone, result.Meta.GmtOffset)

	series := make(model.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, ok1 := at(quote.Open, i)
		high, ok2 := at(quote.High, i)
		low, ok3 := at(quote.Low, i)
		closePrice, ok4 := at(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		volume, _ := at(quote.Volume, i)

		series = append(series, model.PriceBar{
			Timestamp: time.Unix(ts, 0).In(loc),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}

	// Sort bars by timestamp (oldest first)
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}

// location resolves the exchange timezone so labels show exchange local time
func location(name string, gmtOffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", gmtOffset)
}
