package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Alias1177/ChartBot/internal/model"
)

// Defaults used when the command omits period or interval
const (
	DefaultPeriod         = model.Period1y
	DefaultInterval       = model.Interval1h
	DefaultDailyInterval  = model.Interval5m
	DefaultLongInterval   = model.Interval1d
	DefaultIntradayPeriod = model.Period1mo
)

// ErrInvalidArgument marks user input that was rejected before any fetch
var ErrInvalidArgument = errors.New("invalid argument")

var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,14}$`)

// ArgumentError carries the message shown to the user for rejected input
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return e.Message }

// Unwrap lets errors.Is match ErrInvalidArgument
func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// Query is a validated chart request
type Query struct {
	Ticker   string
	Period   model.Period
	Interval model.Interval
}

// SplitArgs maps command arguments onto ticker, period and interval. Missing
// values are returned empty.
func SplitArgs(args []string) (ticker, period, interval string) {
	if len(args) > 0 {
		ticker = args[0]
	}
	if len(args) > 1 {
		period = args[1]
	}
	if len(args) > 2 {
		interval = args[2]
	}
	return ticker, period, interval
}

// ParseQuery validates raw arguments and fills omitted ones. An empty string means
// the argument was not given.
//
// Without period and interval the chart covers 1y of 1h bars. A period alone picks
// 5m bars for day periods and 1d bars otherwise. Minute intervals only make sense over
// short windows, so they force the period to 1mo unless a day period was asked for.
func ParseQuery(ticker, period, interval string) (Query, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Query{}, &ArgumentError{Message: "Please provide ticker as argument"}
	}
	if !tickerPattern.MatchString(ticker) {
		return Query{}, &ArgumentError{Message: fmt.Sprintf("%s not a valid ticker", ticker)}
	}

	q := Query{Ticker: ticker, Period: DefaultPeriod, Interval: DefaultInterval}

	if period != "" {
		p, ok := model.ParsePeriod(period)
		if !ok {
			return Query{}, &ArgumentError{Message: fmt.Sprintf("%s not a valid period", period)}
		}
		q.Period = p
		q.Interval = DefaultLongInterval
		if p.Daily() {
			q.Interval = DefaultDailyInterval
		}
	}

	if interval != "" {
		i, ok := model.ParseInterval(interval)
		if !ok {
			return Query{}, &ArgumentError{Message: fmt.Sprintf("%s not a valid interval", interval)}
		}
		q.Interval = i
	}

	if q.Interval.Intraday() && !q.Period.Daily() {
		q.Period = DefaultIntradayPeriod
	}

	return q, nil
}
