package model

import "strings"

// Period is the lookback window of a history request
type Period string

const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
	PeriodYtd Period = "ytd"
	PeriodMax Period = "max"
)

// Interval is the bar size of a history request
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval2m  Interval = "2m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval60m Interval = "60m"
	Interval90m Interval = "90m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval5d  Interval = "5d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
	Interval3mo Interval = "3mo"
)

// Periods lists every recognized period in display order
var Periods = []Period{
	Period1d, Period5d, Period1mo, Period3mo, Period6mo,
	Period1y, Period2y, Period5y, Period10y, PeriodYtd, PeriodMax,
}

// Intervals lists every recognized interval in display order
var Intervals = []Interval{
	Interval1m, Interval2m, Interval5m, Interval15m, Interval30m, Interval60m,
	Interval90m, Interval1h, Interval1d, Interval5d, Interval1wk, Interval1mo, Interval3mo,
}

// ParsePeriod returns the period for s and whether it is recognized
func ParsePeriod(s string) (Period, bool) {
	for _, p := range Periods {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// ParseInterval returns the interval for s and whether it is recognized
func ParseInterval(s string) (Interval, bool) {
	for _, i := range Intervals {
		if string(i) == s {
			return i, true
		}
	}
	return "", false
}

// Daily reports whether the period is counted in days (1d, 5d)
func (p Period) Daily() bool {
	return strings.HasSuffix(string(p), "d")
}

// Intraday reports whether the interval is counted in minutes
func (i Interval) Intraday() bool {
	return strings.HasSuffix(string(i), "m")
}
