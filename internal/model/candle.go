package model

import "time"

// PriceBar represents a single OHLCV observation
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Up reports whether the bar closed above its open
func (b PriceBar) Up() bool {
	return b.Close > b.Open
}

// PriceSeries is a sequence of bars ordered by ascending timestamp
type PriceSeries []PriceBar

// Tail returns the last n bars of the series
func (s PriceSeries) Tail(n int) PriceSeries {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// YahooChartResponse mirrors the Yahoo v8 chart response, trimmed to the fields we read
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				Currency  string `json:"currency"`
				GmtOffset int    `json:"gmtoffset"`
				Timezone  string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"chart"`
}

// YahooError is the error object Yahoo embeds in chart responses
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
