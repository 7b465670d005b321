package bot

import (
	"testing"

	"github.com/Alias1177/ChartBot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name                     string
		ticker, period, interval string
		want                     Query
	}{
		{"defaults", "aapl", "", "", Query{"AAPL", model.Period1y, model.Interval1h}},
		{"explicit", "AAPL", "1mo", "1d", Query{"AAPL", model.Period1mo, model.Interval1d}},
		{"day period picks minute bars", "msft", "5d", "", Query{"MSFT", model.Period5d, model.Interval5m}},
		{"long period picks daily bars", "msft", "6mo", "", Query{"MSFT", model.Period6mo, model.Interval1d}},
		{"minute interval forces month", "tsla", "1y", "15m", Query{"TSLA", model.Period1mo, model.Interval15m}},
		{"minute interval keeps day period", "tsla", "1d", "1m", Query{"TSLA", model.Period1d, model.Interval1m}},
		{"weekly bars", "spy", "5y", "1wk", Query{"SPY", model.Period5y, model.Interval1wk}},
		{"index symbol", "^gspc", "ytd", "1d", Query{"^GSPC", model.PeriodYtd, model.Interval1d}},
		{"class share", "brk-b", "max", "3mo", Query{"BRK-B", model.PeriodMax, model.Interval3mo}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuery(tt.ticker, tt.period, tt.interval)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuery_Invalid(t *testing.T) {
	tests := []struct {
		name                     string
		ticker, period, interval string
		message                  string
	}{
		{"missing ticker", "", "", "", "Please provide ticker as argument"},
		{"blank ticker", "   ", "1mo", "1d", "Please provide ticker as argument"},
		{"bad ticker", "AA/PL", "", "", "AA/PL not a valid ticker"},
		{"bad period", "AAPL", "1yr", "1d", "1yr not a valid period"},
		{"bad interval", "AAPL", "1mo", "4h", "4h not a valid interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.ticker, tt.period, tt.interval)
			require.ErrorIs(t, err, ErrInvalidArgument)

			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tt.message, argErr.Message)
		})
	}
}

func TestSplitArgs(t *testing.T) {
	ticker, period, interval := SplitArgs(nil)
	assert.Equal(t, []string{"", "", ""}, []string{ticker, period, interval})

	ticker, period, interval = SplitArgs([]string{"AAPL", "1mo"})
	assert.Equal(t, []string{"AAPL", "1mo", ""}, []string{ticker, period, interval})

	ticker, period, interval = SplitArgs([]string{"AAPL", "1mo", "1d", "extra"})
	assert.Equal(t, []string{"AAPL", "1mo", "1d"}, []string{ticker, period, interval})
}
