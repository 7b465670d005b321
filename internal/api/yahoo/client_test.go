package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alias1177/ChartBot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "currency": "USD", "gmtoffset": -14400, "exchangeTimezoneName": "America/New_York"},
      "timestamp": [1709906400, 1709992800, 1710079200, 1710165600],
      "indicators": {"quote": [{
        "open":   [170.0, 171.0, null, 173.0],
        "high":   [172.0, 173.5, null, 175.0],
        "low":    [169.0, 170.5, null, 172.0],
        "close":  [171.5, 170.9, null, 174.2],
        "volume": [1000,  null,  null, 3000]
      }]}
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, maxBars int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientOptions{
		BaseURL:         server.URL,
		MaxBars:         maxBars,
		RequestTimeout:  2 * time.Second,
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: time.Second,
	})
}

func TestClient_History_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "true", r.URL.Query().Get("includePrePost"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	}, 0)

	series, err := client.History(context.Background(), "AAPL", model.Period1mo, model.Interval1d)
	require.NoError(t, err)
	require.Len(t, series, 3, "rows with null prices are skipped")

	assert.Equal(t, 170.0, series[0].Open)
	assert.Equal(t, 171.5, series[0].Close)
	assert.Equal(t, 1000.0, series[0].Volume)
	assert.Equal(t, 0.0, series[1].Volume, "null volume counts as zero")
	assert.Equal(t, 174.2, series[2].Close)
	assert.Equal(t, "America/New_York", series[0].Timestamp.Location().String())

	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Timestamp.Before(series[i].Timestamp))
	}
}

func TestClient_History_MaxBars(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartBody))
	}, 2)

	series, err := client.History(context.Background(), "AAPL", model.Period1mo, model.Interval1d)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 171.0, series[0].Open)
	assert.Equal(t, 173.0, series[1].Open)
}

func TestClient_History_UnknownTicker(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{
			name:    "404 not found",
			status:  http.StatusNotFound,
			payload: `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`,
		},
		{
			name:    "200 with not found error",
			status:  http.StatusOK,
			payload: `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`,
		},
		{
			name:    "200 without result",
			status:  http.StatusOK,
			payload: `{"chart":{"result":[],"error":null}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}, 0)

			_, err := client.History(context.Background(), "NOPE", model.Period1y, model.Interval1h)
			assert.ErrorIs(t, err, ErrUnknownTicker)
		})
	}
}

func TestClient_History_EmptyRange(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{
			name:    "no timestamps",
			status:  http.StatusOK,
			payload: `{"chart":{"result":[{"meta":{"symbol":"AAPL"},"indicators":{"quote":[{}]}}],"error":null}}`,
		},
		{
			name:    "interval not offered for range",
			status:  http.StatusUnprocessableEntity,
			payload: `{"chart":{"result":null,"error":{"code":"Unprocessable Entity","description":"1m data not available"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}, 0)

			series, err := client.History(context.Background(), "AAPL", model.Period1mo, model.Interval1m)
			require.NoError(t, err)
			assert.Empty(t, series)
		})
	}
}

func TestClient_History_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 0)

	_, err := client.History(context.Background(), "AAPL", model.Period1mo, model.Interval1d)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownTicker)
}
