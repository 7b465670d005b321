package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alias1177/ChartBot/internal/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("unknown ticker")

type fakeSource struct {
	calls  int
	series model.PriceSeries
	err    error
}

func (f *fakeSource) History(ctx context.Context, ticker string, period model.Period, interval model.Interval) (model.PriceSeries, error) {
	f.calls++
	return f.series, f.err
}

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func testSeries() model.PriceSeries {
	ts := time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC)
	return model.PriceSeries{
		{Timestamp: ts, Open: 10, High: 12, Low: 9, Close: 11, Volume: 500},
		{Timestamp: ts.Add(time.Hour), Open: 11, High: 11.5, Low: 10, Close: 10.5, Volume: 700},
	}
}

func TestCachingSource_HitAfterMiss(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	inner := &fakeSource{series: testSeries()}
	src := NewCachingSource(rdb, time.Minute, inner, "")

	first, err := src.History(context.Background(), "aapl", model.Period1mo, model.Interval1d)
	require.NoError(t, err)
	second, err := src.History(context.Background(), "AAPL", model.Period1mo, model.Interval1d)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Timestamp.Equal(second[i].Timestamp))
		assert.Equal(t, first[i].Close, second[i].Close)
	}
	assert.True(t, mr.Exists("history:AAPL:1mo:1d"))
}

func TestCachingSource_Expiry(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	inner := &fakeSource{series: testSeries()}
	src := NewCachingSource(rdb, 30*time.Second, inner, "h")

	_, err := src.History(context.Background(), "AAPL", model.Period1y, model.Interval1h)
	require.NoError(t, err)
	mr.FastForward(31 * time.Second)
	_, err = src.History(context.Background(), "AAPL", model.Period1y, model.Interval1h)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachingSource_ErrorsNotCached(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	inner := &fakeSource{err: errNotFound}
	src := NewCachingSource(rdb, time.Minute, inner, "")

	for i := 0; i < 2; i++ {
		_, err := src.History(context.Background(), "NOPE", model.Period1y, model.Interval1h)
		assert.ErrorIs(t, err, errNotFound)
	}

	assert.Equal(t, 2, inner.calls)
	assert.False(t, mr.Exists("history:NOPE:1y:1h"))
}

func TestCachingSource_CorruptEntry(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("history:AAPL:1mo:1d", "{not json"))
	inner := &fakeSource{series: testSeries()}
	src := NewCachingSource(rdb, time.Minute, inner, "")

	series, err := src.History(context.Background(), "AAPL", model.Period1mo, model.Interval1d)
	require.NoError(t, err)

	assert.Len(t, series, 2)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingSource_NilClientBypasses(t *testing.T) {
	inner := &fakeSource{series: testSeries()}
	src := NewCachingSource(nil, 0, inner, "")

	for i := 0; i < 3; i++ {
		_, err := src.History(context.Background(), "AAPL", model.Period1mo, model.Interval1d)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.calls)
}
