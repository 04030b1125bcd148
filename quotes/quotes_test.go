package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketQuoteShape(t *testing.T) {
	assert := assert.New(t)
	s := NewService()

	q, err := s.MarketQuote(context.Background(), "tcs")
	require.NoError(t, err)

	assert.Equal("TCS", q.Symbol)
	assert.GreaterOrEqual(q.LastPrice, 1000.0)
	assert.LessOrEqual(q.LastPrice, 2000.0)
	assert.False(q.LastUpdated.IsZero())
}

func TestMarketQuoteCached(t *testing.T) {
	s := NewService()

	q1, err := s.MarketQuote(context.Background(), "TCS")
	require.NoError(t, err)
	q2, err := s.MarketQuote(context.Background(), "TCS")
	require.NoError(t, err)

	assert.Equal(t, q1.LastPrice, q2.LastPrice)
	assert.Equal(t, q1.LastUpdated, q2.LastUpdated)
}

func TestMarketQuoteHonorsContext(t *testing.T) {
	s := NewService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// cache is empty, so the limiter wait sees the cancelled context
	_, err := s.MarketQuote(ctx, "TCS")
	assert.Error(t, err)
}

func TestSearchInstruments(t *testing.T) {
	s := NewService()

	testCases := []struct {
		query    string
		expected []string
	}{
		{"reliance", []string{"RELIANCE"}},
		{"BANK", []string{"HDFCBANK", "ICICIBANK", "SBIN", "AXISBANK"}},
		{"tata", []string{"TCS"}},
		{"zzz", nil},
	}

	for _, c := range testCases {
		var got []string
		for _, in := range s.SearchInstruments(c.query) {
			got = append(got, in.Symbol)
		}
		assert.Equal(t, c.expected, got, "query %q", c.query)
	}
}

func TestLatestQuoteBoard(t *testing.T) {
	s := NewService()

	_, ok := s.LatestQuote("TCS")
	assert.False(t, ok)

	_, err := s.MarketQuote(context.Background(), "TCS")
	require.NoError(t, err)

	q, ok := s.LatestQuote("tcs")
	require.True(t, ok)
	assert.Equal(t, "TCS", q.Symbol)
	assert.WithinDuration(t, time.Now(), q.LastUpdated, time.Minute)
}
