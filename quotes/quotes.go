// Package quotes serves simulated market data. The shapes mirror what a live
// broker API would return so the rest of the system does not care that the
// numbers are synthesized.
package quotes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Quote is a point-in-time market quote for a single instrument.
type Quote struct {
	Symbol        string    `json:"symbol"`
	LastPrice     float64   `json:"last_price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

type Instrument struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Instruments is the fixed NSE universe the simulator trades in.
var Instruments = []Instrument{
	{Symbol: "RELIANCE", Name: "Reliance Industries Ltd"},
	{Symbol: "TCS", Name: "Tata Consultancy Services"},
	{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd"},
	{Symbol: "INFY", Name: "Infosys Ltd"},
	{Symbol: "ITC", Name: "ITC Ltd"},
	{Symbol: "WIPRO", Name: "Wipro Ltd"},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel Ltd"},
	{Symbol: "ICICIBANK", Name: "ICICI Bank Ltd"},
	{Symbol: "SBIN", Name: "State Bank of India"},
	{Symbol: "AXISBANK", Name: "Axis Bank Ltd"},
}

// Service synthesizes quotes on demand. Fresh quotes are cached briefly and
// lookups are rate limited, matching the constraints a real market-data API
// would impose.
type Service struct {
	cache   *expirable.LRU[string, *Quote]
	limiter *rate.Limiter

	boardLk sync.RWMutex
	board   map[string]*Quote

	log *slog.Logger
}

func NewService() *Service {
	return &Service{
		cache:   expirable.NewLRU[string, *Quote](128, nil, 15*time.Second),
		limiter: rate.NewLimiter(rate.Limit(50), 10),
		board:   make(map[string]*Quote),
		log:     slog.Default().With("system", "quotes"),
	}
}

// MarketQuote returns the current quote for a symbol. Cached results are
// served without consuming rate budget; a cancelled or expired context aborts
// the wait.
func (s *Service) MarketQuote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(symbol)

	if q, ok := s.cache.Get(symbol); ok {
		return q, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("quote lookup for %s: %w", symbol, err)
	}

	q := &Quote{
		Symbol:        symbol,
		LastPrice:     gofakeit.Float64Range(1000, 2000),
		Change:        gofakeit.Float64Range(-5, 5),
		ChangePercent: gofakeit.Float64Range(-2.5, 2.5),
		Volume:        int64(gofakeit.Number(0, 1_000_000)),
		LastUpdated:   time.Now(),
	}

	s.cache.Add(symbol, q)
	s.updateBoard(q)
	s.log.Debug("synthesized quote", "symbol", symbol, "price", q.LastPrice)

	return q, nil
}

// SearchInstruments matches the query case-insensitively against instrument
// symbols and names.
func (s *Service) SearchInstruments(query string) []Instrument {
	q := strings.ToLower(query)

	var out []Instrument
	for _, in := range Instruments {
		if strings.Contains(strings.ToLower(in.Symbol), q) ||
			strings.Contains(strings.ToLower(in.Name), q) {
			out = append(out, in)
		}
	}
	return out
}

// LatestQuote returns the most recent quote seen for a symbol, if any.
func (s *Service) LatestQuote(symbol string) (*Quote, bool) {
	s.boardLk.RLock()
	defer s.boardLk.RUnlock()

	q, ok := s.board[strings.ToUpper(symbol)]
	if !ok {
		return nil, false
	}
	cp := *q
	return &cp, true
}

// AllQuotes returns the latest-quote board.
func (s *Service) AllQuotes() []*Quote {
	s.boardLk.RLock()
	defer s.boardLk.RUnlock()

	out := make([]*Quote, 0, len(s.board))
	for _, q := range s.board {
		cp := *q
		out = append(out, &cp)
	}
	return out
}

func (s *Service) updateBoard(q *Quote) {
	s.boardLk.Lock()
	defer s.boardLk.Unlock()

	cp := *q
	s.board[q.Symbol] = &cp
}
