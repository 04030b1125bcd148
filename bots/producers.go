package bots

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/tickersim/tickersim/quotes"
)

// Content is what a strategy yields for one run: post text plus the symbols
// it mentions. A nil Content means "nothing to post this tick".
type Content struct {
	Text   string
	Stocks []string
}

// ContentProducer synthesizes post content from simulated inputs. Strategies
// are selected once at seed time and held on the producer record; the
// scheduler never dispatches on type strings.
type ContentProducer interface {
	Produce(ctx context.Context) (*Content, error)
}

func pickSymbol(symbols []string) string {
	return symbols[gofakeit.Number(0, len(symbols)-1)]
}

func signed(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.2f", pct)
	}
	return fmt.Sprintf("%.2f", pct)
}

type marketOverviewProducer struct{}

func (marketOverviewProducer) Produce(ctx context.Context) (*Content, error) {
	nifty := 21500 + gofakeit.Float64Range(-100, 100)
	niftyChange := gofakeit.Float64Range(-1, 1)
	sensex := 72000 + gofakeit.Float64Range(-250, 250)
	sensexChange := gofakeit.Float64Range(-1, 1)

	var mood string
	switch {
	case niftyChange > 0 && sensexChange > 0:
		mood = "🟢 Bulls in control!"
	case niftyChange < 0 && sensexChange < 0:
		mood = "🔴 Bears dominating!"
	default:
		mood = "🟡 Mixed signals in the market"
	}

	text := fmt.Sprintf("📊 Market Update:\n\nNIFTY 50: %.2f (%s%%)\nSENSEX: %.2f (%s%%)\n\n%s",
		nifty, signed(niftyChange), sensex, signed(sensexChange), mood)

	return &Content{Text: text, Stocks: []string{"NIFTY", "SENSEX"}}, nil
}

type topMoversProducer struct{}

func (topMoversProducer) Produce(ctx context.Context) (*Content, error) {
	gainers := []string{"RELIANCE", "TCS", "HDFCBANK"}
	losers := []string{"INFY", "WIPRO"}

	var b strings.Builder
	b.WriteString("🚀 TOP GAINERS:\n")
	for _, sym := range gainers {
		fmt.Fprintf(&b, "%s: +%.2f%%\n", sym, gofakeit.Float64Range(1, 5))
	}
	b.WriteString("\n📉 TOP LOSERS:\n")
	for _, sym := range losers {
		fmt.Fprintf(&b, "%s: -%.2f%%\n", sym, gofakeit.Float64Range(1, 4))
	}

	stocks := append(append([]string{}, gainers...), losers...)
	return &Content{Text: b.String(), Stocks: stocks}, nil
}

type newsProducer struct{}

var headlines = []string{
	"RBI keeps repo rate unchanged at 6.5% in latest monetary policy review",
	"Foreign investors pump ₹15,000 crore into Indian equities this month",
	"Auto sector sees strong growth with 15% YoY increase in sales",
	"IT companies face headwinds as global recession fears loom",
	"Government announces infrastructure boost with ₹2 lakh crore investment",
}

func (newsProducer) Produce(ctx context.Context) (*Content, error) {
	headline := gofakeit.RandomString(headlines)
	text := fmt.Sprintf("📰 Breaking: %s\n\n#StockMarket #IndianMarkets", headline)
	return &Content{Text: text}, nil
}

type technicalProducer struct {
	quotes *quotes.Service
}

var chartPatterns = []string{
	"forming a bullish flag pattern",
	"breaking above 50-day moving average",
	"showing strong support at current levels",
	"RSI indicating oversold conditions",
	"MACD showing bullish crossover",
}

func (p technicalProducer) Produce(ctx context.Context) (*Content, error) {
	symbol := pickSymbol([]string{"RELIANCE", "TCS", "HDFCBANK", "INFY", "ITC"})
	q, err := p.quotes.MarketQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("📈 Technical Alert: %s @ ₹%.2f\n\n%s. Watch for potential breakout!\n\n⚡ Key Levels:\nSupport: ₹%.2f\nResistance: ₹%.2f",
		symbol, q.LastPrice, gofakeit.RandomString(chartPatterns), q.LastPrice*0.97, q.LastPrice*1.03)

	return &Content{Text: text, Stocks: []string{symbol}}, nil
}

type sentimentProducer struct{}

func (sentimentProducer) Produce(ctx context.Context) (*Content, error) {
	index := gofakeit.Number(0, 99)

	var mood, emoji string
	switch {
	case index < 20:
		mood, emoji = "Extreme Fear", "😱"
	case index < 40:
		mood, emoji = "Fear", "😨"
	case index < 60:
		mood, emoji = "Neutral", "😐"
	case index < 80:
		mood, emoji = "Greed", "😊"
	default:
		mood, emoji = "Extreme Greed", "🤑"
	}

	var tip string
	switch {
	case index < 40:
		tip = "💡 Tip: Could be a good time to accumulate quality stocks"
	case index > 70:
		tip = "⚠️ Caution: Markets might be overheated"
	default:
		tip = "📊 Markets in balanced state"
	}

	text := fmt.Sprintf("🎭 Market Sentiment Analysis:\n\nFear & Greed Index: %d/100\nCurrent Mood: %s %s\n\n%s",
		index, mood, emoji, tip)

	return &Content{Text: text}, nil
}

type volumeProducer struct {
	quotes *quotes.Service
}

func (p volumeProducer) Produce(ctx context.Context) (*Content, error) {
	symbol := pickSymbol([]string{"RELIANCE", "TCS", "HDFCBANK", "INFY", "BHARTIARTL", "ICICIBANK"})
	if _, err := p.quotes.MarketQuote(ctx, symbol); err != nil {
		return nil, err
	}
	increase := gofakeit.Number(100, 300)

	text := fmt.Sprintf("📢 Volume Alert!\n\n%s showing %d%% increase in volume compared to 10-day average.\n\nThis could indicate:\n• Institutional buying/selling\n• Upcoming news/events\n• Trend reversal\n\nKeep on watchlist! 👀",
		symbol, increase)

	return &Content{Text: text, Stocks: []string{symbol}}, nil
}

type breakoutProducer struct {
	quotes *quotes.Service
}

func (p breakoutProducer) Produce(ctx context.Context) (*Content, error) {
	symbol := pickSymbol([]string{"TATASTEEL", "SBIN", "AXISBANK", "MARUTI", "POWERGRID"})
	q, err := p.quotes.MarketQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("💥 BREAKOUT ALERT!\n\n%s breaks above ₹%.2f resistance with strong volume!\n\nCurrent Price: ₹%.2f\nNext Target: ₹%.2f\nStop Loss: ₹%.2f\n\n🎯 Risk-Reward looks favorable!",
		symbol, q.LastPrice*0.95, q.LastPrice, q.LastPrice*1.05, q.LastPrice*0.95)

	return &Content{Text: text, Stocks: []string{symbol}}, nil
}

type dividendProducer struct{}

type dividendAnnouncement struct {
	company  string
	dividend string
	record   string
}

var dividendAnnouncements = []dividendAnnouncement{
	{"ITC", "6.75", "5 days"},
	{"COALINDIA", "15.00", "7 days"},
	{"POWERGRID", "4.50", "10 days"},
	{"ONGC", "3.25", "3 days"},
}

func (dividendProducer) Produce(ctx context.Context) (*Content, error) {
	a := dividendAnnouncements[gofakeit.Number(0, len(dividendAnnouncements)-1)]

	text := fmt.Sprintf("💰 Dividend Alert!\n\n%s announces dividend of ₹%s per share.\n\n📅 Record Date: %s from now\n\nDividend Yield: ~%.2f%%\n\n#Dividends #PassiveIncome",
		a.company, a.dividend, a.record, gofakeit.Float64Range(2, 4))

	return &Content{Text: text}, nil
}
