package bots

import (
	"time"

	"github.com/tickersim/tickersim/models"
	"github.com/tickersim/tickersim/quotes"
)

// Producer pairs a bot account with its posting interval and its content
// strategy. Both are fixed at seed time.
type Producer struct {
	models.Bot

	Interval time.Duration
	Strategy ContentProducer
}

// Catalog seeds the fixed bot roster. Re-run on every process start, so the
// roster is deterministic across restarts even though posts are not.
func Catalog(q *quotes.Service) []*Producer {
	return []*Producer{
		{
			Bot: models.Bot{
				ID: "bot_1", Name: "Market Pulse Bot", Handle: "@market_pulse", Avatar: "📊",
				Description: "Real-time market updates and indices movements",
				Type:        "market_overview",
			},
			Interval: time.Minute,
			Strategy: marketOverviewProducer{},
		},
		{
			Bot: models.Bot{
				ID: "bot_2", Name: "Top Movers Bot", Handle: "@top_movers", Avatar: "🚀",
				Description: "Tracks top gainers and losers of the day",
				Type:        "top_movers",
			},
			Interval: 2 * time.Minute,
			Strategy: topMoversProducer{},
		},
		{
			Bot: models.Bot{
				ID: "bot_3", Name: "News Aggregator", Handle: "@stock_news", Avatar: "📰",
				Description: "Latest news affecting Indian stock market",
				Type:        "news",
			},
			Interval: 3 * time.Minute,
			Strategy: newsProducer{},
		},
		{
			Bot: models.Bot{
				ID: "bot_4", Name: "Technical Analysis Bot", Handle: "@tech_analysis", Avatar: "📈",
				Description: "Technical indicators and chart patterns",
				Type:        "technical",
			},
			Interval: 5 * time.Minute,
			Strategy: technicalProducer{quotes: q},
		},
		{
			Bot: models.Bot{
				ID: "bot_5", Name: "Sentiment Analyzer", Handle: "@market_mood", Avatar: "🎭",
				Description: "Market sentiment and fear/greed index",
				Type:        "sentiment",
			},
			Interval: 5 * time.Minute,
			Strategy: sentimentProducer{},
		},
		{
			Bot: models.Bot{
				ID: "bot_6", Name: "Volume Alert Bot", Handle: "@volume_tracker", Avatar: "📢",
				Description: "Unusual volume activity alerts",
				Type:        "volume",
			},
			Interval: 2 * time.Minute,
			Strategy: volumeProducer{quotes: q},
		},
		{
			Bot: models.Bot{
				ID: "bot_7", Name: "Breakout Scanner", Handle: "@breakouts", Avatar: "💥",
				Description: "Stocks breaking key resistance/support levels",
				Type:        "breakout",
			},
			Interval: 3 * time.Minute,
			Strategy: breakoutProducer{quotes: q},
		},
		{
			Bot: models.Bot{
				ID: "bot_8", Name: "Dividend Tracker", Handle: "@dividend_alerts", Avatar: "💰",
				Description: "Upcoming dividends and bonus announcements",
				Type:        "dividend",
			},
			Interval: 10 * time.Minute,
			Strategy: dividendProducer{},
		},
	}
}

// Roster extracts the bot records for seeding the store.
func Roster(producers []*Producer) []*models.Bot {
	out := make([]*models.Bot, 0, len(producers))
	for _, p := range producers {
		b := p.Bot
		out = append(out, &b)
	}
	return out
}
