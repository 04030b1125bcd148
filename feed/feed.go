// Package feed assembles viewer-facing post sequences from the store and the
// follow graph. It is pure read-side: nothing is cached, every call recomputes
// from the bounded store.
package feed

import (
	"log/slog"
	"sort"

	"github.com/tickersim/tickersim/models"
	"github.com/tickersim/tickersim/store"
)

// popularWindow and botWindow bound how far back the ranked feeds look.
const (
	popularWindow = 200
	botWindow     = 100
)

type FeedGenerator struct {
	store *store.Store

	log *slog.Logger
}

func NewFeedGenerator(s *store.Store, log *slog.Logger) *FeedGenerator {
	if log == nil {
		log = slog.Default().With("system", "feedgen")
	}
	return &FeedGenerator{store: s, log: log}
}

// Timeline returns the viewer's follow-filtered feed. A viewer following
// nobody gets the unfiltered global feed: new viewers should see content,
// not an empty page. Filtering happens before pagination, so offset/limit
// address positions in the filtered sequence.
func (fg *FeedGenerator) Timeline(viewerID string, limit, offset int) []*models.Post {
	following := fg.store.Following(viewerID)
	if len(following) == 0 {
		return fg.store.Posts(limit, offset)
	}

	followed := make(map[string]struct{}, len(following))
	for _, id := range following {
		followed[id] = struct{}{}
	}

	// scan the whole retained sequence; it is capped, so this stays cheap
	all := fg.store.Posts(0, 0)
	filtered := make([]*models.Post, 0, len(all))
	for _, p := range all {
		if _, ok := followed[p.AuthorID]; ok {
			filtered = append(filtered, p)
		}
	}

	return page(filtered, limit, offset)
}

// Discover is the unfiltered global feed.
func (fg *FeedGenerator) Discover(limit, offset int) []*models.Post {
	return fg.store.Posts(limit, offset)
}

// Popular ranks the most recent posts by engagement (likes + retweets).
func (fg *FeedGenerator) Popular(limit int) []*models.Post {
	recent := fg.store.Posts(popularWindow, 0)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Likes+recent[i].Retweets > recent[j].Likes+recent[j].Retweets
	})
	return page(recent, limit, 0)
}

// LatestBotPosts returns recent bot-authored posts.
func (fg *FeedGenerator) LatestBotPosts(limit int) []*models.Post {
	recent := fg.store.Posts(botWindow, 0)
	out := make([]*models.Post, 0, limit)
	for _, p := range recent {
		if !p.IsBot {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// TrendingStock is a symbol ranked by how often recent posts mention it.
type TrendingStock struct {
	Symbol   string `json:"symbol"`
	Mentions int    `json:"mentions"`
	Trend    string `json:"trend"`
}

// TrendingStocks counts symbol mentions across the most recent posts and
// returns the top symbols, hottest first.
func (fg *FeedGenerator) TrendingStocks(limit int) []TrendingStock {
	mentions := make(map[string]int)
	for _, p := range fg.store.Posts(botWindow, 0) {
		for _, sym := range p.Stocks {
			mentions[sym]++
		}
	}

	out := make([]TrendingStock, 0, len(mentions))
	for sym, n := range mentions {
		trend := "warm"
		if n > 5 {
			trend = "hot"
		}
		out = append(out, TrendingStock{Symbol: sym, Mentions: n, Trend: trend})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].Symbol < out[j].Symbol
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func page(posts []*models.Post, limit, offset int) []*models.Post {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) {
		return []*models.Post{}
	}
	end := len(posts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return posts[offset:end]
}
