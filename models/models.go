package models

import "time"

// MaxPostLength is the maximum content length accepted for a post, in
// characters. Enforced at the API boundary for human posts; bot-produced
// content is trusted.
const MaxPostLength = 280

// Post is a single feed entry. Identity, author fields, content, tags and
// timestamp never change after the store assigns them; only the engagement
// counters mutate.
type Post struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorHandle string    `json:"authorHandle"`
	AuthorAvatar string    `json:"authorAvatar"`
	Stocks       []string  `json:"stocks"`
	IsBot        bool      `json:"isBot"`
	Timestamp    time.Time `json:"timestamp"`
	Likes        int64     `json:"likes"`
	Retweets     int64     `json:"retweets"`
	Replies      int64     `json:"replies"`
}

// Draft is an unpersisted candidate post, before the store assigns identity,
// timestamp and counters.
type Draft struct {
	Content      string
	AuthorID     string
	AuthorName   string
	AuthorHandle string
	AuthorAvatar string
	Stocks       []string
	IsBot        bool
}

// Bot describes an automated producer account. The roster is seeded at
// process start and is immutable for the process lifetime; only the follower
// count changes.
type Bot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Handle      string `json:"handle"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Followers   int64  `json:"followers"`
}
