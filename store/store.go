// Package store holds all feed state in process memory: the bounded
// newest-first post sequence, the seeded bot roster, and the follow graph.
// Nothing here survives a restart.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tickersim/tickersim/models"
)

// DefaultMaxPosts is the retention cap: once the store exceeds it, the oldest
// posts are truncated in bulk.
const DefaultMaxPosts = 1000

var ErrEmptyContent = fmt.Errorf("post content must not be empty")

// Store is the single shared mutable structure behind the feed. All mutating
// operations take the write lock; reads take the read lock and hand out
// copies so callers never observe a post mid-mutation.
type Store struct {
	lk sync.RWMutex

	posts   []*models.Post
	likedBy map[string]map[string]struct{}

	bots     []*models.Bot
	botIndex map[string]*models.Bot
	follows  map[string]map[string]struct{}

	nextPostID int64
	maxPosts   int
}

func NewStore(maxPosts int) *Store {
	if maxPosts <= 0 {
		maxPosts = DefaultMaxPosts
	}
	return &Store{
		likedBy:    make(map[string]map[string]struct{}),
		botIndex:   make(map[string]*models.Bot),
		follows:    make(map[string]map[string]struct{}),
		nextPostID: 1,
		maxPosts:   maxPosts,
	}
}

// SeedBots installs the bot roster. Called once from the composition root
// before the store is shared; later calls replace the roster wholesale.
func (s *Store) SeedBots(bots []*models.Bot) {
	s.lk.Lock()
	defer s.lk.Unlock()

	s.bots = bots
	s.botIndex = make(map[string]*models.Bot, len(bots))
	for _, b := range bots {
		s.botIndex[b.ID] = b
	}
}

// AddPost assigns an identity, timestamp and zero counters to the draft and
// prepends it to the sequence. Posts beyond the retention cap are truncated
// from the tail.
func (s *Store) AddPost(draft models.Draft) (*models.Post, error) {
	if strings.TrimSpace(draft.Content) == "" {
		return nil, ErrEmptyContent
	}

	s.lk.Lock()
	defer s.lk.Unlock()

	p := &models.Post{
		ID:           fmt.Sprintf("tweet_%d", s.nextPostID),
		Content:      draft.Content,
		AuthorID:     draft.AuthorID,
		AuthorName:   draft.AuthorName,
		AuthorHandle: draft.AuthorHandle,
		AuthorAvatar: draft.AuthorAvatar,
		Stocks:       append([]string(nil), draft.Stocks...),
		IsBot:        draft.IsBot,
		Timestamp:    time.Now(),
	}
	s.nextPostID++

	s.posts = append([]*models.Post{p}, s.posts...)
	if len(s.posts) > s.maxPosts {
		evicted := len(s.posts) - s.maxPosts
		for _, old := range s.posts[s.maxPosts:] {
			delete(s.likedBy, old.ID)
		}
		s.posts = s.posts[:s.maxPosts]
		postsEvicted.Add(float64(evicted))
	}

	if draft.IsBot {
		postsAppended.WithLabelValues("bot").Inc()
	} else {
		postsAppended.WithLabelValues("human").Inc()
	}

	return copyPost(p), nil
}

// Posts returns a newest-first page. An offset past the end yields an empty
// slice.
func (s *Store) Posts(limit, offset int) []*models.Post {
	s.lk.RLock()
	defer s.lk.RUnlock()
	return pagePosts(s.posts, limit, offset)
}

func (s *Store) PostsByAuthor(authorID string, limit int) []*models.Post {
	s.lk.RLock()
	defer s.lk.RUnlock()

	out := make([]*models.Post, 0, limit)
	for _, p := range s.posts {
		if p.AuthorID != authorID {
			continue
		}
		out = append(out, copyPost(p))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// PostsByTag matches the tag case-insensitively against each post's symbols.
func (s *Store) PostsByTag(tag string, limit int) []*models.Post {
	s.lk.RLock()
	defer s.lk.RUnlock()

	out := make([]*models.Post, 0, limit)
	for _, p := range s.posts {
		if !hasTag(p, tag) {
			continue
		}
		out = append(out, copyPost(p))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Search returns every post whose content or tags contain the query,
// case-insensitively. Unbounded; callers paginate if they care.
func (s *Store) Search(query string) []*models.Post {
	q := strings.ToLower(query)

	s.lk.RLock()
	defer s.lk.RUnlock()

	var out []*models.Post
	for _, p := range s.posts {
		if strings.Contains(strings.ToLower(p.Content), q) {
			out = append(out, copyPost(p))
			continue
		}
		for _, sym := range p.Stocks {
			if strings.Contains(strings.ToLower(sym), q) {
				out = append(out, copyPost(p))
				break
			}
		}
	}
	return out
}

// Like records the viewer as a like-owner of the post and bumps the counter.
// Idempotent per (post, viewer); unknown posts are a no-op.
func (s *Store) Like(postID, viewerID string) {
	s.lk.Lock()
	defer s.lk.Unlock()

	p := s.findPost(postID)
	if p == nil {
		return
	}
	owners := s.likedBy[postID]
	if owners == nil {
		owners = make(map[string]struct{})
		s.likedBy[postID] = owners
	}
	if _, ok := owners[viewerID]; ok {
		return
	}
	owners[viewerID] = struct{}{}
	p.Likes++
	likesRecorded.Inc()
}

// Unlike is the inverse of Like: it only decrements if the viewer actually
// holds a like, and the counter never goes below zero.
func (s *Store) Unlike(postID, viewerID string) {
	s.lk.Lock()
	defer s.lk.Unlock()

	p := s.findPost(postID)
	if p == nil {
		return
	}
	owners := s.likedBy[postID]
	if owners == nil {
		return
	}
	if _, ok := owners[viewerID]; !ok {
		return
	}
	delete(owners, viewerID)
	if p.Likes > 0 {
		p.Likes--
	}
}

// Post returns a single post by id.
func (s *Store) Post(postID string) (*models.Post, bool) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	p := s.findPost(postID)
	if p == nil {
		return nil, false
	}
	return copyPost(p), true
}

func (s *Store) Len() int {
	s.lk.RLock()
	defer s.lk.RUnlock()
	return len(s.posts)
}

// Bots returns the seeded roster, newest follower counts included.
func (s *Store) Bots() []*models.Bot {
	s.lk.RLock()
	defer s.lk.RUnlock()

	out := make([]*models.Bot, 0, len(s.bots))
	for _, b := range s.bots {
		cp := *b
		out = append(out, &cp)
	}
	return out
}

func (s *Store) Bot(botID string) (*models.Bot, bool) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	b, ok := s.botIndex[botID]
	if !ok {
		return nil, false
	}
	cp := *b
	return &cp, true
}

// findPost must be called with the lock held.
func (s *Store) findPost(postID string) *models.Post {
	for _, p := range s.posts {
		if p.ID == postID {
			return p
		}
	}
	return nil
}

func hasTag(p *models.Post, tag string) bool {
	for _, sym := range p.Stocks {
		if strings.EqualFold(sym, tag) {
			return true
		}
	}
	return false
}

func pagePosts(posts []*models.Post, limit, offset int) []*models.Post {
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
	out := make([]*models.Post, 0, end-offset)
	for _, p := range posts[offset:end] {
		out = append(out, copyPost(p))
	}
	return out
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	cp.Stocks = append([]string(nil), p.Stocks...)
	return &cp
}
