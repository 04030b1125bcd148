package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickersim/tickersim/models"
)

func seededStore() *Store {
	s := NewStore(0)
	s.SeedBots([]*models.Bot{
		{ID: "bot_1", Name: "Market Pulse Bot", Handle: "@market_pulse"},
		{ID: "bot_2", Name: "Top Movers Bot", Handle: "@top_movers"},
	})
	return s
}

func TestFollowIdempotent(t *testing.T) {
	assert := assert.New(t)
	s := seededStore()

	s.Follow("v1", "bot_1")
	s.Follow("v1", "bot_1")

	assert.Equal([]string{"bot_1"}, s.Following("v1"))

	b, ok := s.Bot("bot_1")
	require.True(t, ok)
	assert.Equal(int64(1), b.Followers)
}

func TestUnfollowFloorsFollowerCount(t *testing.T) {
	assert := assert.New(t)
	s := seededStore()

	// unfollow with no prior follow: no-op
	s.Unfollow("v1", "bot_1")
	b, _ := s.Bot("bot_1")
	assert.Equal(int64(0), b.Followers)

	s.Follow("v1", "bot_1")
	s.Unfollow("v1", "bot_1")
	s.Unfollow("v1", "bot_1")

	b, _ = s.Bot("bot_1")
	assert.Equal(int64(0), b.Followers)
	assert.Empty(s.Following("v1"))
}

func TestFollowUnknownBotIsTolerated(t *testing.T) {
	s := seededStore()

	// fail-soft: the relation is kept even though no bot record exists
	s.Follow("v1", "bot_404")
	assert.Equal(t, []string{"bot_404"}, s.Following("v1"))
}

func TestFollowingEmptyForUnknownViewer(t *testing.T) {
	s := seededStore()
	assert.Empty(t, s.Following("nobody"))
}
