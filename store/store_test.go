package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickersim/tickersim/models"
)

func testDraft(author, content string, tags ...string) models.Draft {
	return models.Draft{
		Content:      content,
		AuthorID:     author,
		AuthorName:   "Test User",
		AuthorHandle: "@test_user",
		AuthorAvatar: "👤",
		Stocks:       tags,
	}
}

func TestAddPostOrderingAndUniqueIDs(t *testing.T) {
	assert := assert.New(t)
	s := NewStore(0)

	for i := 0; i < 25; i++ {
		_, err := s.AddPost(testDraft("u1", fmt.Sprintf("post %d", i)))
		require.NoError(t, err)
	}

	posts := s.Posts(100, 0)
	require.Len(t, posts, 25)

	seen := make(map[string]bool)
	for i, p := range posts {
		assert.False(seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		// newest-first: the head was appended last
		assert.Equal(fmt.Sprintf("post %d", 24-i), p.Content)
	}
}

func TestAddPostRejectsEmptyContent(t *testing.T) {
	s := NewStore(0)

	_, err := s.AddPost(testDraft("u1", "   "))
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Equal(t, 0, s.Len())
}

func TestRetentionCap(t *testing.T) {
	assert := assert.New(t)
	s := NewStore(10)

	for i := 0; i < 35; i++ {
		_, err := s.AddPost(testDraft("u1", fmt.Sprintf("post %d", i)))
		require.NoError(t, err)
	}

	assert.Equal(10, s.Len())

	posts := s.Posts(100, 0)
	require.Len(t, posts, 10)
	assert.Equal("post 34", posts[0].Content)
	assert.Equal("post 25", posts[9].Content)
}

func TestPagination(t *testing.T) {
	s := NewStore(0)
	for i := 0; i < 10; i++ {
		_, err := s.AddPost(testDraft("u1", fmt.Sprintf("post %d", i)))
		require.NoError(t, err)
	}

	testCases := []struct {
		limit    int
		offset   int
		expected int
	}{
		{5, 0, 5},
		{5, 5, 5},
		{5, 8, 2},
		{5, 10, 0},
		{5, 500, 0},
		{100, 0, 10},
	}

	for _, c := range testCases {
		assert.Len(t, s.Posts(c.limit, c.offset), c.expected, "limit=%d offset=%d", c.limit, c.offset)
	}
}

func TestPostsByTagCaseInsensitive(t *testing.T) {
	s := NewStore(0)
	_, err := s.AddPost(testDraft("u1", "Buying $TCS", "TCS"))
	require.NoError(t, err)
	_, err = s.AddPost(testDraft("u1", "something else", "INFY"))
	require.NoError(t, err)

	for _, tag := range []string{"TCS", "tcs", "Tcs"} {
		posts := s.PostsByTag(tag, 50)
		require.Len(t, posts, 1, "tag %q", tag)
		assert.Equal(t, "Buying $TCS", posts[0].Content)
	}
}

func TestSearchMatchesContentAndTags(t *testing.T) {
	s := NewStore(0)
	_, err := s.AddPost(testDraft("u1", "RELIANCE hits a new high", "RELIANCE"))
	require.NoError(t, err)
	_, err = s.AddPost(testDraft("u1", "quiet day in the market", "TCS"))
	require.NoError(t, err)
	_, err = s.AddPost(testDraft("u1", "nothing to see", "WIPRO"))
	require.NoError(t, err)

	assert.Len(t, s.Search("reliance"), 1)
	assert.Len(t, s.Search("tcs"), 1)
	assert.Len(t, s.Search("MARKET"), 1)
	assert.Len(t, s.Search("zzz"), 0)
}

func TestLikeIdempotent(t *testing.T) {
	assert := assert.New(t)
	s := NewStore(0)
	p, err := s.AddPost(testDraft("u1", "like me"))
	require.NoError(t, err)

	s.Like(p.ID, "v1")
	s.Like(p.ID, "v1")

	got, ok := s.Post(p.ID)
	require.True(t, ok)
	assert.Equal(int64(1), got.Likes)

	s.Like(p.ID, "v2")
	got, _ = s.Post(p.ID)
	assert.Equal(int64(2), got.Likes)
}

func TestUnlikeFlooredAtZero(t *testing.T) {
	assert := assert.New(t)
	s := NewStore(0)
	p, err := s.AddPost(testDraft("u1", "unlike me"))
	require.NoError(t, err)

	// unlike without a prior like is a no-op
	s.Unlike(p.ID, "v1")
	got, _ := s.Post(p.ID)
	assert.Equal(int64(0), got.Likes)

	s.Like(p.ID, "v1")
	s.Unlike(p.ID, "v1")
	s.Unlike(p.ID, "v1")
	got, _ = s.Post(p.ID)
	assert.Equal(int64(0), got.Likes)
}

func TestLikeUnknownPostIsNoop(t *testing.T) {
	s := NewStore(0)
	s.Like("tweet_999", "v1")
	s.Unlike("tweet_999", "v1")
	assert.Equal(t, 0, s.Len())
}

func TestReadsReturnCopies(t *testing.T) {
	s := NewStore(0)
	p, err := s.AddPost(testDraft("u1", "immutable", "TCS"))
	require.NoError(t, err)

	p.Content = "scribbled"
	p.Stocks[0] = "HACKED"

	got, ok := s.Post(p.ID)
	require.True(t, ok)
	assert.Equal(t, "immutable", got.Content)
	assert.Equal(t, []string{"TCS"}, got.Stocks)
}
