package server

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/tickersim/tickersim/models"
)

const defaultPageSize = 50

func intQuery(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (srv *Server) handleGetTweets(c echo.Context) error {
	limit := intQuery(c, "limit", defaultPageSize)
	offset := intQuery(c, "offset", 0)

	return c.JSON(http.StatusOK, map[string]any{
		"tweets": srv.store.Posts(limit, offset),
		"total":  srv.store.Len(),
	})
}

type createTweetRequest struct {
	Content  string   `json:"content"`
	UserID   string   `json:"userId"`
	UserName string   `json:"userName"`
	Stocks   []string `json:"stocks"`
}

func (srv *Server) handleCreateTweet(c echo.Context) error {
	var req createTweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Tweet content is required")
	}
	if utf8.RuneCountInString(req.Content) > models.MaxPostLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Tweet must be 280 characters or less")
	}

	userName := orDefault(req.UserName, "Anonymous User")
	handle := "@" + strings.ReplaceAll(strings.ToLower(userName), " ", "_")

	post, err := srv.store.AddPost(models.Draft{
		Content:      req.Content,
		AuthorID:     orDefault(req.UserID, "user_default"),
		AuthorName:   userName,
		AuthorHandle: handle,
		AuthorAvatar: "👤",
		Stocks:       req.Stocks,
		IsBot:        false,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := srv.events.Publish(post); err != nil {
		srv.log.Warn("failed to broadcast new tweet", "tweet", post.ID, "err", err)
	}

	return c.JSON(http.StatusCreated, post)
}

func (srv *Server) handleSearchTweets(c echo.Context) error {
	query := c.QueryParam("q")
	if strings.TrimSpace(query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"tweets": srv.store.Search(query),
		"query":  query,
	})
}

func (srv *Server) handleTweetsByStock(c echo.Context) error {
	symbol := strings.ToUpper(c.Param("symbol"))
	limit := intQuery(c, "limit", defaultPageSize)

	return c.JSON(http.StatusOK, map[string]any{
		"tweets": srv.store.PostsByTag(symbol, limit),
		"symbol": symbol,
	})
}

func (srv *Server) handleTweetsByBot(c echo.Context) error {
	botID := c.Param("botId")
	limit := intQuery(c, "limit", defaultPageSize)

	bot, ok := srv.store.Bot(botID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Bot not found")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"tweets": srv.store.PostsByAuthor(botID, limit),
		"bot":    bot,
	})
}

type likeRequest struct {
	UserID string `json:"userId"`
}

func (srv *Server) handleLikeTweet(c echo.Context) error {
	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	srv.store.Like(c.Param("tweetId"), orDefault(req.UserID, "user_default"))
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (srv *Server) handleUnlikeTweet(c echo.Context) error {
	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	srv.store.Unlike(c.Param("tweetId"), orDefault(req.UserID, "user_default"))
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (srv *Server) handleGetFeed(c echo.Context) error {
	userID := orDefault(c.QueryParam("userId"), "user_default")
	limit := intQuery(c, "limit", defaultPageSize)
	offset := intQuery(c, "offset", 0)

	posts := srv.feedgen.Timeline(userID, limit, offset)

	return c.JSON(http.StatusOK, map[string]any{
		"feed":         posts,
		"followedBots": srv.store.Following(userID),
		"hasMore":      len(posts) == limit,
	})
}

func (srv *Server) handleDiscoverFeed(c echo.Context) error {
	limit := intQuery(c, "limit", defaultPageSize)
	offset := intQuery(c, "offset", 0)

	posts := srv.feedgen.Discover(limit, offset)

	return c.JSON(http.StatusOK, map[string]any{
		"tweets":  posts,
		"hasMore": len(posts) == limit,
	})
}

func (srv *Server) handlePopularFeed(c echo.Context) error {
	limit := intQuery(c, "limit", defaultPageSize)

	return c.JSON(http.StatusOK, map[string]any{
		"tweets": srv.feedgen.Popular(limit),
	})
}

func (srv *Server) handleLatestBotTweets(c echo.Context) error {
	limit := intQuery(c, "limit", 20)

	return c.JSON(http.StatusOK, map[string]any{
		"tweets": srv.feedgen.LatestBotPosts(limit),
	})
}

func (srv *Server) handleGetBots(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"bots": srv.store.Bots(),
	})
}

func (srv *Server) handleGetBot(c echo.Context) error {
	bot, ok := srv.store.Bot(c.Param("botId"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Bot not found")
	}
	return c.JSON(http.StatusOK, bot)
}

type followRequest struct {
	UserID string `json:"userId"`
}

func (srv *Server) handleFollowBot(c echo.Context) error {
	botID := c.Param("botId")

	var req followRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if _, ok := srv.store.Bot(botID); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Bot not found")
	}

	srv.store.Follow(orDefault(req.UserID, "user_default"), botID)

	bot, _ := srv.store.Bot(botID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "bot": bot})
}

func (srv *Server) handleUnfollowBot(c echo.Context) error {
	botID := c.Param("botId")

	var req followRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if _, ok := srv.store.Bot(botID); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Bot not found")
	}

	srv.store.Unfollow(orDefault(req.UserID, "user_default"), botID)

	bot, _ := srv.store.Bot(botID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "bot": bot})
}

func (srv *Server) handleUserFollowing(c echo.Context) error {
	var followed []*models.Bot
	for _, id := range srv.store.Following(c.Param("userId")) {
		if bot, ok := srv.store.Bot(id); ok {
			followed = append(followed, bot)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"followedBots": followed,
	})
}

func (srv *Server) handleSearchStocks(c echo.Context) error {
	query := c.QueryParam("q")
	if strings.TrimSpace(query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stocks": srv.quotes.SearchInstruments(query),
	})
}

func (srv *Server) handleStockQuote(c echo.Context) error {
	quote, err := srv.quotes.MarketQuote(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch stock quote")
	}
	return c.JSON(http.StatusOK, quote)
}

func (srv *Server) handleTrackedStocks(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"stocks": srv.quotes.AllQuotes(),
	})
}

func (srv *Server) handleTrendingStocks(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"trending": srv.feedgen.TrendingStocks(10),
	})
}
