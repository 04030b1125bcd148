// Package server is the thin HTTP collaborator over the feed core: JSON
// routes mirroring the public API plus the realtime websocket stream. All
// validation of human input happens here, before drafts reach the store.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"

	"github.com/tickersim/tickersim/events"
	"github.com/tickersim/tickersim/feed"
	"github.com/tickersim/tickersim/quotes"
	"github.com/tickersim/tickersim/store"
)

type Config struct {
	Logger *slog.Logger
	Bind   string
}

type Server struct {
	store   *store.Store
	feedgen *feed.FeedGenerator
	events  *events.EventManager
	quotes  *quotes.Service

	echo  *echo.Echo
	httpd *http.Server

	consumersLk    sync.RWMutex
	consumers      map[uint64]*SocketConsumer
	nextConsumerID uint64

	log *slog.Logger
}

func NewServer(st *store.Store, fg *feed.FeedGenerator, em *events.EventManager, qs *quotes.Service, config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	e := echo.New()
	e.HideBanner = true

	srv := &Server{
		store:     st,
		feedgen:   fg,
		events:    em,
		quotes:    qs,
		echo:      e,
		consumers: make(map[uint64]*SocketConsumer),
		log:       logger.With("system", "server"),
	}

	// No blanket read/write timeouts on the listener: the subscribe route
	// holds websockets open indefinitely. Slow clients are handled by the
	// ping loop and the event manager's drop-on-overflow.
	srv.httpd = &http.Server{
		Handler:           srv,
		Addr:              config.Bind,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(middleware.CORS())
	e.HTTPErrorHandler = srv.errorHandler

	e.GET("/_health", srv.handleHealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/api/tweets", srv.handleGetTweets)
	e.POST("/api/tweets", srv.handleCreateTweet)
	e.GET("/api/tweets/search", srv.handleSearchTweets)
	e.GET("/api/tweets/stock/:symbol", srv.handleTweetsByStock)
	e.GET("/api/tweets/bot/:botId", srv.handleTweetsByBot)
	e.POST("/api/tweets/:tweetId/like", srv.handleLikeTweet)
	e.DELETE("/api/tweets/:tweetId/like", srv.handleUnlikeTweet)

	e.GET("/api/feed", srv.handleGetFeed)
	e.GET("/api/feed/discover", srv.handleDiscoverFeed)
	e.GET("/api/feed/popular", srv.handlePopularFeed)
	e.GET("/api/feed/bots/latest", srv.handleLatestBotTweets)

	e.GET("/api/bots", srv.handleGetBots)
	e.GET("/api/bots/:botId", srv.handleGetBot)
	e.POST("/api/bots/:botId/follow", srv.handleFollowBot)
	e.DELETE("/api/bots/:botId/follow", srv.handleUnfollowBot)
	e.GET("/api/bots/user/:userId/following", srv.handleUserFollowing)

	e.GET("/api/stocks/search", srv.handleSearchStocks)
	e.GET("/api/stocks/:symbol/quote", srv.handleStockQuote)
	e.GET("/api/stocks/tracked", srv.handleTrackedStocks)
	e.GET("/api/stocks/trending", srv.handleTrendingStocks)

	e.GET("/subscribe", srv.handleSubscribe)

	return srv, nil
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	srv.echo.ServeHTTP(rw, req)
}

// RunAPI serves until Shutdown is called.
func (srv *Server) RunAPI() error {
	srv.log.Info("starting http server", "bind", srv.httpd.Addr)
	if err := srv.httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.httpd.Shutdown(ctx)
}

func (srv *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}

	if code >= 500 {
		srv.log.Error("request failed", "path", c.Request().URL.Path, "err", err)
	}

	if !c.Response().Committed {
		if err := c.JSON(code, map[string]string{"error": msg}); err != nil {
			srv.log.Error("failed to write error response", "err", err)
		}
	}
}

func (srv *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now(),
	})
}
