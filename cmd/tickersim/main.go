package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	_ "go.uber.org/automaxprocs"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/tickersim/tickersim/bots"
	"github.com/tickersim/tickersim/events"
	"github.com/tickersim/tickersim/feed"
	"github.com/tickersim/tickersim/quotes"
	"github.com/tickersim/tickersim/server"
	"github.com/tickersim/tickersim/store"
)

func main() {
	run(os.Args)
}

func run(args []string) {
	app := cli.App{
		Name:    "tickersim",
		Usage:   "simulated stock-market social feed with bot posters",
		Version: versioninfo.Short(),
	}

	app.Commands = []*cli.Command{
		&cli.Command{
			Name:   "serve",
			Usage:  "run the feed server and bot scheduler",
			Action: serve,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "bind",
					Usage:   "local IP/port for the HTTP API",
					Value:   ":5500",
					EnvVars: []string{"TICKERSIM_BIND"},
				},
				&cli.DurationFlag{
					Name:    "tick-interval",
					Usage:   "how often the bot scheduler sweeps for due producers",
					Value:   bots.DefaultTickInterval,
					EnvVars: []string{"TICKERSIM_TICK_INTERVAL"},
				},
				&cli.IntFlag{
					Name:    "max-posts",
					Usage:   "retention cap on the in-memory post store",
					Value:   store.DefaultMaxPosts,
					EnvVars: []string{"TICKERSIM_MAX_POSTS"},
				},
				&cli.StringFlag{
					Name:    "log-level",
					Usage:   "log level (debug, info, warn, error)",
					Value:   "info",
					EnvVars: []string{"TICKERSIM_LOG_LEVEL"},
				},
			},
		},
	}

	app.RunAndExitOnError()
}

func serve(cctx *cli.Context) error {
	logger := configLogger(cctx.String("log-level"))

	st := store.NewStore(cctx.Int("max-posts"))
	qs := quotes.NewService()

	producers := bots.Catalog(qs)
	st.SeedBots(bots.Roster(producers))

	em := events.NewEventManager()
	fg := feed.NewFeedGenerator(st, logger.With("system", "feedgen"))
	sched := bots.NewScheduler(st, em, producers, cctx.Duration("tick-interval"))

	srv, err := server.NewServer(st, fg, em, qs, server.Config{
		Logger: logger,
		Bind:   cctx.String("bind"),
	})
	if err != nil {
		return err
	}

	schedCtx, stopSched := context.WithCancel(context.Background())
	go sched.Run(schedCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.RunAPI()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		stopSched()
		em.Shutdown()
		return err
	}

	stopSched()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http shutdown failed", "err", err)
	}

	em.Shutdown()
	return nil
}

func configLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
	return logger
}
