package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/iem-roster/internal/board"
	"github.com/DoyleJ11/iem-roster/internal/config"
	"github.com/DoyleJ11/iem-roster/internal/httpapi"
	"github.com/DoyleJ11/iem-roster/internal/hub"
	"github.com/DoyleJ11/iem-roster/internal/logging"
	"github.com/DoyleJ11/iem-roster/internal/poller"
	"github.com/DoyleJ11/iem-roster/internal/pollog"
	"github.com/DoyleJ11/iem-roster/internal/upstream"
	"github.com/DoyleJ11/iem-roster/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) (err error) {
	var recorder pollog.Recorder = pollog.Nop{}
	var history httpapi.PollHistory

	store, err := pollog.Open(cfg.DatabaseURL)
	switch {
	case errors.Is(err, pollog.ErrDisabled):
		logger.Info("poll log disabled")
	case err != nil:
		return err
	default:
		recorder, history = store, store
		defer func() { err = multierr.Append(err, store.Close()) }()
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	h := hub.NewHub(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	// Build one board and one poller per stage, in stable stage order
	var pollers []*poller.Poller
	ups := cfg.StageUpstreams()
	for _, code := range cfg.StageCodes() {
		base := ups[code]
		reply := make(chan *board.Board, 1)
		h.Inbox() <- hub.EnsureBoard{
			Stage: code,
			Options: board.Options{
				ClearErrorOnSuccess: cfg.ClearErrorOnSuccess,
				Logger:              logger,
			},
			Reply: reply,
		}
		b := <-reply

		p := &poller.Poller{
			Stage:           code,
			Fetcher:         upstream.NewClient(base, cfg.UpstreamPath, cfg.FetchTimeout),
			Sink:            b,
			Interval:        cfg.PollInterval,
			Recorder:        recorder,
			SkipOverlapping: cfg.SkipOverlappingPolls,
			Logger:          logger,
		}
		pollers = append(pollers, p)
		g.Go(func() error { return p.Run(gctx) })

		logger.Info("stage configured", zap.String("stage", code), zap.String("upstream", base))
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:          h,
			Renderer:     renderer,
			Polls:        history,
			PollLimit:    cfg.PollLogLimit,
			DefaultStage: cfg.DefaultStage,
			HideDelay:    cfg.CursorHideDelay,
			Logger:       logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// boards first so open displays get a close frame instead of hanging
		return multierr.Combine(
			h.Shutdown(shutdownCtx),
			srv.Shutdown(shutdownCtx),
		)
	})

	err = g.Wait()
	for _, p := range pollers {
		p.Wait()
	}
	return err
}
