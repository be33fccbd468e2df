// Command kiosk opens a roster stage page in a full-screen browser window
// for a dedicated backstage display, and keeps it open until signalled.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/DoyleJ11/iem-roster/internal/config"
	"github.com/DoyleJ11/iem-roster/internal/logging"
)

func main() {
	cfg, err := config.LoadKiosk()
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
		logger.Fatal("kiosk exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.KioskConfig, logger *zap.Logger) error {
	l := launcher.New().
		Headless(false).
		Leakless(true).
		Set("kiosk").
		Set("start-fullscreen").
		Set("noerrdialogs").
		Set("disable-session-crashed-bubble").
		Delete("enable-automation")
	if cfg.Browser != "" {
		l = l.Bin(cfg.Browser)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return err
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return err
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: cfg.URL})
	if err != nil {
		return err
	}
	if err := page.WaitLoad(); err != nil {
		logger.Warn("roster page did not finish loading", zap.Error(err))
	}

	logger.Info("kiosk open", zap.String("url", cfg.URL))
	<-ctx.Done()
	logger.Info("kiosk closing")
	return nil
}
