package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/veeso/spazio-grigio-bot/internal/app"
	"github.com/veeso/spazio-grigio-bot/internal/config"
	"github.com/veeso/spazio-grigio-bot/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yml", "path to config yaml")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}
	if err := a.Start(ctx); err != nil {
		log.Error().Err(err).Msg("start failed")
		os.Exit(1)
	}

	// Config hot reload (log level only).
	go func() {
		if err := config.Watch(ctx, cfgPath, log, a.ApplyConfig); err != nil {
			log.Warn().Err(err).Msg("config watcher unavailable")
		}
	}()

	// No-op outside systemd units.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)

	<-ctx.Done()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	a.Stop(stopCtx)
}
