package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"programcheck/internal/config"
	"programcheck/internal/listener"
	"programcheck/internal/storage"
	"programcheck/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(util.SetLogLevel(cfg.LogLevel))

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	svc := listener.NewService(db, cfg)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	util.Log.WithField("provider", cfg.MailListenerProvider).Info("mail listener started")
	must(svc.Run(ctx))
	util.Log.Info("mail listener stopped")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
