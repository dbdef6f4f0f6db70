package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"footerCheck/internal/cli"
	"footerCheck/internal/config"
	"footerCheck/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.NewWithOptions(logger.Options{
		Env:   cfg.Logger.Env,
		Level: cfg.Logger.Level,
		File:  cfg.Logger.File,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = cli.New(cfg, log).Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error("Команда завершилась с ошибкой", zap.Error(err))
	}
	_ = log.Sync()
	_ = log.Close()
	if err != nil {
		os.Exit(1)
	}
}
