package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/sigscan/cmd/scan/app"
	"github.com/roman-kulish/sigscan/internal/config"
)

func main() {
	stderr := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts, err := config.NewFlags(flag.CommandLine, config.Defaults()).Parse(os.Args[1:])
	if err != nil {
		stderr.Error(err.Error())
		flag.Usage()
		os.Exit(2)
	}

	logger, logFile, err := config.NewLogger(opts)
	if err != nil {
		stderr.Error(err.Error())
		os.Exit(1)
	}
	defer logFile.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err = app.Run(ctx, opts, logger); err != nil {
		logger.Error(err.Error())
		fmt.Fprintln(os.Stderr, err)

		cancel()
		_ = logFile.Close()
		os.Exit(1)
	}
}
