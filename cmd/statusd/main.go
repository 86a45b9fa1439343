package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lyall/statusd/internal/api"
	"github.com/lyall/statusd/internal/api/handler"
	"github.com/lyall/statusd/internal/config"
	"github.com/lyall/statusd/internal/logging"
	"github.com/lyall/statusd/internal/server"
	"github.com/lyall/statusd/internal/version"
)

// Exit codes
const (
	exitOK          = 0
	exitServeFailed = 1
	exitBadConfig   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run wires config, logging, version, router and server, and blocks until
// ctx is cancelled or the server fails.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "statusd: %v\n", err)
		return exitBadConfig
	}

	logger, err := logging.NewLogger("statusd", logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: stdout,
	})
	if err != nil {
		fmt.Fprintf(stderr, "statusd: %v\n", err)
		return exitBadConfig
	}
	slog.SetDefault(logger)

	v := version.Resolve()
	if cfg.RuntimeVersion != "" {
		// Validated by config.Load.
		v, _ = version.ParsePin(cfg.RuntimeVersion)
	}

	logger.Info("starting statusd",
		"runtime", handler.ServiceName,
		"version", v.String(),
		"addr", cfg.Addr(),
		"configFile", cfg.ConfigFile,
	)

	router := api.NewRouter(&api.Config{
		Service: handler.ServiceName,
		Version: v,
		Logger:  logger,
	})

	srv := server.New(server.Options{
		Addr:            cfg.Addr(),
		Handler:         router,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})

	if err := srv.Listen(); err != nil {
		logger.Error("failed to start server", "error", err)
		return exitServeFailed
	}

	if err := srv.Serve(ctx); err != nil {
		logger.Error("server failed", "error", err)
		return exitServeFailed
	}
	return exitOK
}
