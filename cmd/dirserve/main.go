package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Brownie44l1/dirserve/internal/pathguard"
	"github.com/Brownie44l1/dirserve/internal/server"
)

func main() {
	config := server.DefaultConfig()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "working directory: %v\n", err)
		os.Exit(1)
	}

	guard := flag.String("guard", "strict", "traversal guard: strict or depth")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.StringVar(&config.Addr, "addr", config.Addr, "listen address")
	flag.StringVar(&config.Root, "root", cwd, "directory to serve")
	flag.IntVar(&config.ReadBufferSize, "read-buffer", config.ReadBufferSize, "request read buffer size in bytes")
	flag.IntVar(&config.MaxWorkers, "workers", config.MaxWorkers, "max concurrently handled connections")
	flag.DurationVar(&config.ReadTimeout, "read-timeout", config.ReadTimeout, "request read timeout, 0 disables")
	flag.DurationVar(&config.WriteTimeout, "write-timeout", config.WriteTimeout, "response write timeout, 0 disables")
	flag.BoolVar(&config.CRLFHeaders, "crlf", config.CRLFHeaders, "terminate every header line with CRLF")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log level: %v\n", err)
		os.Exit(2)
	}
	logger := server.NewLogger(os.Stdout, lvl)

	config.GuardMode, err = pathguard.ParseMode(*guard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "guard: %v\n", err)
		os.Exit(2)
	}

	srv, err := server.New(config)
	if err != nil {
		logger.Error("server setup failed", server.Field{Key: "error", Value: err})
		os.Exit(1)
	}
	srv.Logger = logger

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, server.ErrServerClosed) {
			logger.Error("server error", server.Field{Key: "error", Value: err})
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", server.Field{Key: "error", Value: err})
		os.Exit(1)
	}

	stats := srv.Stats()
	logger.Info("final stats",
		server.Field{Key: "connections", Value: stats.ConnectionsTotal},
		server.Field{Key: "requests", Value: stats.RequestsTotal},
		server.Field{Key: "ok", Value: stats.Status2xx},
		server.Field{Key: "not_found", Value: stats.Status4xx},
		server.Field{Key: "errors", Value: stats.ErrorsTotal},
		server.Field{Key: "panics", Value: stats.PanicsTotal},
		server.Field{Key: "bytes", Value: stats.BytesWritten},
		server.Field{Key: "avg_latency", Value: stats.AverageLatency.String()},
	)
}
