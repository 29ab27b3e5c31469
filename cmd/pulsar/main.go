// Command pulsar runs the Pulsar editor loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pavanmanishd/pulsar/internal/config"
	"github.com/pavanmanishd/pulsar/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON configuration file")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	frames := flag.Int("frames", -1, "number of frames to run, 0 until interrupted")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "pulsar: %v\n", err)
			os.Exit(1)
		}
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pulsar: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting Pulsar Editor...")
	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.Error("editor stopped", "err", err)
		logger.Close()
		os.Exit(1)
	}
	logger.Info("Pulsar Editor stopped")
}
