// Command bubblerob runs the BubbleRob controller service: simulators connect
// on /ws/sim, operators use the dashboard API and /ws/telemetry.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-bubblerob/internal/config"
	"github.com/teslashibe/go-bubblerob/internal/log"
	"github.com/teslashibe/go-bubblerob/pkg/bubblerob"
	"github.com/teslashibe/go-bubblerob/pkg/debug"
	"github.com/teslashibe/go-bubblerob/pkg/simlink"
	"github.com/teslashibe/go-bubblerob/pkg/web"
)

func main() {
	// Command line flags
	port := flag.String("port", config.ListenPort(), "Dashboard and simulator link port (or set LISTEN_PORT env)")
	logLevel := flag.String("log-level", config.LogLevel(), "Log level: debug, info, warn, error (or set LOG_LEVEL env)")
	minDeg := flag.Float64("min-speed", 50, "Minimum wheel speed in degrees per second")
	maxDeg := flag.Float64("max-speed", 300, "Maximum wheel speed in degrees per second")
	accessLog := flag.Bool("access-log", false, "Log every HTTP request")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	debugTicks := flag.Bool("debug-ticks", false, "Print a line for every actuation tick (very verbose)")
	flag.Parse()

	debug.Enabled = *debugFlag
	debug.Ticks = *debugTicks
	if *debugFlag {
		*logLevel = "debug"
	}
	log.Init(*logLevel)

	cfg := bubblerob.DefaultConfig()
	cfg.MinSpeed = *minDeg * math.Pi / 180
	cfg.MaxSpeed = *maxDeg * math.Pi / 180
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed, seeded, err := config.Seed()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := simlink.Options{Config: cfg, Debug: *debugFlag}
	if seeded {
		opts.Source = func(string) bubblerob.RandomSource { return bubblerob.NewSeededSource(seed) }
	}

	fmt.Println("🤖 BubbleRob Controller")
	fmt.Printf("   Speed: %.0f–%.0f °/s\n", *minDeg, *maxDeg)
	fmt.Printf("   Simulator link: ws://localhost:%s/ws/sim\n", *port)
	fmt.Println()
	debug.Log("   Config: %+v\n", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(*port, simlink.New(opts), *accessLog)
	if err := server.Start(ctx); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}

	fmt.Println("👋 Goodbye!")
}
