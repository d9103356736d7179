// Package config provides configuration helpers for go-bubblerob commands.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults for the controller service.
const (
	DefaultListenPort = "8090"
	DefaultLogLevel   = "info"
	DefaultSimURL     = "ws://localhost:8090/ws/sim"
)

// ListenPort returns the dashboard/link port from LISTEN_PORT or the default.
func ListenPort() string {
	if port := os.Getenv("LISTEN_PORT"); port != "" {
		return port
	}
	return DefaultListenPort
}

// LogLevel returns the log level from LOG_LEVEL or the default.
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}

// SimURL returns the controller link URL the simulator driver dials,
// from SIM_URL or the default.
func SimURL() string {
	if url := os.Getenv("SIM_URL"); url != "" {
		return url
	}
	return DefaultSimURL
}

// Seed returns the jitter seed from BUBBLEROB_SEED.
// Returns ok=false when unset, meaning non-deterministic jitter.
func Seed() (seed uint64, ok bool, err error) {
	raw := os.Getenv("BUBBLEROB_SEED")
	if raw == "" {
		return 0, false, nil
	}
	seed, err = strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid BUBBLEROB_SEED %q: %w", raw, err)
	}
	return seed, true, nil
}
