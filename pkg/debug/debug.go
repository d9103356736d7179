// Package debug provides global debug logging flags
package debug

import "fmt"

// Enabled controls whether debug logging is active
var Enabled bool

// Ticks controls whether a line is printed for every actuation tick.
// Use --debug-ticks to enable; at 20 Hz this is very verbose.
var Ticks bool

// Log prints a message only if debug mode is enabled
func Log(format string, args ...interface{}) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}

// TickLog prints a message only if tick debug mode is enabled
func TickLog(format string, args ...interface{}) {
	if Ticks {
		fmt.Printf(format, args...)
	}
}
