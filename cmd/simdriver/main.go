// Command simdriver is a headless stand-in simulator. It drives the built-in
// arena through the controller link and prints what the robot does.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/teslashibe/go-bubblerob/internal/config"
	"github.com/teslashibe/go-bubblerob/internal/httpc"
	"github.com/teslashibe/go-bubblerob/internal/log"
	"github.com/teslashibe/go-bubblerob/pkg/simclient"
)

func main() {
	url := flag.String("url", config.SimURL(), "Controller link URL (or set SIM_URL env)")
	session := flag.String("session", "", "Session id (default: assigned by the controller)")
	duration := flag.Float64("duration", 60, "Simulated seconds to run")
	realtime := flag.Bool("realtime", false, "Pace ticks at wall-clock speed")
	verbose := flag.Bool("verbose", false, "Print every tick")
	slider := flag.Float64("speed", -1, "Move the session speed slider (0-100) through the dashboard API before driving")
	flag.Parse()

	log.Init(config.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := simclient.Dial(ctx, *url, *session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	hello := client.Hello()
	fmt.Printf("✅ Connected as %s (speed %.3f rad/s)\n", hello.SessionID, hello.Speed)

	if *slider >= 0 {
		var resp struct {
			Speed float64 `json:"speed"`
		}
		err := httpc.PostJSON(ctx, speedURL(*url, hello.SessionID), map[string]float64{"value": *slider}, &resp)
		if err != nil {
			log.Warn("could not move speed slider", "error", err)
		} else {
			fmt.Printf("🎚️  Slider %.0f → speed %.3f rad/s\n", *slider, resp.Speed)
		}
	}

	world := simclient.DefaultWorld()
	backing := 0
	ticks := 0

	for world.Time() < *duration {
		select {
		case <-ctx.Done():
			fmt.Println("\n👋 Interrupted")
			return
		default:
		}

		res, err := client.Tick(world.Sense())
		if err != nil {
			log.Error("tick failed", "t", world.Time(), "error", err)
			os.Exit(1)
		}
		for _, d := range res.Detections {
			fmt.Println(d.Message)
		}
		if res.Motor.State == "backing" {
			backing++
		}
		if *verbose {
			x, y, h := world.Position()
			fmt.Printf("t=%6.2f %-8s L=%7.3f R=%7.3f pose=(%.2f, %.2f, %.2f)\n",
				world.Time(), res.Motor.State, res.Motor.Left, res.Motor.Right, x, y, h)
		}

		world.Apply(res.Motor)
		ticks++
		if *realtime {
			time.Sleep(time.Duration(world.Step * float64(time.Second)))
		}
	}

	fmt.Printf("🏁 %d ticks, %d backing (%.0f%%)\n", ticks, backing, 100*float64(backing)/float64(max(ticks, 1)))
}

// speedURL derives the dashboard slider endpoint from the link URL.
func speedURL(linkURL, session string) string {
	base := strings.TrimSuffix(strings.TrimRight(linkURL, "/"), "/ws/sim")
	base = strings.Replace(base, "ws://", "http://", 1)
	base = strings.Replace(base, "wss://", "https://", 1)
	return base + "/api/sessions/" + session + "/speed"
}
