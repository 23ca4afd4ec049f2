// Package main provides the solar tracker entry point and CLI interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devskill-org/solar-tracker/sun"
	"github.com/devskill-org/solar-tracker/tracker"
)

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "config.json", "Configuration file path")
		once       = flag.Bool("once", false, "Compute a single position and exit")
		date       = flag.String("date", "", "Instant for -once in RFC3339 format (default: now)")
		lat        = flag.Float64("lat", math.NaN(), "Latitude override for -once (degrees)")
		lng        = flag.Float64("lng", math.NaN(), "Longitude override for -once (degrees, positive east)")
		serverOnly = flag.Bool("serverOnly", false, "Run only the web server without periodic sampling")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	config, err := tracker.LoadConfig(*configFile)
	if err != nil {
		// -once works without a config file when coordinates come from flags
		if !*once || math.IsNaN(*lat) || math.IsNaN(*lng) {
			fmt.Println("Error loading configuration:", err)
			return
		}
		config = tracker.DefaultConfig()
	}

	if *once {
		runOnce(config, *date, *lat, *lng)
		return
	}

	fmt.Printf("Starting solar tracker with the following configuration:\n")
	fmt.Printf("  Site: %s (%.4f, %.4f)\n", config.SiteName, config.Latitude, config.Longitude)
	fmt.Printf("  Sample Interval: %s\n", config.SampleInterval)
	if config.ServerPort > 0 {
		fmt.Printf("  Web Server Port: %d\n", config.ServerPort)
	}
	if config.PositionerAddress != "" {
		fmt.Printf("  Positioner: %s (slave %d)\n", config.PositionerAddress, config.PositionerSlaveID)
	}
	if config.DryRun {
		fmt.Printf("  Mode: DRY-RUN (mount moves and database writes simulated)\n")
	}
	fmt.Println()

	// Create logger
	logger := log.New(os.Stdout, "[TRACKER] ", log.LstdFlags)

	// Create tracker
	solarTracker := tracker.NewTracker(config, logger)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start tracker in a goroutine
	go func() {
		if err := solarTracker.Start(ctx, *serverOnly); err != nil {
			if err != context.Canceled {
				logger.Printf("Tracker error: %v", err)
			}
		}
	}()

	logger.Printf("Tracker started. Press Ctrl+C to stop...")

	// Wait for shutdown signal
	<-sigChan
	logger.Printf("Shutdown signal received, stopping tracker...")

	// Cancel context to stop the sampling loop
	cancel()

	// Give the tracker a moment to clean up
	solarTracker.Stop()

	logger.Printf("Tracker stopped successfully")
}

// runOnce computes and prints a single sun position, taking the role of the
// interactive presentation layer around the core calculation.
func runOnce(config *tracker.Config, date string, lat, lng float64) {
	instant := time.Now()
	if date != "" {
		parsed, err := time.Parse(time.RFC3339, date)
		if err != nil {
			fmt.Println("Error parsing -date, want RFC3339 (e.g. 2025-02-11T11:25:18Z):", err)
			return
		}
		instant = parsed
	}

	if math.IsNaN(lat) {
		lat = config.Latitude
	}
	if math.IsNaN(lng) {
		lng = config.Longitude
	}

	pos, err := sun.GetPosition(instant, lat, lng)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("On %s, at latitude %v and longitude %v, the sun is at\n",
		instant.UTC().Format(time.RFC3339), lat, lng)
	fmt.Printf("  azimuth:  %.6f rad (%.2f° compass)\n", pos.Azimuth, tracker.CompassAzimuthDeg(pos.Azimuth))
	fmt.Printf("  altitude: %.6f rad (%.2f° above horizon)\n", pos.Altitude, pos.Altitude*180/math.Pi)
}

func showHelp() {
	fmt.Println("Solar Tracker - Compute and follow the Sun's position")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Computes the apparent position of the Sun (azimuth and altitude) for a")
	fmt.Println("  configured site using a low-precision solar ephemeris, accurate to about")
	fmt.Println("  one arcminute. Runs as a sampling service that can persist positions to")
	fmt.Println("  PostgreSQL, steer a dual-axis tracker mount over Modbus, and stream")
	fmt.Println("  samples over HTTP/WebSocket.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  solar-tracker [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -config string   Configuration file path (default \"config.json\")")
	fmt.Println("  -once            Compute a single position and exit")
	fmt.Println("  -date string     Instant for -once in RFC3339 format (default: now)")
	fmt.Println("  -lat float       Latitude override for -once (degrees)")
	fmt.Println("  -lng float       Longitude override for -once (degrees, positive east)")
	fmt.Println("  -serverOnly      Run only the web server without periodic sampling")
	fmt.Println("  -help            Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  solar-tracker -config site.json")
	fmt.Println("  solar-tracker -once -lat 51.2113 -lng 3.2259 -date 2025-02-11T11:25:18Z")
}
