// Package tracker runs a solar tracking service around the sun package:
// it periodically computes the Sun's position for a configured site,
// persists the samples, steers an optional Modbus tracker mount and
// exposes the data over HTTP and WebSocket.
package tracker

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/devskill-org/solar-tracker/positioner"
	"github.com/devskill-org/solar-tracker/sun"
)

// Sample represents one computed sun position for the configured site.
type Sample struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`

	// Radians, ephemeris convention: azimuth 0 = south, π/2 = west
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`

	// Degrees, presentation convention: compass bearing from north
	AzimuthCompassDeg float64 `json:"azimuth_compass_deg"`
	AltitudeDeg       float64 `json:"altitude_deg"`
}

// Mount drives a physical tracker mount. Satisfied by *positioner.Client.
type Mount interface {
	MoveTo(azimuthDeg, elevationDeg float64) error
	Stow() error
	Close() error
}

// Status summarizes the tracker state for health reporting.
type Status struct {
	IsRunning   bool       `json:"is_running"`
	SampleCount int64      `json:"sample_count"`
	LastSample  *time.Time `json:"last_sample,omitempty"`
}

// Tracker periodically samples the sun position for one site.
type Tracker struct {
	config *Config
	logger *log.Logger
	store  *Store
	mount  Mount
	server *WebServer

	mu          sync.RWMutex
	latest      *Sample
	running     bool
	sampleCount int64
	stowed      bool
}

// NewTracker creates a tracker for the given configuration. A web server
// is attached when config.ServerPort is set.
func NewTracker(config *Config, logger *log.Logger) *Tracker {
	t := &Tracker{
		config: config,
		logger: logger,
	}
	t.server = NewWebServer(t, config.ServerPort)
	return t
}

// SetMount injects a mount driver. Used by Start for the configured Modbus
// controller and by tests for fakes.
func (t *Tracker) SetMount(mount Mount) {
	t.mount = mount
}

// GetConfig returns the tracker configuration
func (t *Tracker) GetConfig() *Config {
	return t.config
}

// GetStatus returns the current tracker status
func (t *Tracker) GetStatus() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	status := Status{
		IsRunning:   t.running,
		SampleCount: t.sampleCount,
	}
	if t.latest != nil {
		ts := t.latest.Time
		status.LastSample = &ts
	}
	return status
}

// Latest returns a copy of the most recent sample, or nil before the first
// sampling cycle completes.
func (t *Tracker) Latest() *Sample {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.latest == nil {
		return nil
	}
	sample := *t.latest
	return &sample
}

// Start runs the sampling loop until the context is cancelled. With
// serverOnly set, only the web server runs and no periodic samples are
// taken.
func (t *Tracker) Start(ctx context.Context, serverOnly bool) error {
	store, err := NewStore(t.config.PostgresConnString, t.config.DeviceID, t.config.DryRun, t.logger)
	if err != nil {
		return fmt.Errorf("failed to open sample store: %w", err)
	}
	t.store = store
	defer t.store.Close()

	if t.mount == nil && t.config.PositionerAddress != "" && !t.config.DryRun {
		client, err := positioner.NewTCPClient(t.config.PositionerAddress, byte(t.config.PositionerSlaveID))
		if err != nil {
			return fmt.Errorf("failed to connect to positioner: %w", err)
		}
		t.mount = client
	}
	if t.mount != nil {
		defer t.mount.Close()
	}

	if err := t.server.Start(); err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}

	t.mu.Lock()
	t.running = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	if serverOnly {
		t.logger.Printf("Running in server-only mode, periodic sampling disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	t.logger.Printf("Sampling sun position for site '%s' (%.4f, %.4f) every %s",
		t.config.SiteName, t.config.Latitude, t.config.Longitude, t.config.SampleInterval)

	// Take an immediate sample so the service is useful before the first tick
	t.sampleOnce(time.Now())

	ticker := time.NewTicker(t.config.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			t.sampleOnce(now)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop shuts down the web server. The sampling loop itself stops via
// context cancellation in Start.
func (t *Tracker) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := t.server.Stop(ctx); err != nil {
		t.logger.Printf("Error stopping web server: %v", err)
	}
}

// sampleOnce computes one sun position and fans it out to the store, the
// mount and connected WebSocket clients.
func (t *Tracker) sampleOnce(now time.Time) {
	sample, err := t.computeSample(now)
	if err != nil {
		t.logger.Printf("Failed to compute sun position: %v", err)
		return
	}

	t.mu.Lock()
	t.latest = sample
	t.sampleCount++
	t.mu.Unlock()

	if err := t.store.Insert(sample); err != nil {
		t.logger.Printf("Failed to persist sample: %v", err)
	}

	t.steerMount(sample)
	t.server.BroadcastSample(sample)
}

// computeSample runs the ephemeris calculation for the configured site.
func (t *Tracker) computeSample(now time.Time) (*Sample, error) {
	pos, err := sun.GetPosition(now, t.config.Latitude, t.config.Longitude)
	if err != nil {
		return nil, err
	}

	return &Sample{
		Time:              now.UTC(),
		Latitude:          t.config.Latitude,
		Longitude:         t.config.Longitude,
		Azimuth:           pos.Azimuth,
		Altitude:          pos.Altitude,
		AzimuthCompassDeg: CompassAzimuthDeg(pos.Azimuth),
		AltitudeDeg:       pos.Altitude * 180 / math.Pi,
	}, nil
}

// steerMount points the mount at the sun, or stows it while the sun is
// below the horizon. Repeated stow commands are suppressed.
func (t *Tracker) steerMount(sample *Sample) {
	if t.mount == nil {
		if t.config.DryRun && t.config.PositionerAddress != "" {
			t.logger.Printf("Positioner [DRY-RUN]: would move to azimuth %.2f°, elevation %.2f°",
				sample.AzimuthCompassDeg, sample.AltitudeDeg)
		}
		return
	}

	if sample.Altitude <= 0 {
		if t.stowed {
			return
		}
		if err := t.mount.Stow(); err != nil {
			t.logger.Printf("Failed to stow mount: %v", err)
			return
		}
		t.stowed = true
		t.logger.Printf("Sun below horizon, mount stowed")
		return
	}

	if err := t.mount.MoveTo(sample.AzimuthCompassDeg, sample.AltitudeDeg); err != nil {
		t.logger.Printf("Failed to move mount: %v", err)
		return
	}
	t.stowed = false
}

// CompassAzimuthDeg converts an ephemeris azimuth (radians, 0 = south,
// π/2 = west) to a compass bearing in degrees clockwise from north.
func CompassAzimuthDeg(azimuth float64) float64 {
	deg := azimuth*180/math.Pi + 180
	return math.Mod(deg+360, 360)
}
