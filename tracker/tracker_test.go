package tracker

import (
	"io"
	"log"
	"math"
	"testing"
	"time"
)

type fakeMount struct {
	moves  []struct{ az, el float64 }
	stows  int
	closed bool
}

func (m *fakeMount) MoveTo(azimuthDeg, elevationDeg float64) error {
	m.moves = append(m.moves, struct{ az, el float64 }{azimuthDeg, elevationDeg})
	return nil
}

func (m *fakeMount) Stow() error {
	m.stows++
	return nil
}

func (m *fakeMount) Close() error {
	m.closed = true
	return nil
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	config := DefaultConfig()
	config.SiteName = "bruges"
	config.Latitude = 51.21131496342009
	config.Longitude = 3.2258847770102235

	logger := log.New(io.Discard, "", 0)
	tr := NewTracker(config, logger)

	store, err := NewStore("", 0, false, logger)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	tr.store = store

	return tr
}

func TestCompassAzimuthDeg(t *testing.T) {
	tests := []struct {
		name    string
		azimuth float64 // radians, 0 = south
		want    float64 // compass degrees, 0 = north
	}{
		{"south", 0, 180},
		{"west", math.Pi / 2, 270},
		{"east", -math.Pi / 2, 90},
		{"north", math.Pi, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompassAzimuthDeg(tt.azimuth)
			diff := math.Abs(got - tt.want)
			if diff > 180 {
				diff = 360 - diff
			}
			if diff > 1e-9 {
				t.Errorf("CompassAzimuthDeg(%v) = %v, want %v", tt.azimuth, got, tt.want)
			}
		})
	}
}

func TestTracker_SampleOnce_Daytime(t *testing.T) {
	tr := newTestTracker(t)
	mount := &fakeMount{}
	tr.SetMount(mount)

	noon := time.Date(2025, 6, 21, 11, 49, 10, 0, time.UTC)
	tr.sampleOnce(noon)

	latest := tr.Latest()
	if latest == nil {
		t.Fatal("Latest() = nil after sampling")
	}
	if latest.Altitude <= 0 {
		t.Errorf("Altitude = %v at solar noon, want positive", latest.Altitude)
	}
	if !latest.Time.Equal(noon) {
		t.Errorf("sample time = %v, want %v", latest.Time, noon)
	}

	if len(mount.moves) != 1 {
		t.Fatalf("mount moves = %d, want 1", len(mount.moves))
	}
	if mount.stows != 0 {
		t.Errorf("mount stows = %d, want 0", mount.stows)
	}

	// Solar noon: the sun sits due south of Bruges
	if math.Abs(mount.moves[0].az-180) > 1 {
		t.Errorf("mount azimuth = %.2f°, want ~180°", mount.moves[0].az)
	}
	if math.Abs(mount.moves[0].el-latest.AltitudeDeg) > 1e-9 {
		t.Errorf("mount elevation = %.4f°, want %.4f°", mount.moves[0].el, latest.AltitudeDeg)
	}
}

func TestTracker_SampleOnce_NightStowsOnce(t *testing.T) {
	tr := newTestTracker(t)
	mount := &fakeMount{}
	tr.SetMount(mount)

	midnight := time.Date(2025, 6, 21, 23, 30, 0, 0, time.UTC)

	tr.sampleOnce(midnight)
	tr.sampleOnce(midnight.Add(time.Minute))
	tr.sampleOnce(midnight.Add(2 * time.Minute))

	if len(mount.moves) != 0 {
		t.Errorf("mount moves = %d at night, want 0", len(mount.moves))
	}
	if mount.stows != 1 {
		t.Errorf("mount stows = %d, want 1 (repeat stows suppressed)", mount.stows)
	}

	latest := tr.Latest()
	if latest == nil || latest.Altitude >= 0 {
		t.Fatalf("Latest() = %+v, want negative altitude at night", latest)
	}
}

func TestTracker_SampleOnce_ResumesAfterSunrise(t *testing.T) {
	tr := newTestTracker(t)
	mount := &fakeMount{}
	tr.SetMount(mount)

	tr.sampleOnce(time.Date(2025, 6, 21, 23, 30, 0, 0, time.UTC)) // night
	tr.sampleOnce(time.Date(2025, 6, 22, 11, 49, 0, 0, time.UTC)) // next day noon
	tr.sampleOnce(time.Date(2025, 6, 22, 23, 30, 0, 0, time.UTC)) // night again

	if mount.stows != 2 {
		t.Errorf("mount stows = %d, want 2", mount.stows)
	}
	if len(mount.moves) != 1 {
		t.Errorf("mount moves = %d, want 1", len(mount.moves))
	}
}

func TestTracker_GetStatus(t *testing.T) {
	tr := newTestTracker(t)

	status := tr.GetStatus()
	if status.IsRunning {
		t.Error("IsRunning = true before Start")
	}
	if status.SampleCount != 0 || status.LastSample != nil {
		t.Errorf("unexpected initial status: %+v", status)
	}

	tr.sampleOnce(time.Date(2025, 2, 11, 11, 25, 18, 0, time.UTC))

	status = tr.GetStatus()
	if status.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", status.SampleCount)
	}
	if status.LastSample == nil {
		t.Error("LastSample = nil after sampling")
	}
}

func TestTracker_LatestReturnsCopy(t *testing.T) {
	tr := newTestTracker(t)
	tr.sampleOnce(time.Date(2025, 2, 11, 11, 25, 18, 0, time.UTC))

	first := tr.Latest()
	first.Altitude = -99

	if tr.Latest().Altitude == -99 {
		t.Error("Latest() exposes internal state")
	}
}
