package sun

import (
	"math"
	"testing"
	"time"
)

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{
			name: "Unix epoch",
			time: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 2440587.5,
		},
		{
			name: "J2000 epoch",
			time: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			want: 2451545.0,
		},
		{
			name: "half day after J2000",
			time: time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC),
			want: 2451545.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDay(tt.time)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("JulianDay() = %.9f, want %.9f", got, tt.want)
			}
		})
	}
}

func TestJulianDay_TimezoneIndependent(t *testing.T) {
	utc := time.Date(2025, 2, 11, 11, 25, 18, 0, time.UTC)
	riga := utc.In(time.FixedZone("EET", 2*3600))

	if JulianDay(utc) != JulianDay(riga) {
		t.Errorf("JulianDay differs across zone representations of the same instant: %v vs %v",
			JulianDay(utc), JulianDay(riga))
	}
}

func TestDaysSinceJ2000(t *testing.T) {
	if d := DaysSinceJ2000(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)); d != 0 {
		t.Errorf("DaysSinceJ2000(J2000) = %v, want 0", d)
	}

	got := DaysSinceJ2000(time.Date(2025, 2, 11, 11, 25, 18, 0, time.UTC))
	want := 9172.975902777631
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("DaysSinceJ2000() = %.12f, want %.12f", got, want)
	}
}
