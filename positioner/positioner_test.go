package positioner

import "testing"

func TestAzimuthToRegister(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want uint16
	}{
		{"north", 0, 0},
		{"east", 90, 9000},
		{"south", 180, 18000},
		{"west", 270, 27000},
		{"wraps above 360", 370, 1000},
		{"negative wraps", -90, 27000},
		{"fractional", 123.456, 12346},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := azimuthToRegister(tt.deg); got != tt.want {
				t.Errorf("azimuthToRegister(%v) = %d, want %d", tt.deg, got, tt.want)
			}
		})
	}
}

func TestElevationToRegister(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want int16
	}{
		{"horizon", 0, 0},
		{"zenith", 90, 9000},
		{"below horizon", -5.5, -550},
		{"clamped high", 95, 9000},
		{"clamped low", -95, -9000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := int16(elevationToRegister(tt.deg)); got != tt.want {
				t.Errorf("elevationToRegister(%v) = %d, want %d", tt.deg, got, tt.want)
			}
		})
	}
}
