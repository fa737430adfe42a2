package astro

import (
	"math"
	"testing"
)

func TestProject(t *testing.T) {
	p := DefaultProjection()

	tests := []struct {
		name  string
		ra    float64
		dec   float64
		wantX float64
		wantY float64
	}{
		{"origin", 0, 0, 10000, 5000},
		{"half turn", math.Pi, 0, 5000, 5000},
		{"north pole", 0, math.Pi / 2, 10000, 0},
		{"south pole", 0, -math.Pi / 2, 10000, 10000},
		{"full turn wraps", 2 * math.Pi, 0, 10000, 5000},
		{"quarter", math.Pi / 2, math.Pi / 4, 7500, 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := p.Project(tt.ra, tt.dec)
			if math.Abs(x-tt.wantX) > 1e-6 || math.Abs(y-tt.wantY) > 1e-6 {
				t.Errorf("Project(%v, %v) = (%v, %v), want (%v, %v)", tt.ra, tt.dec, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name                 string
		ra1, dec1, ra2, dec2 float64
		expected             float64
	}{
		{"same point", 10, 20, 10, 20, 0},
		{"pole to equator", 0, 90, 0, 0, 90},
		{"opposite on equator", 0, 0, 180, 0, 180},
		{"quarter on equator", 0, 0, 90, 0, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.ra1, tt.dec1, tt.ra2, tt.dec2)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("AngularSeparation() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHoursToDegrees(t *testing.T) {
	if got := HoursToDegrees(6); got != 90 {
		t.Errorf("HoursToDegrees(6) = %v, want 90", got)
	}
}
