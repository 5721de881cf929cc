package utils

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Coordinate
		expected  float64
		tolerance float64
	}{
		{"same point", Coordinate{40.7128, -74.0060}, Coordinate{40.7128, -74.0060}, 0, 0.01},
		{"one degree latitude", Coordinate{40, -74}, Coordinate{41, -74}, 111195, 200},
		{"NYC to Newark", Coordinate{40.7128, -74.0060}, Coordinate{40.7357, -74.1724}, 14200, 300},
		{"antipodal-ish", Coordinate{0, 0}, Coordinate{0, 180}, math.Pi * earthRadiusMeters, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("DistanceMeters(%v, %v) = %.1f, expected %.1f ± %.1f",
					tt.a, tt.b, got, tt.expected, tt.tolerance)
			}
			// distance is symmetric
			if rev := DistanceMeters(tt.b, tt.a); math.Abs(rev-got) > 0.001 {
				t.Errorf("distance not symmetric: %.3f vs %.3f", got, rev)
			}
		})
	}
}

func TestWithinRadius(t *testing.T) {
	site := Coordinate{40.7128, -74.0060}
	tests := []struct {
		name     string
		point    Coordinate
		radius   float64
		expected bool
	}{
		{"at the site", site, 150, true},
		{"50m away inside 150m", Coordinate{40.71325, -74.0060}, 150, true},
		{"500m away outside 150m", Coordinate{40.7173, -74.0060}, 150, false},
		{"zero radius never matches", site, 0, false},
		{"negative radius never matches", site, -10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, dist := WithinRadius(site, tt.point, tt.radius)
			if ok != tt.expected {
				t.Errorf("WithinRadius(%v, %.0f) = %v (dist %.1f), expected %v",
					tt.point, tt.radius, ok, dist, tt.expected)
			}
			if dist < 0 {
				t.Errorf("distance should never be negative, got %.1f", dist)
			}
		})
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"valid", Coordinate{40.7128, -74.0060}, false},
		{"lat too high", Coordinate{91, 0}, true},
		{"lat too low", Coordinate{-91, 0}, true},
		{"lng too high", Coordinate{0, 181}, true},
		{"lng too low", Coordinate{0, -181}, true},
		{"boundary values", Coordinate{90, 180}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.coord)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%v) error = %v, wantErr %v", tt.coord, err, tt.wantErr)
			}
		})
	}
}
