package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

func points(prices ...float64) []api.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]api.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = api.PricePoint{
			UnitPriceNormalized: p,
			ObservedAt:          api.Timestamp{Time: base.AddDate(0, 0, i)},
		}
	}
	return out
}

func TestCompute(t *testing.T) {
	s, ok := Compute(points(100, 90, 110))
	if !ok {
		t.Fatal("Compute() ok = false")
	}
	if s.Latest != 110 || s.First != 100 || s.Average != 100 || s.Min != 90 || s.Max != 110 || s.Count != 3 {
		t.Errorf("Compute() = %+v", s)
	}
	if math.Abs(s.ChangePercent-10) > 1e-9 {
		t.Errorf("ChangePercent = %v, want 10", s.ChangePercent)
	}
	if got := FormatChange(s.ChangePercent); got != "+10.0%" {
		t.Errorf("FormatChange() = %q, want +10.0%%", got)
	}
	if s.Trend() != TrendUp {
		t.Errorf("Trend() = %v, want up", s.Trend())
	}
}

func TestCompute_Empty(t *testing.T) {
	if _, ok := Compute(nil); ok {
		t.Error("Compute(nil) ok = true, want false")
	}
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name          string
		first, latest float64
		want          float64
	}{
		{"first zero", 0, 50, 0},
		{"increase", 100, 125, 25},
		{"decrease", 200, 150, -25},
		{"unchanged", 80, 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangePercent(tt.first, tt.latest); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ChangePercent(%v, %v) = %v, want %v", tt.first, tt.latest, got, tt.want)
			}
		})
	}
}

func TestFormatChange(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "+10.0%"},
		{-4.26, "-4.3%"},
		{0, "0.0%"},
	}
	for _, tt := range tests {
		if got := FormatChange(tt.in); got != tt.want {
			t.Errorf("FormatChange(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildChart(t *testing.T) {
	c := BuildChart(points(100, 90, 110), 420, 220, 10)

	if len(c.Markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(c.Markers))
	}
	if c.Markers[0].X != 10 || c.Markers[2].X != 410 {
		t.Errorf("x range = %v..%v, want 10..410", c.Markers[0].X, c.Markers[2].X)
	}
	// highest price at the top, lowest at the bottom
	if c.Markers[2].Y != 10 || c.Markers[1].Y != 210 {
		t.Errorf("y of max/min = %v/%v, want 10/210", c.Markers[2].Y, c.Markers[1].Y)
	}
	if c.Polyline != "10.0,110.0 210.0,210.0 410.0,10.0" {
		t.Errorf("Polyline = %q", c.Polyline)
	}
	if c.Markers[0].Supplier != "Necunoscut" || c.Markers[0].Date != "01.01.2024" {
		t.Errorf("marker = %+v", c.Markers[0])
	}
	if len(c.Ticks) != 5 || c.Ticks[0].Value != 90 || c.Ticks[4].Value != 110 {
		t.Errorf("ticks = %+v", c.Ticks)
	}
}

func TestBuildChart_FlatAndSingle(t *testing.T) {
	c := BuildChart(points(50), 420, 220, 10)
	if len(c.Markers) != 1 || c.Markers[0].X != 210 || c.Markers[0].Y != 110 {
		t.Errorf("single marker = %+v, want centred", c.Markers)
	}

	flat := BuildChart(points(5, 5, 5), 420, 220, 10)
	for _, m := range flat.Markers {
		if m.Y != 110 {
			t.Errorf("flat marker y = %v, want 110", m.Y)
		}
	}

	if empty := BuildChart(nil, 420, 220, 10); empty.Polyline != "" || len(empty.Markers) != 0 {
		t.Errorf("empty chart = %+v", empty)
	}
}
