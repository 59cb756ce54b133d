// Package pricing derives price-history statistics and chart geometry from
// the price points of one product.
package pricing

import (
	"fmt"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

// Stats summarizes the price points of a window, oldest first.
type Stats struct {
	Latest        float64
	First         float64
	Average       float64
	Min           float64
	Max           float64
	Count         int
	ChangePercent float64
}

// Compute derives stats from chronological points. It reports false when
// there are no points.
func Compute(points []api.PricePoint) (Stats, bool) {
	if len(points) == 0 {
		return Stats{}, false
	}

	s := Stats{
		First:  points[0].UnitPriceNormalized,
		Latest: points[len(points)-1].UnitPriceNormalized,
		Min:    points[0].UnitPriceNormalized,
		Max:    points[0].UnitPriceNormalized,
		Count:  len(points),
	}
	var sum float64
	for _, p := range points {
		price := p.UnitPriceNormalized
		sum += price
		s.Min = min(s.Min, price)
		s.Max = max(s.Max, price)
	}
	s.Average = sum / float64(len(points))
	s.ChangePercent = ChangePercent(s.First, s.Latest)
	return s, true
}

// ChangePercent returns (latest − first) / first × 100, or 0 when first is
// not positive.
func ChangePercent(first, latest float64) float64 {
	if first <= 0 {
		return 0
	}
	return (latest - first) / first * 100
}

// Trend is the direction of a price change.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Trend classifies the change of the window.
func (s Stats) Trend() Trend {
	switch {
	case s.ChangePercent > 0:
		return TrendUp
	case s.ChangePercent < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}

// FormatChange renders a change with one decimal and an explicit plus sign
// for increases, e.g. "+10.0%".
func FormatChange(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}
