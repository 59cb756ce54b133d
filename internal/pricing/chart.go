package pricing

import (
	"strconv"
	"strings"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
)

// Marker is one plotted price point.
type Marker struct {
	X, Y     float64
	Date     string
	Price    float64
	Supplier string
}

// Tick is a labelled value on the price axis.
type Tick struct {
	Y     float64
	Value float64
}

// Chart is the SVG geometry of a price line.
type Chart struct {
	Width, Height int
	Padding       int
	// Polyline is the points attribute of an SVG polyline.
	Polyline string
	Markers  []Marker
	Ticks    []Tick
}

const (
	tickCount       = 5
	unknownSupplier = "Necunoscut"
)

// BuildChart lays points out left to right in observation order with the
// price axis spanning min..max. A flat series is drawn mid-height.
func BuildChart(points []api.PricePoint, width, height, padding int) Chart {
	c := Chart{Width: width, Height: height, Padding: padding}
	if len(points) == 0 {
		return c
	}

	plotW := float64(width - 2*padding)
	plotH := float64(height - 2*padding)
	lo, hi := points[0].UnitPriceNormalized, points[0].UnitPriceNormalized
	for _, p := range points {
		lo = min(lo, p.UnitPriceNormalized)
		hi = max(hi, p.UnitPriceNormalized)
	}

	yOf := func(price float64) float64 {
		if hi == lo {
			return float64(padding) + plotH/2
		}
		return float64(padding) + plotH*(1-(price-lo)/(hi-lo))
	}

	coords := make([]string, 0, len(points))
	for i, p := range points {
		x := float64(padding) + plotW/2
		if len(points) > 1 {
			x = float64(padding) + plotW*float64(i)/float64(len(points)-1)
		}
		y := yOf(p.UnitPriceNormalized)

		supplier := p.SupplierName
		if supplier == "" {
			supplier = unknownSupplier
		}
		c.Markers = append(c.Markers, Marker{
			X:        x,
			Y:        y,
			Date:     p.ObservedAt.Format("02.01.2006"),
			Price:    p.UnitPriceNormalized,
			Supplier: supplier,
		})
		coords = append(coords, formatCoord(x)+","+formatCoord(y))
	}
	c.Polyline = strings.Join(coords, " ")

	if hi == lo {
		c.Ticks = []Tick{{Y: yOf(lo), Value: lo}}
		return c
	}
	for i := 0; i < tickCount; i++ {
		v := lo + (hi-lo)*float64(i)/float64(tickCount-1)
		c.Ticks = append(c.Ticks, Tick{Y: yOf(v), Value: v})
	}
	return c
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
