package workflow

import "slices"

// PriceWindows are the selectable price-history windows in days.
var PriceWindows = []int{30, 90, 180, 365}

// DefaultPriceWindow is used when no window is selected.
const DefaultPriceWindow = 90

// NormalizeWindow returns days when it is a known window, else the default.
func NormalizeWindow(days int) int {
	if slices.Contains(PriceWindows, days) {
		return days
	}
	return DefaultPriceWindow
}
