package store

import "net/url"

// Spotify time ranges for top-item listings.
const (
	TimeRangeShort  = "short_term"
	TimeRangeMedium = "medium_term"
	TimeRangeLong   = "long_term"

	// DefaultTimeRange is used when a top-items page does not identify its
	// scope; the API defaults the same way.
	DefaultTimeRange = TimeRangeMedium
)

// TimeRanges lists every valid scope, shortest window first.
var TimeRanges = []string{TimeRangeShort, TimeRangeMedium, TimeRangeLong}

func validTimeRange(value string) bool {
	for _, r := range TimeRanges {
		if value == r {
			return true
		}
	}
	return false
}

// resolveTimeRange determines the scope of a top-items page: the explicit
// field wins, then the time_range query parameter of the page's href, then
// [DefaultTimeRange].
func resolveTimeRange(explicit, href string) string {
	if validTimeRange(explicit) {
		return explicit
	}

	if href != "" {
		if u, err := url.Parse(href); err == nil {
			if r := u.Query().Get("time_range"); validTimeRange(r) {
				return r
			}
		}
	}

	return DefaultTimeRange
}
