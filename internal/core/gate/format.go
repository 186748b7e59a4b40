package gate

import (
	"time"
	_ "time/tzdata"
)

// DisplayZone is the zone every deadline is announced in. Viewers see
// IST whatever their local zone is.
const DisplayZone = "Asia/Kolkata"

// displayLayout matches the en-IN rendering of
// {year: numeric, month: long, day: numeric, hour: 2-digit, minute: 2-digit}.
const displayLayout = "2 January 2006 at 03:04 pm"

var displayLocation = loadDisplayLocation()

func loadDisplayLocation() *time.Location {
	location, err := time.LoadLocation(DisplayZone)
	if err != nil {
		// IST has no daylight saving, so a fixed offset is exact.
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return location
}

// Location returns the fixed display location.
func Location() *time.Location {
	return displayLocation
}

// FormatInstant renders t in the fixed display zone, for example
// "2 June 2025 at 11:59 pm".
func FormatInstant(t time.Time) string {
	return t.In(displayLocation).Format(displayLayout)
}
