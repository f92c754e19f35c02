// Package timeago formats timestamps as human-readable relative ages.
package timeago

import (
	"fmt"
	"time"
)

const absoluteLayout = "January 02, 2006 at 03:04 PM"

// Format returns a bucketed relative-age string for t as seen from now:
// under a minute in seconds, under an hour in minutes, under a day in hours,
// under thirty days in days, and an absolute date-time beyond that.
func Format(t, now time.Time) string {
	seconds := int64(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		if seconds < 0 {
			seconds = 0
		}
		return fmt.Sprintf("%d seconds ago", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%d days ago", seconds/86400)
	default:
		return t.Format(absoluteLayout)
	}
}
