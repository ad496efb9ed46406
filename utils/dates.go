// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

// HumanizeTimeUntil phrases a duration the way reminder messages expect:
// "in 3 days", "in 2 hours", or "soon" under an hour. Identical output is
// used across every notification channel.
func HumanizeTimeUntil(d time.Duration) string {
	if d >= 24*time.Hour {
		days := int(d.Hours() / 24)
		return fmt.Sprintf("in %d day%s", days, plural(days))
	}
	if d >= time.Hour {
		hours := int(d.Hours())
		return fmt.Sprintf("in %d hour%s", hours, plural(hours))
	}
	return "soon"
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// FormatDueDate renders a due timestamp for message bodies.
func FormatDueDate(t time.Time) string {
	return t.Format("2006-01-02 at 15:04")
}
