package reconcile

import (
	"fmt"
	"time"
)

// TimeAgo renders the time elapsed between t and now in the coarsest whole
// unit: days, then hours, then minutes. Under a minute, or when t is after
// now, it returns "Just now".
func TimeAgo(t, now time.Time) string {
	elapsed := now.Sub(t)
	days := int64(elapsed / (24 * time.Hour))
	hours := int64(elapsed / time.Hour)
	minutes := int64(elapsed / time.Minute)

	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case minutes > 0:
		return plural(minutes, "minute")
	default:
		return "Just now"
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
