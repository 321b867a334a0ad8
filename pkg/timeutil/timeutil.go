// Package timeutil provides small time-formatting helpers used by the
// logging package.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration the way the "debug" npm package does:
// milliseconds below a second, otherwise a compact unit-suffixed value.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
