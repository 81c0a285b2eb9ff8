// Package format renders trace quantities for human-readable output.
package format

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders a measured wall-clock duration with the same
// units as FormatSeconds.
func FormatDuration(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}

// FormatSeconds formats a duration given in (possibly fractional) seconds,
// as found in trace records. Sub-millisecond values keep three significant
// digits so short STW pauses stay distinguishable.
func FormatSeconds(s float64) string {
	switch {
	case math.IsNaN(s) || math.IsInf(s, 0):
		return fmt.Sprint(s)
	case s == 0:
		return "0s"
	case s < 1e-3:
		return fmt.Sprintf("%.3gµs", s*1e6)
	case s < 1:
		return fmt.Sprintf("%.3gms", s*1e3)
	}
	return fmt.Sprintf("%.3fs", s)
}
