package stats

import (
	"fmt"
	"math"
	"strings"
)

// Breakdown decomposes a duration in seconds into display units plus an
// exact value in the highest nonzero unit.
type Breakdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int

	TopValue float64
	TopUnit  string
}

// Decompose splits total seconds into days, hours, minutes, and seconds.
// Fractional seconds are rounded for the unit fields; the top-unit value
// keeps the exact total.
func Decompose(totalSeconds float64) Breakdown {
	total := int(math.Round(totalSeconds))
	minutes, seconds := total/60, total%60
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24

	b := Breakdown{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}
	switch {
	case days > 0:
		b.TopUnit = "days"
		b.TopValue = totalSeconds / (24 * 60 * 60)
	case hours > 0:
		b.TopUnit = "hours"
		b.TopValue = totalSeconds / (60 * 60)
	case minutes > 0:
		b.TopUnit = "minutes"
		b.TopValue = totalSeconds / 60
	default:
		b.TopUnit = "seconds"
		b.TopValue = totalSeconds
	}
	return b
}

// Format renders the breakdown from its highest nonzero unit down to
// seconds, followed by the exact value in the top unit to two decimals.
// A zero duration renders as "0 seconds (= 0.00 seconds)".
func (b Breakdown) Format() string {
	var parts []string
	if b.Days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", b.Days))
	}
	if b.Hours > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", b.Hours))
	}
	if b.Minutes > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", b.Minutes))
	}
	parts = append(parts, fmt.Sprintf("%d seconds", b.Seconds))
	return fmt.Sprintf("%s (= %.2f %s)", strings.Join(parts, ", "), b.TopValue, b.TopUnit)
}
