package forfeit

import (
	"math"
	"strconv"
	"time"
)

// DeadlineLayout is the display format for completion deadlines (02 Jan 2006)
const DeadlineLayout = "02 Jan 2006"

// FormatAmount renders a forfeit amount rounded to two decimals. Whole
// numbers drop the fractional part entirely, so 5.0 renders as "5" and
// 7.25 as "7.25".
func FormatAmount(v float64) string {
	rounded := roundTo(v, 2)
	if rounded == math.Trunc(rounded) {
		return strconv.FormatInt(int64(rounded), 10)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// FormatDeadline renders a deadline date for tables and summaries
func FormatDeadline(d time.Time) string {
	return d.Format(DeadlineLayout)
}

// roundTo rounds v to the given number of decimal places
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
