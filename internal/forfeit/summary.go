package forfeit

import (
	"fmt"
	"time"

	"github.com/coder/quartz"
)

// Summary produces the one-line sentence for a single result, e.g.
//
//	Alice → 5 km to run by 24 Aug 2026.
//	Bob → No run required! (0 km)
//
// The clock decides whether a "days to go" reminder is appended; pass a
// quartz mock in tests for deterministic output.
func Summary(g Game, r Result, clk quartz.Clock) string {
	unit := g.Forfeit.Unit()
	activity := g.Forfeit.Activity()

	if r.Amount == 0 {
		subject := unit
		if activity != "" {
			subject = activity
		}
		return fmt.Sprintf("%s → No %s required! (0 %s)", r.Name, subject, unit)
	}

	deadline := FormatDeadline(g.Deadline)
	var s string
	if activity != "" {
		s = fmt.Sprintf("%s → %s %s to %s by %s.", r.Name, FormatAmount(r.Amount), unit, activity, deadline)
	} else {
		s = fmt.Sprintf("%s → %s %s by %s.", r.Name, FormatAmount(r.Amount), unit, deadline)
	}

	if days := daysUntil(clk.Now(), g.Deadline); days > 0 {
		if days == 1 {
			s += " (1 day to go)"
		} else {
			s += fmt.Sprintf(" (%d days to go)", days)
		}
	}
	return s
}

// Summaries produces one sentence per result, in result order
func Summaries(g Game, results []Result, clk quartz.Clock) []string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = Summary(g, r, clk)
	}
	return lines
}

// daysUntil counts whole calendar days from now until the deadline.
// Past or same-day deadlines return 0.
func daysUntil(now, deadline time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	due := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, now.Location())
	days := int(due.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
