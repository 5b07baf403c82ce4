// Package forfeit converts end-of-game chip counts into physical forfeits.
// Win chips and you sit back; lose chips and it is time to run.
package forfeit

import (
	"fmt"
	"time"
)

// Mode determines how a player's maximum forfeit is chosen
type Mode int

const (
	// Equal shares one global maximum across all players
	Equal Mode = iota
	// Weighted scales the Equal forfeit by a per-player fitness multiplier
	Weighted
	// Custom gives each player an independent maximum
	Custom
)

// String returns the lowercase mode name used in config files and flags
func (m Mode) String() string {
	switch m {
	case Equal:
		return "equal"
	case Weighted:
		return "weighted"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Description returns the mode label shown in the setup form
func (m Mode) Description() string {
	switch m {
	case Equal:
		return "Equal (everyone same punishment)"
	case Weighted:
		return "Weighted (based on fitness category)"
	case Custom:
		return "Custom (each player sets their own max)"
	default:
		return "Unknown"
	}
}

// Modes lists all selectable modes in display order
var Modes = []Mode{Equal, Weighted, Custom}

// ParseMode parses a mode name as written in config files
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if m.String() == s {
			return m, nil
		}
	}
	return Equal, fmt.Errorf("unknown mode %q (want equal, weighted or custom)", s)
}

// FitnessCategory applies a multiplier on top of the Equal-mode forfeit
type FitnessCategory string

const (
	CouchPotato FitnessCategory = "Couch Potato"
	Beginner    FitnessCategory = "Beginner"
	Casual      FitnessCategory = "Casual"
	Regular     FitnessCategory = "Regular"
	Athlete     FitnessCategory = "Athlete"
)

// FitnessCategories lists all categories in ascending fitness order
var FitnessCategories = []FitnessCategory{CouchPotato, Beginner, Casual, Regular, Athlete}

var multipliers = map[FitnessCategory]float64{
	CouchPotato: 0.6,
	Beginner:    0.8,
	Casual:      1.0,
	Regular:     1.2,
	Athlete:     1.4,
}

// Multiplier returns the weighting for the category. Unknown or empty
// categories fall back to 1.0 rather than failing.
func (c FitnessCategory) Multiplier() float64 {
	if m, ok := multipliers[c]; ok {
		return m
	}
	return 1.0
}

// ForfeitType describes what kind of punishment a game is using
type ForfeitType int

const (
	Run ForfeitType = iota
	Cycle
	Burpees
	Steps
)

// ForfeitTypes lists all selectable forfeit types in display order
var ForfeitTypes = []ForfeitType{Run, Cycle, Burpees, Steps}

// Unit returns the unit label used in table headers and summaries
func (t ForfeitType) Unit() string {
	switch t {
	case Run, Cycle:
		return "km"
	case Burpees:
		return "burpees"
	case Steps:
		return "k steps"
	default:
		return "units"
	}
}

// Activity returns the verb for summary sentences, or "" when the unit
// already reads as an activity (burpees, steps)
func (t ForfeitType) Activity() string {
	switch t {
	case Run:
		return "run"
	case Cycle:
		return "cycle"
	default:
		return ""
	}
}

// Label returns the selector label for the forfeit type
func (t ForfeitType) Label() string {
	switch t {
	case Run:
		return "Run (km)"
	case Cycle:
		return "Cycle (km)"
	case Burpees:
		return "Burpees (reps)"
	case Steps:
		return "Steps (x1000)"
	default:
		return "Unknown"
	}
}

// String returns the lowercase type name used in config files
func (t ForfeitType) String() string {
	switch t {
	case Run:
		return "run"
	case Cycle:
		return "cycle"
	case Burpees:
		return "burpees"
	case Steps:
		return "steps"
	default:
		return "unknown"
	}
}

// ParseForfeitType parses a forfeit type name as written in config files
func ParseForfeitType(s string) (ForfeitType, error) {
	for _, t := range ForfeitTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return Run, fmt.Errorf("unknown forfeit type %q (want run, cycle, burpees or steps)", s)
}

// Game holds the game-level configuration shared by all players
type Game struct {
	Mode          Mode
	Forfeit       ForfeitType
	StartingChips int
	// MaxForfeit is the global maximum for Equal and Weighted games.
	// Custom games ignore it in favour of each player's own maximum.
	MaxForfeit float64
	Deadline   time.Time
}

// Player is one participant's settings plus their final chip count
type Player struct {
	Name       string
	FinalChips int
	// Fitness applies in Weighted mode only
	Fitness FitnessCategory
	// MaxForfeit applies in Custom mode only
	MaxForfeit float64
}

// Result is the computed forfeit for a single player
type Result struct {
	Name       string
	FinalChips int
	// Ratio is the fraction of starting chips retained, capped at 1.0
	Ratio float64
	// Amount is the forfeit owed, in the game's forfeit unit
	Amount float64
	// Fitness is set for Weighted games
	Fitness FitnessCategory
	// PlayerMax is set for Custom games
	PlayerMax float64
}

// ChipPercent returns the ratio as a percentage rounded to one decimal
func (r Result) ChipPercent() float64 {
	return roundTo(r.Ratio*100, 1)
}

// Calculate computes each player's forfeit. It is a single stateless pass:
// nothing is validated fatally, and a chip-total mismatch is reported via
// the returned ChipCheck without changing any numbers.
func Calculate(g Game, players []Player) ([]Result, *ChipCheck) {
	results := make([]Result, 0, len(players))
	totalFinal := 0

	for _, p := range players {
		totalFinal += p.FinalChips
		results = append(results, calculateOne(g, p))
	}

	expected := g.StartingChips * len(players)
	var check *ChipCheck
	if totalFinal != expected {
		check = &ChipCheck{Expected: expected, Actual: totalFinal}
	}

	return results, check
}

func calculateOne(g Game, p Player) Result {
	ratio := chipRatio(p.FinalChips, g.StartingChips)

	r := Result{
		Name:       p.Name,
		FinalChips: p.FinalChips,
		Ratio:      ratio,
	}

	switch g.Mode {
	case Weighted:
		r.Fitness = p.Fitness
		r.Amount = baseForfeit(p.FinalChips, g.StartingChips, g.MaxForfeit, ratio) * p.Fitness.Multiplier()
	case Custom:
		r.PlayerMax = p.MaxForfeit
		r.Amount = baseForfeit(p.FinalChips, g.StartingChips, p.MaxForfeit, ratio)
	default: // Equal
		r.Amount = baseForfeit(p.FinalChips, g.StartingChips, g.MaxForfeit, ratio)
	}

	return r
}

// chipRatio returns final/starting capped at 1.0. A non-positive starting
// stack makes the ratio undefined, so it is treated as 0.
func chipRatio(final, starting int) float64 {
	if starting <= 0 {
		return 0
	}
	ratio := float64(final) / float64(starting)
	if ratio > 1 {
		return 1
	}
	return ratio
}

// baseForfeit scales the maximum by the share of chips lost. Players who
// finished at or above their starting stack owe nothing.
func baseForfeit(final, starting int, max, ratio float64) float64 {
	if final >= starting {
		return 0
	}
	return max * (1 - ratio)
}

// ChipCheck reports a mismatch between the final chip total and the
// expected starting total. It never blocks calculation.
type ChipCheck struct {
	Expected int
	Actual   int
}

// Surplus reports whether the final total came in above the expected total
func (c *ChipCheck) Surplus() bool {
	return c.Actual > c.Expected
}

// Warning returns the human-readable chip check message
func (c *ChipCheck) Warning() string {
	if c.Surplus() {
		return fmt.Sprintf(
			"Chip check: final total chips (%d) are more than starting total (%d). "+
				"No big deal, but you might have miscounted or added extra chips.",
			c.Actual, c.Expected)
	}
	return fmt.Sprintf(
		"Chip check: final total chips (%d) are less than starting total (%d). "+
			"Maybe a chip went missing or got miscounted. Forfeits are calculated as normal.",
		c.Actual, c.Expected)
}
