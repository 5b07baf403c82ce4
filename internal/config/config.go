// Package config loads Runners Poker game definitions from HCL files.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/runnerspoker/internal/forfeit"
)

// DeadlineFileLayout is the deadline format accepted in game files
const DeadlineFileLayout = "2006-01-02"

// Default values matching the interactive form
const (
	DefaultStartingChips = 1000
	DefaultMaxForfeit    = 10.0
	DefaultPlayerMax     = 10.0
)

// GameFile represents a complete game definition file
type GameFile struct {
	Game    GameBlock     `hcl:"game,block"`
	Players []PlayerBlock `hcl:"player,block"`
}

// GameBlock contains game-level settings
type GameBlock struct {
	Mode          string  `hcl:"mode"`
	ForfeitType   string  `hcl:"forfeit_type,optional"`
	StartingChips int     `hcl:"starting_chips,optional"`
	MaxForfeit    float64 `hcl:"max_forfeit,optional"`
	Deadline      string  `hcl:"deadline"`
}

// PlayerBlock defines one player's settings and final chip count
type PlayerBlock struct {
	Name       string  `hcl:"name,label"`
	FinalChips int     `hcl:"final_chips,optional"`
	Fitness    string  `hcl:"fitness,optional"`
	MaxForfeit float64 `hcl:"max_forfeit,optional"`
}

// Load reads and validates a game definition from an HCL file
func Load(filename string) (*GameFile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var gf GameFile
	diags = gohcl.DecodeBody(file.Body, nil, &gf)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	gf.applyDefaults()

	if err := gf.Validate(); err != nil {
		return nil, err
	}

	return &gf, nil
}

// applyDefaults fills in values the file left out
func (gf *GameFile) applyDefaults() {
	if gf.Game.ForfeitType == "" {
		gf.Game.ForfeitType = forfeit.Run.String()
	}
	if gf.Game.StartingChips == 0 {
		gf.Game.StartingChips = DefaultStartingChips
	}

	mode, err := forfeit.ParseMode(gf.Game.Mode)
	if err != nil {
		return // Validate reports it
	}

	if mode != forfeit.Custom && gf.Game.MaxForfeit == 0 {
		gf.Game.MaxForfeit = DefaultMaxForfeit
	}

	for i := range gf.Players {
		if mode == forfeit.Weighted && gf.Players[i].Fitness == "" {
			gf.Players[i].Fitness = string(forfeit.Casual)
		}
		if mode == forfeit.Custom && gf.Players[i].MaxForfeit == 0 {
			gf.Players[i].MaxForfeit = DefaultPlayerMax
		}
	}
}

// Validate checks the game definition for structural problems. Chip-total
// mismatches are deliberately not checked here; the calculator reports
// those as a non-fatal warning.
func (gf *GameFile) Validate() error {
	mode, err := forfeit.ParseMode(gf.Game.Mode)
	if err != nil {
		return err
	}

	if _, err := forfeit.ParseForfeitType(gf.Game.ForfeitType); err != nil {
		return err
	}

	if gf.Game.StartingChips <= 0 {
		return fmt.Errorf("starting_chips must be positive, got %d", gf.Game.StartingChips)
	}

	if mode != forfeit.Custom && gf.Game.MaxForfeit <= 0 {
		return fmt.Errorf("max_forfeit must be positive for %s mode, got %v", mode, gf.Game.MaxForfeit)
	}

	if _, err := time.Parse(DeadlineFileLayout, gf.Game.Deadline); err != nil {
		return fmt.Errorf("invalid deadline %q (want YYYY-MM-DD): %w", gf.Game.Deadline, err)
	}

	if len(gf.Players) == 0 {
		return fmt.Errorf("at least one player block is required")
	}

	seen := make(map[string]bool)
	for _, p := range gf.Players {
		if p.Name == "" {
			return fmt.Errorf("player name cannot be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player name %q", p.Name)
		}
		seen[p.Name] = true

		if p.FinalChips < 0 {
			return fmt.Errorf("player %s: final_chips cannot be negative", p.Name)
		}
		if mode == forfeit.Custom && p.MaxForfeit <= 0 {
			return fmt.Errorf("player %s: max_forfeit must be positive in custom mode", p.Name)
		}
	}

	return nil
}

// ToGame converts the file into calculator inputs
func (gf *GameFile) ToGame() (forfeit.Game, []forfeit.Player, error) {
	mode, err := forfeit.ParseMode(gf.Game.Mode)
	if err != nil {
		return forfeit.Game{}, nil, err
	}

	ftype, err := forfeit.ParseForfeitType(gf.Game.ForfeitType)
	if err != nil {
		return forfeit.Game{}, nil, err
	}

	deadline, err := time.Parse(DeadlineFileLayout, gf.Game.Deadline)
	if err != nil {
		return forfeit.Game{}, nil, fmt.Errorf("invalid deadline %q: %w", gf.Game.Deadline, err)
	}

	game := forfeit.Game{
		Mode:          mode,
		Forfeit:       ftype,
		StartingChips: gf.Game.StartingChips,
		MaxForfeit:    gf.Game.MaxForfeit,
		Deadline:      deadline,
	}

	players := make([]forfeit.Player, 0, len(gf.Players))
	for _, p := range gf.Players {
		players = append(players, forfeit.Player{
			Name:       p.Name,
			FinalChips: p.FinalChips,
			Fitness:    forfeit.FitnessCategory(p.Fitness),
			MaxForfeit: p.MaxForfeit,
		})
	}

	return game, players, nil
}
