package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lox/runnerspoker/internal/forfeit"
)

// Session tracks one configured game while players report their final
// chip counts. It is safe for concurrent use by connection goroutines.
type Session struct {
	mu          sync.RWMutex
	game        forfeit.Game
	players     map[string]forfeit.Player
	order       []string
	submissions map[string]int
}

// NewSession creates a session for the given game. The players carry their
// mode-specific settings; their FinalChips fields are ignored in favour of
// submissions.
func NewSession(game forfeit.Game, players []forfeit.Player) (*Session, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("session requires at least one player")
	}

	byName := make(map[string]forfeit.Player, len(players))
	order := make([]string, 0, len(players))
	for _, p := range players {
		if _, ok := byName[p.Name]; ok {
			return nil, fmt.Errorf("duplicate player name %q", p.Name)
		}
		byName[p.Name] = p
		order = append(order, p.Name)
	}

	return &Session{
		game:        game,
		players:     byName,
		order:       order,
		submissions: make(map[string]int),
	}, nil
}

// Game returns the session's game configuration
func (s *Session) Game() forfeit.Game {
	return s.game
}

// PlayerNames returns all configured player names in configuration order
func (s *Session) PlayerNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Join verifies that the named player belongs to this session
func (s *Session) Join(name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.players[name]; !ok {
		return fmt.Errorf("player %q is not part of this game", name)
	}
	return nil
}

// Submit records a player's final chip count. Each player reports once;
// a second submission is rejected so a typo cannot be silently overwritten
// by another machine.
func (s *Session) Submit(name string, finalChips int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[name]; !ok {
		return fmt.Errorf("player %q is not part of this game", name)
	}
	if finalChips < 0 {
		return fmt.Errorf("final chips cannot be negative, got %d", finalChips)
	}
	if _, ok := s.submissions[name]; ok {
		return fmt.Errorf("player %q has already submitted", name)
	}

	s.submissions[name] = finalChips
	return nil
}

// Pending returns the players who have not yet submitted, sorted by name
func (s *Session) Pending() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingLocked()
}

func (s *Session) pendingLocked() []string {
	var pending []string
	for name := range s.players {
		if _, ok := s.submissions[name]; !ok {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)
	return pending
}

// Complete reports whether every player has submitted
func (s *Session) Complete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions) == len(s.players)
}

// Results computes the forfeits from the submitted chip counts. It returns
// an error until the session is complete.
func (s *Session) Results() ([]forfeit.Result, *forfeit.ChipCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.submissions) != len(s.players) {
		return nil, nil, fmt.Errorf("waiting on %d player(s): %v",
			len(s.players)-len(s.submissions), s.pendingLocked())
	}

	players := make([]forfeit.Player, 0, len(s.order))
	for _, name := range s.order {
		p := s.players[name]
		p.FinalChips = s.submissions[name]
		players = append(players, p)
	}

	results, check := forfeit.Calculate(s.game, players)
	return results, check, nil
}
