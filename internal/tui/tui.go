// Package tui implements the interactive game form: configure the game,
// enter each player's settings and final chips, and read the resulting
// forfeits, all without leaving the terminal.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/runnerspoker/internal/forfeit"
	"github.com/lox/runnerspoker/internal/render"
)

type stage int

const (
	stageSetup stage = iota
	stagePlayers
	stageChips
	stageResults
)

type setupField int

const (
	fieldMode setupField = iota
	fieldForfeitType
	fieldStartingChips
	fieldMaxForfeit
	fieldNumPlayers
	fieldDeadline
)

// Limits enforced at entry, matching the original form widgets
const (
	minPlayers = 2
	maxPlayers = 10
)

// Model is the Bubble Tea model for the game form
type Model struct {
	logger *log.Logger
	clock  quartz.Clock

	stage     stage
	field     setupField
	playerIdx int
	// askingExtra is true while prompting the current player's
	// mode-specific setting rather than their name
	askingExtra bool

	game       forfeit.Game
	numPlayers int
	players    []forfeit.Player

	input  textinput.Model
	errMsg string

	results []forfeit.Result
	check   *forfeit.ChipCheck

	width    int
	height   int
	quitting bool
}

// NewModel creates the form model. The clock feeds deadline defaults and
// the "days to go" phrasing in summaries.
func NewModel(logger *log.Logger, clock quartz.Clock) *Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		logger: logger.WithPrefix("tui"),
		clock:  clock,
		input:  ti,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			if m.stage != stageResults {
				m.submitField(strings.TrimSpace(m.input.Value()))
				m.input.SetValue("")
				return m, nil
			}
		case "n":
			if m.stage == stageResults {
				m.reset()
				return m, nil
			}
		case "q":
			if m.stage == stageResults {
				m.quitting = true
				return m, tea.Sequence(tea.ClearScreen, tea.Quit)
			}
		}
	}

	var cmd tea.Cmd
	if m.stage != stageResults {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// reset clears everything and restarts the flow from game setup
func (m *Model) reset() {
	m.stage = stageSetup
	m.field = fieldMode
	m.playerIdx = 0
	m.askingExtra = false
	m.game = forfeit.Game{}
	m.numPlayers = 0
	m.players = nil
	m.results = nil
	m.check = nil
	m.errMsg = ""
	m.input.SetValue("")
}

// submitField consumes one line of input and advances the form. Invalid
// values set errMsg and keep the cursor in place; every field has a
// default so an empty submission always advances.
func (m *Model) submitField(value string) {
	m.errMsg = ""

	var err error
	switch m.stage {
	case stageSetup:
		err = m.submitSetupField(value)
	case stagePlayers:
		err = m.submitPlayerField(value)
	case stageChips:
		err = m.submitChipsField(value)
	}

	if err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) submitSetupField(value string) error {
	switch m.field {
	case fieldMode:
		idx, err := parseChoice(value, 1, len(forfeit.Modes), 1)
		if err != nil {
			return err
		}
		m.game.Mode = forfeit.Modes[idx-1]
		m.field = fieldForfeitType

	case fieldForfeitType:
		idx, err := parseChoice(value, 1, len(forfeit.ForfeitTypes), 1)
		if err != nil {
			return err
		}
		m.game.Forfeit = forfeit.ForfeitTypes[idx-1]
		m.field = fieldStartingChips

	case fieldStartingChips:
		chips, err := parseInt(value, 1000)
		if err != nil {
			return err
		}
		if chips < 1 {
			return fmt.Errorf("starting chips must be at least 1")
		}
		m.game.StartingChips = chips
		if m.game.Mode == forfeit.Custom {
			// Each player sets their own max in the next stage
			m.field = fieldNumPlayers
		} else {
			m.field = fieldMaxForfeit
		}

	case fieldMaxForfeit:
		max, err := parseFloat(value, 10)
		if err != nil {
			return err
		}
		if max <= 0 {
			return fmt.Errorf("max forfeit must be positive")
		}
		m.game.MaxForfeit = max
		m.field = fieldNumPlayers

	case fieldNumPlayers:
		n, err := parseInt(value, 4)
		if err != nil {
			return err
		}
		if n < minPlayers || n > maxPlayers {
			return fmt.Errorf("number of players must be between %d and %d", minPlayers, maxPlayers)
		}
		m.numPlayers = n
		m.field = fieldDeadline

	case fieldDeadline:
		deadline, err := m.parseDeadline(value)
		if err != nil {
			return err
		}
		m.game.Deadline = deadline
		m.players = make([]forfeit.Player, 0, m.numPlayers)
		m.stage = stagePlayers
		m.playerIdx = 0
		m.askingExtra = false
	}

	return nil
}

func (m *Model) submitPlayerField(value string) error {
	if !m.askingExtra {
		name := value
		if name == "" {
			name = fmt.Sprintf("Player %d", m.playerIdx+1)
		}
		for _, p := range m.players {
			if p.Name == name {
				return fmt.Errorf("player name %q is already taken", name)
			}
		}
		m.players = append(m.players, forfeit.Player{Name: name})

		if m.game.Mode == forfeit.Weighted || m.game.Mode == forfeit.Custom {
			m.askingExtra = true
			return nil
		}
		m.advancePlayer()
		return nil
	}

	p := &m.players[m.playerIdx]
	switch m.game.Mode {
	case forfeit.Weighted:
		idx, err := parseChoice(value, 1, len(forfeit.FitnessCategories), 3) // default Casual
		if err != nil {
			return err
		}
		p.Fitness = forfeit.FitnessCategories[idx-1]

	case forfeit.Custom:
		max, err := parseFloat(value, 10)
		if err != nil {
			return err
		}
		if max <= 0 {
			return fmt.Errorf("max forfeit must be positive")
		}
		p.MaxForfeit = max
	}

	m.askingExtra = false
	m.advancePlayer()
	return nil
}

func (m *Model) advancePlayer() {
	m.playerIdx++
	if m.playerIdx >= m.numPlayers {
		m.stage = stageChips
		m.playerIdx = 0
	}
}

func (m *Model) submitChipsField(value string) error {
	chips, err := parseInt(value, 0)
	if err != nil {
		return err
	}
	if chips < 0 {
		return fmt.Errorf("final chips cannot be negative")
	}

	m.players[m.playerIdx].FinalChips = chips
	m.playerIdx++

	if m.playerIdx >= m.numPlayers {
		m.calculate()
	}
	return nil
}

func (m *Model) calculate() {
	m.results, m.check = forfeit.Calculate(m.game, m.players)
	m.stage = stageResults
	m.logger.Debug("Calculated forfeits", "players", len(m.results), "chipCheck", m.check != nil)
}

func (m *Model) parseDeadline(value string) (time.Time, error) {
	if value == "" {
		return m.defaultDeadline(), nil
	}
	deadline, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return deadline, nil
}

// defaultDeadline gives players a week to work off their forfeits
func (m *Model) defaultDeadline() time.Time {
	return m.clock.Now().AddDate(0, 0, 7)
}

// View renders the form
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("🎴 Runners Poker"))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("Win chips → sit back and relax. Lose chips → time to run."))
	b.WriteString("\n\n")

	switch m.stage {
	case stageSetup:
		b.WriteString(StageStyle.Render("1. Game Setup"))
		b.WriteString("\n\n")
		b.WriteString(m.renderSetupPrompt())
	case stagePlayers:
		b.WriteString(StageStyle.Render("2. Players & Settings"))
		b.WriteString("\n\n")
		b.WriteString(m.renderPlayerPrompt())
	case stageChips:
		b.WriteString(StageStyle.Render("3. Final Chip Counts"))
		b.WriteString("\n\n")
		b.WriteString(m.renderChipsPrompt())
	case stageResults:
		b.WriteString(StageStyle.Render("4. Forfeit Results"))
		b.WriteString("\n\n")
		b.WriteString(m.renderResults())
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(HintStyle.Render("Enter to accept • empty input keeps the default • Ctrl+C to quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderSetupPrompt() string {
	var b strings.Builder

	switch m.field {
	case fieldMode:
		b.WriteString(PromptStyle.Render("Select mode:"))
		b.WriteString("\n")
		for i, mode := range forfeit.Modes {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, mode.Description()))
		}
		b.WriteString(HintStyle.Render("Default: 1"))
	case fieldForfeitType:
		b.WriteString(PromptStyle.Render("Forfeit type:"))
		b.WriteString("\n")
		for i, ft := range forfeit.ForfeitTypes {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, ft.Label()))
		}
		b.WriteString(HintStyle.Render("Default: 1"))
	case fieldStartingChips:
		b.WriteString(PromptStyle.Render("Starting chips per player"))
		b.WriteString("\n")
		b.WriteString(HintStyle.Render("Default: 1000"))
	case fieldMaxForfeit:
		b.WriteString(PromptStyle.Render(fmt.Sprintf("Max forfeit (%s)", m.game.Forfeit.Unit())))
		b.WriteString("\n")
		b.WriteString(HintStyle.Render("Default: 10"))
	case fieldNumPlayers:
		b.WriteString(PromptStyle.Render("Number of players"))
		b.WriteString("\n")
		b.WriteString(HintStyle.Render(fmt.Sprintf("Default: 4 (between %d and %d)", minPlayers, maxPlayers)))
	case fieldDeadline:
		b.WriteString(PromptStyle.Render("Deadline for completing the forfeits (YYYY-MM-DD)"))
		b.WriteString("\n")
		b.WriteString(HintStyle.Render("Default: " + m.defaultDeadline().Format("2006-01-02")))
	}

	return b.String()
}

func (m *Model) renderPlayerPrompt() string {
	var b strings.Builder

	if !m.askingExtra {
		b.WriteString(PromptStyle.Render(fmt.Sprintf("Name for Player %d", m.playerIdx+1)))
		b.WriteString("\n")
		b.WriteString(HintStyle.Render(fmt.Sprintf("Default: Player %d", m.playerIdx+1)))
		return b.String()
	}

	name := m.players[m.playerIdx].Name
	switch m.game.Mode {
	case forfeit.Weighted:
		b.WriteString(PromptStyle.Render(fmt.Sprintf("Fitness category for %s:", name)))
		b.WriteString("\n")
		for i, cat := range forfeit.FitnessCategories {
			b.WriteString(fmt.Sprintf("  %d. %s (×%.1f)\n", i+1, cat, cat.Multiplier()))
		}
		b.WriteString(HintStyle.Render("Default: 3 (Casual)"))
	case forfeit.Custom:
		b.WriteString(PromptStyle.Render(fmt.Sprintf("Max forfeit for %s (%s)", name, m.game.Forfeit.Unit())))
		b.WriteString("\n")
		b.WriteString(HintStyle.Render("Default: 10"))
	}

	return b.String()
}

func (m *Model) renderChipsPrompt() string {
	var b strings.Builder
	b.WriteString(PromptStyle.Render(fmt.Sprintf("%s – final chips", m.players[m.playerIdx].Name)))
	b.WriteString("\n")
	b.WriteString(HintStyle.Render("Default: 0"))
	return b.String()
}

func (m *Model) renderResults() string {
	var b strings.Builder

	if m.check != nil {
		b.WriteString(WarningStyle.Render(m.check.Warning()))
		b.WriteString("\n\n")
	}

	var table strings.Builder
	if err := render.Table(&table, m.game, m.results); err != nil {
		b.WriteString(ErrorStyle.Render("failed to render table: " + err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(ResultsStyle.Render(strings.TrimRight(table.String(), "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, line := range forfeit.Summaries(m.game, m.results, m.clock) {
		if strings.Contains(line, "No ") && strings.Contains(line, "required!") {
			b.WriteString(SuccessStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HintStyle.Render("n: new game • q: quit"))
	b.WriteString("\n")

	return b.String()
}

// Run starts the interactive form and blocks until the user quits
func Run(logger *log.Logger, clock quartz.Clock) error {
	p := tea.NewProgram(NewModel(logger, clock))
	_, err := p.Run()
	return err
}

// parseChoice parses a numbered menu selection with a default
func parseChoice(value string, min, max, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("enter a number between %d and %d", min, max)
	}
	return n, nil
}

func parseInt(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return n, nil
}

func parseFloat(value string, def float64) (float64, error) {
	if value == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return f, nil
}
