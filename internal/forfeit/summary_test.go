package forfeit

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	deadline := time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)

	game := Game{
		Mode:          Equal,
		Forfeit:       Run,
		StartingChips: 1000,
		MaxForfeit:    10,
		Deadline:      deadline,
	}

	t.Run("forfeit with activity verb", func(t *testing.T) {
		clk := quartz.NewMock(t)
		clk.Set(deadline.AddDate(0, 0, -10))

		s := Summary(game, Result{Name: "Alice", Amount: 5}, clk)
		assert.Equal(t, "Alice → 5 km to run by 30 Sep 2026. (10 days to go)", s)
	})

	t.Run("single day remaining uses singular", func(t *testing.T) {
		clk := quartz.NewMock(t)
		clk.Set(deadline.AddDate(0, 0, -1))

		s := Summary(game, Result{Name: "Alice", Amount: 2.5}, clk)
		assert.Equal(t, "Alice → 2.5 km to run by 30 Sep 2026. (1 day to go)", s)
	})

	t.Run("same-day deadline omits the countdown", func(t *testing.T) {
		clk := quartz.NewMock(t)
		clk.Set(deadline.Add(9 * time.Hour))

		s := Summary(game, Result{Name: "Alice", Amount: 5}, clk)
		assert.Equal(t, "Alice → 5 km to run by 30 Sep 2026.", s)
	})

	t.Run("past deadline omits the countdown", func(t *testing.T) {
		clk := quartz.NewMock(t)
		clk.Set(deadline.AddDate(0, 0, 3))

		s := Summary(game, Result{Name: "Alice", Amount: 5}, clk)
		assert.Equal(t, "Alice → 5 km to run by 30 Sep 2026.", s)
	})

	t.Run("zero forfeit celebrates with the activity", func(t *testing.T) {
		clk := quartz.NewMock(t)
		s := Summary(game, Result{Name: "Bob", Amount: 0}, clk)
		assert.Equal(t, "Bob → No run required! (0 km)", s)
	})

	t.Run("zero forfeit without activity falls back to the unit", func(t *testing.T) {
		burpees := game
		burpees.Forfeit = Burpees

		clk := quartz.NewMock(t)
		s := Summary(burpees, Result{Name: "Bob", Amount: 0}, clk)
		assert.Equal(t, "Bob → No burpees required! (0 burpees)", s)
	})

	t.Run("no activity verb drops the to-clause", func(t *testing.T) {
		steps := game
		steps.Forfeit = Steps

		clk := quartz.NewMock(t)
		clk.Set(deadline.AddDate(0, 0, 2))

		s := Summary(steps, Result{Name: "Carol", Amount: 7.5}, clk)
		assert.Equal(t, "Carol → 7.5 k steps by 30 Sep 2026.", s)
	})
}

func TestSummaries(t *testing.T) {
	deadline := time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)
	game := Game{Mode: Equal, Forfeit: Cycle, StartingChips: 1000, MaxForfeit: 10, Deadline: deadline}

	results, _ := Calculate(game, []Player{
		{Name: "Alice", FinalChips: 500},
		{Name: "Bob", FinalChips: 1500},
	})

	clk := quartz.NewMock(t)
	clk.Set(deadline.AddDate(0, 0, 1))

	lines := Summaries(game, results, clk)
	require.Len(t, lines, 2)
	assert.Equal(t, "Alice → 5 km to cycle by 30 Sep 2026.", lines[0])
	assert.Equal(t, "Bob → No cycle required! (0 km)", lines[1])
}
