package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/runnerspoker/internal/forfeit"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	session, err := NewSession(forfeit.Game{
		Mode:          forfeit.Equal,
		Forfeit:       forfeit.Run,
		StartingChips: 1000,
		MaxForfeit:    10,
		Deadline:      time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC),
	}, []forfeit.Player{
		{Name: "Alice"},
		{Name: "Bob"},
	})
	require.NoError(t, err)
	return session
}

func TestSessionJoin(t *testing.T) {
	session := testSession(t)

	assert.NoError(t, session.Join("Alice"))
	assert.Error(t, session.Join("Mallory"))
}

func TestSessionSubmit(t *testing.T) {
	t.Run("records submissions until complete", func(t *testing.T) {
		session := testSession(t)

		require.NoError(t, session.Submit("Alice", 500))
		assert.False(t, session.Complete())
		assert.Equal(t, []string{"Bob"}, session.Pending())

		require.NoError(t, session.Submit("Bob", 1500))
		assert.True(t, session.Complete())
		assert.Empty(t, session.Pending())
	})

	t.Run("rejects unknown players", func(t *testing.T) {
		session := testSession(t)
		assert.Error(t, session.Submit("Mallory", 100))
	})

	t.Run("rejects negative chips", func(t *testing.T) {
		session := testSession(t)
		assert.Error(t, session.Submit("Alice", -1))
	})

	t.Run("rejects duplicate submissions", func(t *testing.T) {
		session := testSession(t)
		require.NoError(t, session.Submit("Alice", 500))

		err := session.Submit("Alice", 600)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already submitted")

		// First submission stands
		require.NoError(t, session.Submit("Bob", 1500))
		results, _, err := session.Results()
		require.NoError(t, err)
		assert.Equal(t, 500, results[0].FinalChips)
	})
}

func TestSessionResults(t *testing.T) {
	session := testSession(t)

	_, _, err := session.Results()
	require.Error(t, err, "results before completion")

	require.NoError(t, session.Submit("Alice", 500))
	require.NoError(t, session.Submit("Bob", 1500))

	results, check, err := session.Results()
	require.NoError(t, err)
	assert.Nil(t, check)

	require.Len(t, results, 2)
	assert.Equal(t, "Alice", results[0].Name)
	assert.InDelta(t, 5.0, results[0].Amount, 1e-9)
	assert.Zero(t, results[1].Amount)
}

func TestSessionRejectsDuplicateNames(t *testing.T) {
	_, err := NewSession(forfeit.Game{StartingChips: 1000}, []forfeit.Player{
		{Name: "Alice"},
		{Name: "Alice"},
	})
	assert.Error(t, err)
}

func TestSessionRejectsEmptyPlayerList(t *testing.T) {
	_, err := NewSession(forfeit.Game{StartingChips: 1000}, nil)
	assert.Error(t, err)
}
