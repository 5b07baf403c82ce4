package client

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/runnerspoker/internal/forfeit"
	"github.com/lox/runnerspoker/internal/server"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://example.com", "wss://example.com/ws"},
		{"ws://localhost:8080/ws", "ws://localhost:8080/ws"},
		{"wss://example.com/ws", "wss://example.com/ws"},
		{"http://localhost:8080/", "ws://localhost:8080/ws"},
	}

	for _, tc := range cases {
		got, err := normalizeURL(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "normalizeURL(%q)", tc.in)
	}
}

func TestRunSubmitsAndPrintsResults(t *testing.T) {
	deadline := time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)
	session, err := server.NewSession(forfeit.Game{
		Mode:          forfeit.Equal,
		Forfeit:       forfeit.Run,
		StartingChips: 1000,
		MaxForfeit:    10,
		Deadline:      deadline,
	}, []forfeit.Player{
		{Name: "Alice"},
		{Name: "Bob"},
	})
	require.NoError(t, err)

	clk := quartz.NewMock(t)
	clk.Set(deadline)

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	srv := server.NewServer("", session, logger, clk)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop()
		ts.Close()
	})

	// Bob submits first in the background so Alice's Run sees completion
	require.NoError(t, session.Submit("Bob", 1500))

	var out strings.Builder
	err = Run(Config{Server: ts.URL, Name: "Alice", Chips: 500}, logger, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Joined equal game")
	assert.Contains(t, out.String(), "Your forfeit: 5")
	assert.Contains(t, out.String(), "Alice → 5 km to run by 30 Sep 2026.")
	assert.Contains(t, out.String(), "Bob → No run required! (0 km)")
}

func TestRunRejectedJoin(t *testing.T) {
	session, err := server.NewSession(forfeit.Game{
		Mode:          forfeit.Equal,
		Forfeit:       forfeit.Run,
		StartingChips: 1000,
		MaxForfeit:    10,
		Deadline:      time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC),
	}, []forfeit.Player{{Name: "Alice"}})
	require.NoError(t, err)

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	srv := server.NewServer("", session, logger, quartz.NewMock(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop()
		ts.Close()
	})

	var out strings.Builder
	err = Run(Config{Server: ts.URL, Name: "Mallory", Chips: 100}, logger, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not part of this game")
}
