package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/runnerspoker/internal/forfeit"
)

// startTestServer serves a two-player session over httptest and returns
// the ws:// URL for its /ws endpoint.
func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	deadline := time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)
	session, err := NewSession(forfeit.Game{
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
	srv := NewServer("", session, logger, clk)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop()
		ts.Close()
	})

	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType MessageType, data interface{}) {
	t.Helper()
	msg, err := NewMessage(msgType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

// recv reads messages until one of the given type arrives, failing the
// test on read errors or unexpected error messages.
func recv(t *testing.T, conn *websocket.Conn, want MessageType) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == want {
			return &msg
		}
		if msg.Type == MessageTypeError {
			var errData ErrorData
			require.NoError(t, json.Unmarshal(msg.Data, &errData))
			t.Fatalf("unexpected error message: %s (%s)", errData.Message, errData.Code)
		}
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	_, url := startTestServer(t)

	alice := dial(t, url)
	send(t, alice, MessageTypeJoin, JoinData{PlayerName: "Alice"})

	joined := recv(t, alice, MessageTypeJoined)
	var joinedData JoinedData
	require.NoError(t, json.Unmarshal(joined.Data, &joinedData))
	assert.Equal(t, "equal", joinedData.Mode)
	assert.Equal(t, 1000, joinedData.StartingChips)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, joinedData.Players)

	send(t, alice, MessageTypeSubmit, SubmitData{FinalChips: 500})
	submitted := recv(t, alice, MessageTypeSubmitted)
	var submittedData SubmittedData
	require.NoError(t, json.Unmarshal(submitted.Data, &submittedData))
	assert.Equal(t, []string{"Bob"}, submittedData.Pending)

	bob := dial(t, url)
	send(t, bob, MessageTypeJoin, JoinData{PlayerName: "Bob"})
	recv(t, bob, MessageTypeJoined)
	send(t, bob, MessageTypeSubmit, SubmitData{FinalChips: 1500})

	// Both connections receive the results broadcast
	for _, conn := range []*websocket.Conn{alice, bob} {
		results := recv(t, conn, MessageTypeResults)
		var data ResultsData
		require.NoError(t, json.Unmarshal(results.Data, &data))

		require.Len(t, data.Rows, 2)
		assert.Equal(t, "Alice", data.Rows[0].Player)
		assert.InDelta(t, 5.0, data.Rows[0].Forfeit, 1e-9)
		assert.Equal(t, "5", data.Rows[0].Display)
		assert.Zero(t, data.Rows[1].Forfeit)

		require.Len(t, data.Summaries, 2)
		assert.Equal(t, "Alice → 5 km to run by 30 Sep 2026.", data.Summaries[0])
		assert.Equal(t, "Bob → No run required! (0 km)", data.Summaries[1])
		assert.Empty(t, data.Warning)
	}
}

func TestJoinUnknownPlayer(t *testing.T) {
	_, url := startTestServer(t)

	conn := dial(t, url)
	send(t, conn, MessageTypeJoin, JoinData{PlayerName: "Mallory"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, MessageTypeError, msg.Type)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "join_failed", errData.Code)
}

func TestSubmitBeforeJoin(t *testing.T) {
	_, url := startTestServer(t)

	conn := dial(t, url)
	send(t, conn, MessageTypeSubmit, SubmitData{FinalChips: 100})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, MessageTypeError, msg.Type)

	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "not_joined", errData.Code)
}

func TestHealthEndpoint(t *testing.T) {
	_, url := startTestServer(t)

	httpURL := "http" + strings.TrimPrefix(strings.TrimSuffix(url, "/ws"), "ws") + "/health"
	resp, err := http.Get(httpURL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
