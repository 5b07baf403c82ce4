// Package client implements the player side of a forfeit session: join a
// hosted game by name, submit one final chip count, and wait for the
// results broadcast.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/runnerspoker/internal/server"
)

// Config holds the submit command's settings
type Config struct {
	// Server is the session server URL; http(s) schemes are rewritten to ws(s)
	Server string
	// Name must match a player configured in the hosted game
	Name string
	// Chips is this player's final chip count
	Chips int
}

// Run connects, joins, submits and blocks until the results broadcast
// arrives, writing progress and the final summaries to out.
func Run(cfg Config, logger *log.Logger, out io.Writer) error {
	wsURL, err := normalizeURL(cfg.Server)
	if err != nil {
		return err
	}

	logger.Info("Connecting to session server", "url", wsURL)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := sendMessage(conn, server.MessageTypeJoin, server.JoinData{PlayerName: cfg.Name}); err != nil {
		return err
	}

	for {
		var msg server.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}

		switch msg.Type {
		case server.MessageTypeJoined:
			var data server.JoinedData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return fmt.Errorf("bad joined payload: %w", err)
			}
			fmt.Fprintf(out, "Joined %s game (%s, starting chips %d, deadline %s)\n",
				data.Mode, data.ForfeitType, data.StartingChips, data.Deadline)

			if err := sendMessage(conn, server.MessageTypeSubmit, server.SubmitData{FinalChips: cfg.Chips}); err != nil {
				return err
			}

		case server.MessageTypeSubmitted:
			var data server.SubmittedData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return fmt.Errorf("bad submitted payload: %w", err)
			}
			if len(data.Pending) > 0 {
				fmt.Fprintf(out, "Chips submitted. Waiting on: %v\n", data.Pending)
			} else {
				fmt.Fprintln(out, "Chips submitted.")
			}

		case server.MessageTypeResults:
			var data server.ResultsData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return fmt.Errorf("bad results payload: %w", err)
			}
			printResults(out, cfg.Name, data)
			return nil

		case server.MessageTypeError:
			var data server.ErrorData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return fmt.Errorf("bad error payload: %w", err)
			}
			return fmt.Errorf("server rejected request: %s (%s)", data.Message, data.Code)

		default:
			logger.Debug("Ignoring message", "type", msg.Type)
		}
	}
}

func printResults(out io.Writer, name string, data server.ResultsData) {
	if data.Warning != "" {
		fmt.Fprintln(out, data.Warning)
		fmt.Fprintln(out)
	}

	for _, row := range data.Rows {
		if row.Player == name {
			fmt.Fprintf(out, "Your forfeit: %s\n\n", row.Display)
			break
		}
	}

	for _, line := range data.Summaries {
		fmt.Fprintln(out, line)
	}
}

func sendMessage(conn *websocket.Conn, msgType server.MessageType, data interface{}) error {
	msg, err := server.NewMessage(msgType, data)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msgType, err)
	}
	return nil
}

// normalizeURL rewrites http(s) schemes to ws(s) and defaults the path
// to /ws, so users can paste either form of the server address.
func normalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		u.Scheme = "ws"
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	return u.String(), nil
}
