package server

import (
	"encoding/json"
	"time"

	"github.com/lox/runnerspoker/internal/forfeit"
)

// MessageType identifies the payload carried by a Message
type MessageType string

const (
	// Client → Server
	MessageTypeJoin   MessageType = "join"
	MessageTypeSubmit MessageType = "submit_chips"

	// Server → Client
	MessageTypeJoined    MessageType = "joined"
	MessageTypeSubmitted MessageType = "submitted"
	MessageTypeResults   MessageType = "results"
	MessageTypeError     MessageType = "error"
)

// Message is the base WebSocket message envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Client → Server payloads

type JoinData struct {
	PlayerName string `json:"playerName"`
}

type SubmitData struct {
	FinalChips int `json:"finalChips"`
}

// Server → Client payloads

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JoinedData acknowledges a join and describes the game being played
type JoinedData struct {
	Mode          string   `json:"mode"`
	ForfeitType   string   `json:"forfeitType"`
	Unit          string   `json:"unit"`
	StartingChips int      `json:"startingChips"`
	Deadline      string   `json:"deadline"`
	Players       []string `json:"players"`
	Pending       []string `json:"pending"`
}

// SubmittedData acknowledges a chip submission and reports who is still due
type SubmittedData struct {
	PlayerName string   `json:"playerName"`
	Pending    []string `json:"pending"`
}

// ResultRow is one player's computed forfeit on the wire
type ResultRow struct {
	Player      string  `json:"player"`
	Fitness     string  `json:"fitness,omitempty"`
	PlayerMax   float64 `json:"playerMax,omitempty"`
	FinalChips  int     `json:"finalChips"`
	ChipPercent float64 `json:"chipPercent"`
	Forfeit     float64 `json:"forfeit"`
	Display     string  `json:"display"`
}

// ResultsData carries the final results broadcast to every connection
type ResultsData struct {
	Rows      []ResultRow `json:"rows"`
	Summaries []string    `json:"summaries"`
	Warning   string      `json:"warning,omitempty"`
}

// ResultRowFromForfeit converts a calculator result for the wire
func ResultRowFromForfeit(r forfeit.Result) ResultRow {
	return ResultRow{
		Player:      r.Name,
		Fitness:     string(r.Fitness),
		PlayerMax:   r.PlayerMax,
		FinalChips:  r.FinalChips,
		ChipPercent: r.ChipPercent(),
		Forfeit:     r.Amount,
		Display:     forfeit.FormatAmount(r.Amount),
	}
}
