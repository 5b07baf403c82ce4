// Package server hosts a shared forfeit session over WebSockets. The host
// configures the game; each player connects, joins by name and submits
// their own final chip count. Once everyone has reported, the computed
// forfeits are broadcast to all connections.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/runnerspoker/internal/forfeit"
)

// Server accepts WebSocket connections for a single session
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	session     *Session
	clock       quartz.Clock
}

// NewServer creates a server for the given session
func NewServer(addr string, session *Session, logger *log.Logger, clock quartz.Clock) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Sessions are short-lived and carry no credentials
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		session:     session,
		clock:       clock,
	}

	// Lifecycle loop runs for the life of the server so Handler can be
	// mounted directly in tests without calling Start
	go s.run()

	return s
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start runs the server until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-s.ctx.Done():
		}
		_ = httpServer.Shutdown(context.Background())
	}()

	s.logger.Info("Starting session server", "addr", s.addr, "players", s.session.PlayerNames())
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down and closes all connections
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Broadcast sends a message to every connection
func (s *Server) Broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send message to client", "error", err, "player", conn.GetPlayer())
		}
	}

	s.logger.Debug("Broadcast message", "type", msg.Type, "recipients", len(s.connections))
}

// broadcastResults computes and broadcasts the final forfeits. Called by a
// connection after the last submission lands.
func (s *Server) broadcastResults() {
	results, check, err := s.session.Results()
	if err != nil {
		s.logger.Debug("Results not ready", "error", err)
		return
	}

	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = ResultRowFromForfeit(r)
	}

	data := ResultsData{
		Rows:      rows,
		Summaries: forfeit.Summaries(s.session.Game(), results, s.clock),
	}
	if check != nil {
		data.Warning = check.Warning()
	}

	msg, err := NewMessage(MessageTypeResults, data)
	if err != nil {
		s.logger.Error("Failed to create results message", "error", err)
		return
	}

	s.logger.Info("All chip counts in, broadcasting forfeits", "players", len(rows))
	s.Broadcast(msg)
}
