package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/secrethitler/internal/platform"
)

// Server accepts WebSocket clients and binds each to a room seat. The
// handshake travels in query parameters so a plain browser WebSocket can
// connect without a preliminary HTTP exchange.
type Server struct {
	addr        string
	httpSrv     *http.Server
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc

	rooms    *RoomService
	registry *Registry
	sessions *SessionManager
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger, rooms *RoomService, registry *Registry, sessions *SessionManager) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				// In production, implement proper origin checking
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
		rooms:       rooms,
		registry:    registry,
		sessions:    sessions,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}

	return s
}

// Start starts the WebSocket server. It blocks until Stop closes the
// listener, then returns http.ErrServerClosed.
func (s *Server) Start() error {
	go s.run()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	return s.httpSrv.ListenAndServe()
}

// Stop shuts the listener down so Start returns, then closes every live
// connection and the room workers.
func (s *Server) Stop() error {
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.httpSrv.Shutdown(ctx)

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.rooms.Close()
	return err
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
			s.logger.Info("Client connected", "room", conn.RoomID(), "player", conn.PlayerID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				s.registry.Remove(conn.RoomID(), conn.PlayerID(), conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "room", conn.RoomID(), "player", conn.PlayerID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handshake is the decoded query-parameter handshake.
type handshake struct {
	roomID   string
	playerID string
	name     string
	avatarID string
	create   bool
	resumed  bool
}

// handleWebSocket handles WebSocket upgrade requests. The handshake rides in
// query parameters: either a session token (reconnect) or roomId plus
// playerId (fresh join), with mode=create to open a new room. Missing
// identity rejects the socket with a 1008 close.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	hs, err := s.parseHandshake(r)
	if err != nil {
		s.logger.Warn("Rejected handshake", "error", err, "remote", r.RemoteAddr)
		closeWith(conn, websocket.ClosePolicyViolation, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	if hs.create {
		if err := s.rooms.CreateRoom(ctx, hs.roomID, hs.playerID); err != nil {
			s.logger.Warn("Failed to create room", "room", hs.roomID, "error", err)
			closeWith(conn, websocket.ClosePolicyViolation, err.Error())
			return
		}
	} else if !hs.resumed {
		exists, err := s.rooms.RoomExists(ctx, hs.roomID)
		if err != nil {
			s.logger.Error("Failed to check room", "room", hs.roomID, "error", err)
			closeWith(conn, websocket.CloseInternalServerErr, "internal server error")
			return
		}
		if !exists {
			closeWith(conn, websocket.ClosePolicyViolation, "room does not exist")
			return
		}
	}

	client := NewConnection(conn, hs.roomID, hs.playerID, s.logger, s.rooms)

	// A reconnect displaces the previous socket for the seat.
	if old := s.registry.Add(hs.roomID, hs.playerID, client); old != nil {
		_ = old.Close()
	}

	s.register <- client
	client.Start()

	session := s.sessions.Create(hs.roomID, hs.playerID)
	if frame, err := NewFrame(FrameSession, SessionData{
		Token:    session.Token,
		RoomID:   hs.roomID,
		PlayerID: hs.playerID,
	}); err == nil {
		_ = client.SendFrame(frame)
	}

	// Joining is idempotent, so a reconnect lands here too and gets its
	// STATE_SYNC from the resulting ROOM_UPDATED.
	s.rooms.Dispatch(hs.roomID, platform.Action{
		Type:     platform.ActionJoinRoom,
		PlayerID: hs.playerID,
		Name:     hs.name,
		AvatarID: hs.avatarID,
	})

	go func() {
		<-client.Done()
		s.unregister <- client
	}()
}

// parseHandshake validates the query parameters of an upgrade request.
func (s *Server) parseHandshake(r *http.Request) (handshake, error) {
	q := r.URL.Query()

	if token := q.Get("token"); token != "" {
		session, ok := s.sessions.Resolve(token)
		if !ok {
			return handshake{}, fmt.Errorf("invalid or expired session token")
		}
		return handshake{
			roomID:   session.RoomID,
			playerID: session.PlayerID,
			name:     q.Get("name"),
			avatarID: q.Get("avatarId"),
			resumed:  true,
		}, nil
	}

	hs := handshake{
		roomID:   q.Get("roomId"),
		playerID: q.Get("playerId"),
		name:     q.Get("name"),
		avatarID: q.Get("avatarId"),
		create:   q.Get("mode") == "create",
	}
	if hs.roomID == "" {
		return handshake{}, fmt.Errorf("missing roomId")
	}
	if hs.playerID == "" {
		return handshake{}, fmt.Errorf("missing playerId")
	}
	if hs.name == "" {
		hs.name = hs.playerID
	}
	if hs.avatarID == "" {
		hs.avatarID = "avatar-01"
	}
	return hs, nil
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// closeWith sends a close frame with the given code and drops the socket.
func closeWith(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(writeWait)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
	_ = conn.Close()
}
