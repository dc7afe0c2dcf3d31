package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/secrethitler/internal/engine"
	"github.com/lox/secrethitler/internal/platform"
	"github.com/lox/secrethitler/internal/store"
)

const (
	// Per-room action queue depth. A full queue rejects rather than blocks
	// the reader pump.
	roomInboxSize = 64

	// Workers for rooms with no traffic retire after this long.
	roomIdleTimeout = 5 * time.Minute

	// Budget for one load-reduce-save cycle against the store.
	roomOpTimeout = 10 * time.Second
)

// RoomService owns every room's load-reduce-save-broadcast cycle. Each room
// gets one worker goroutine with a FIFO inbox, so all mutations for a room
// apply in arrival order and concurrent actions can never interleave a
// read-modify-write.
type RoomService struct {
	store    store.Store
	reducer  *platform.Reducer
	registry *Registry
	logger   *log.Logger
	opts     engine.SanitizeOptions

	ctx    context.Context
	cancel context.CancelFunc

	idleTimeout time.Duration

	mu      sync.Mutex
	workers map[string]*roomWorker
}

type roomWorker struct {
	roomID string
	inbox  chan platform.Action
}

// NewRoomService creates the room orchestrator.
func NewRoomService(st store.Store, reducer *platform.Reducer, registry *Registry, logger *log.Logger, opts engine.SanitizeOptions) *RoomService {
	ctx, cancel := context.WithCancel(context.Background())
	return &RoomService{
		store:       st,
		reducer:     reducer,
		registry:    registry,
		logger:      logger.WithPrefix("rooms"),
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		idleTimeout: roomIdleTimeout,
		workers:     make(map[string]*roomWorker),
	}
}

// Close stops all room workers.
func (s *RoomService) Close() {
	s.cancel()
}

// CreateRoom persists a fresh lobby. Fails if the room id is taken.
func (s *RoomService) CreateRoom(ctx context.Context, roomID, ownerID string) error {
	exists, err := s.store.Exists(ctx, roomID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("room %s already exists", roomID)
	}

	room := platform.NewRoomState(roomID, ownerID, time.Now().UTC())
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, roomID, data)
}

// RoomExists reports whether the room is present in the store.
func (s *RoomService) RoomExists(ctx context.Context, roomID string) (bool, error) {
	return s.store.Exists(ctx, roomID)
}

// Dispatch queues an action for the room's worker, spawning one if needed.
// The enqueue happens under the service lock: an idle worker retires under
// the same lock only when its inbox is empty, so an enqueued action is always
// drained. The call returns once the action is queued; results arrive over
// the players' connections.
func (s *RoomService) Dispatch(roomID string, action platform.Action) {
	s.mu.Lock()
	w, ok := s.workers[roomID]
	if !ok {
		w = &roomWorker{roomID: roomID, inbox: make(chan platform.Action, roomInboxSize)}
		s.workers[roomID] = w
		go s.run(w)
	}

	select {
	case w.inbox <- action:
		s.mu.Unlock()
	default:
		s.mu.Unlock()
		s.logger.Warn("room inbox full, rejecting action",
			"room", roomID, "player", action.PlayerID, "type", action.Type)
		s.sendError(roomID, action.PlayerID, "room_busy", "room is processing too many actions")
	}
}

// run drains one room's inbox until the service stops or the room goes idle.
func (s *RoomService) run(w *roomWorker) {
	idle := time.NewTimer(s.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case action := <-w.inbox:
			s.process(w.roomID, action)
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(s.idleTimeout)

		case <-idle.C:
			// Retire only when the inbox is empty under the lock. Dispatch
			// enqueues under the same lock, so an action either lands before
			// this check and is drained, or finds the worker gone and spawns
			// a fresh one.
			s.mu.Lock()
			if len(w.inbox) == 0 {
				delete(s.workers, w.roomID)
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()
			idle.Reset(s.idleTimeout)

		case <-s.ctx.Done():
			return
		}
	}
}

// process runs one full load-reduce-save-broadcast cycle.
func (s *RoomService) process(roomID string, action platform.Action) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic applying action",
				"room", roomID, "player", action.PlayerID, "type", action.Type, "panic", r)
			s.sendError(roomID, action.PlayerID, "internal_error", "internal server error")
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, roomOpTimeout)
	defer cancel()

	data, err := s.store.Load(ctx, roomID)
	if err == store.ErrNotFound {
		s.sendError(roomID, action.PlayerID, "room_not_found", "room does not exist")
		return
	}
	if err != nil {
		s.logger.Error("failed to load room", "room", roomID, "error", err)
		s.sendError(roomID, action.PlayerID, "store_error", "failed to load room")
		return
	}

	var room platform.RoomState
	if err := json.Unmarshal(data, &room); err != nil {
		s.logger.Error("corrupt room record", "room", roomID, "error", err)
		s.sendError(roomID, action.PlayerID, "store_error", "room record is corrupt")
		return
	}

	// The connected roster and game id are server facts, never client input.
	if action.Type == platform.ActionStartGame {
		action.ConnectedIDs = s.registry.RoomPlayerIDs(roomID)
		if action.GameID == "" {
			action.GameID = uuid.NewString()
		}
	}

	result := s.reducer.Reduce(&room, action)

	if result.Delete {
		if err := s.store.Delete(ctx, roomID); err != nil {
			s.logger.Error("failed to delete room", "room", roomID, "error", err)
		}
	} else {
		// Save even on rejection: any traffic refreshes the room's TTL.
		out, err := json.Marshal(result.State)
		if err != nil {
			s.logger.Error("failed to marshal room", "room", roomID, "error", err)
			s.sendError(roomID, action.PlayerID, "store_error", "failed to save room")
			return
		}
		if err := s.store.Save(ctx, roomID, out); err != nil {
			s.logger.Error("failed to save room", "room", roomID, "error", err)
			s.sendError(roomID, action.PlayerID, "store_error", "failed to save room")
			return
		}
	}

	s.broadcast(roomID, result)
}

// broadcast fans the reduction's events out to connections. ROOM_UPDATED
// becomes one sanitized STATE_SYNC per viewer; targeted events reach only
// their recipient.
func (s *RoomService) broadcast(roomID string, result platform.Result) {
	for _, ev := range result.Events {
		switch ev.Type {
		case platform.EventRoomUpdated:
			s.syncRoom(roomID, result.State)

		case platform.EventError:
			data, ok := ev.Data.(platform.ErrorData)
			if !ok {
				continue
			}
			s.sendError(roomID, ev.Target, "action_rejected", data.Message)

		case platform.EventGame:
			if ev.Game == nil {
				continue
			}
			frame, err := NewFrame(FrameGameEvent, GameEventData{
				Type: string(ev.Game.Type),
				Data: ev.Game.Data,
			})
			if err != nil {
				s.logger.Error("failed to encode game event", "room", roomID, "error", err)
				continue
			}
			if ev.Target != "" {
				if conn := s.registry.PlayerConn(roomID, ev.Target); conn != nil {
					_ = conn.SendFrame(frame)
				}
				continue
			}
			for _, conn := range s.registry.RoomConns(roomID) {
				_ = conn.SendFrame(frame)
			}
		}
	}
}

// syncRoom sends each connected viewer their own sanitized projection. The
// projection depends on the viewer, so frames are built per recipient.
func (s *RoomService) syncRoom(roomID string, state *platform.RoomState) {
	for playerID, conn := range s.registry.RoomConns(roomID) {
		view := platform.SanitizeForPlayer(state, playerID, s.opts)
		frame, err := NewFrame(FrameStateSync, view)
		if err != nil {
			s.logger.Error("failed to encode state sync", "room", roomID, "player", playerID, "error", err)
			continue
		}
		_ = conn.SendFrame(frame)
	}
}

func (s *RoomService) sendError(roomID, playerID, code, message string) {
	conn := s.registry.PlayerConn(roomID, playerID)
	if conn == nil {
		return
	}
	frame, err := NewFrame(FrameError, ErrorData{Code: code, Message: message})
	if err != nil {
		return
	}
	_ = conn.SendFrame(frame)
}
