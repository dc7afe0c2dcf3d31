package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/secrethitler/internal/engine"
	"github.com/lox/secrethitler/internal/platform"
	"github.com/lox/secrethitler/internal/store"
)

type roomFixture struct {
	svc      *RoomService
	store    *store.MemoryStore
	registry *Registry
	conns    map[string]*Connection
}

func newRoomFixture(t *testing.T) *roomFixture {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	st := store.NewMemoryStore(time.Hour)
	registry := NewRegistry()
	reducer := platform.NewReducer(engine.NewWithSeed(42))
	svc := NewRoomService(st, reducer, registry, logger, engine.DefaultSanitizeOptions())
	t.Cleanup(svc.Close)

	return &roomFixture{svc: svc, store: st, registry: registry, conns: map[string]*Connection{}}
}

// connect registers a fake connection for the player without starting pumps;
// frames pile up in its send buffer for inspection.
func (f *roomFixture) connect(roomID, playerID string) *Connection {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	conn := NewConnection(nil, roomID, playerID, logger, f.svc)
	f.registry.Add(roomID, playerID, conn)
	f.conns[playerID] = conn
	return conn
}

// frames drains everything queued on the player's connection.
func (f *roomFixture) frames(playerID string) []*Frame {
	var out []*Frame
	for {
		select {
		case fr := <-f.conns[playerID].send:
			out = append(out, fr)
		default:
			return out
		}
	}
}

func (f *roomFixture) join(t *testing.T, roomID, playerID, name string) {
	t.Helper()
	f.connect(roomID, playerID)
	f.svc.process(roomID, platform.Action{Type: platform.ActionJoinRoom, PlayerID: playerID, Name: name})
}

func (f *roomFixture) loadRoom(t *testing.T, roomID string) *platform.RoomState {
	t.Helper()
	data, err := f.store.Load(context.Background(), roomID)
	require.NoError(t, err)
	var room platform.RoomState
	require.NoError(t, json.Unmarshal(data, &room))
	return &room
}

func frameTypes(frames []*Frame) []FrameType {
	types := make([]FrameType, len(frames))
	for i, fr := range frames {
		types[i] = fr.Type
	}
	return types
}

func TestCreateRoom(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.CreateRoom(ctx, "room1", "p1"))

	exists, err := f.svc.RoomExists(ctx, "room1")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, f.svc.CreateRoom(ctx, "room1", "p2"), "duplicate room id")
}

func TestJoinBroadcastsStateSync(t *testing.T) {
	f := newRoomFixture(t)
	require.NoError(t, f.svc.CreateRoom(context.Background(), "room1", ""))

	f.join(t, "room1", "p1", "Alice")
	f.join(t, "room1", "p2", "Bob")

	// Both viewers got a sync for the second join; Alice also has one from
	// her own.
	p1Frames := f.frames("p1")
	require.NotEmpty(t, p1Frames)
	assert.Equal(t, FrameStateSync, p1Frames[len(p1Frames)-1].Type)

	p2Frames := f.frames("p2")
	require.Len(t, p2Frames, 1)

	var view platform.RoomState
	require.NoError(t, json.Unmarshal(p2Frames[0].Data, &view))
	assert.Len(t, view.Players, 2)

	room := f.loadRoom(t, "room1")
	assert.Len(t, room.Players, 2)
	assert.Equal(t, "p1", room.OwnerID)
}

func TestUnknownRoomSendsError(t *testing.T) {
	f := newRoomFixture(t)
	f.connect("nowhere", "p1")

	f.svc.process("nowhere", platform.Action{Type: platform.ActionJoinRoom, PlayerID: "p1", Name: "Alice"})

	frames := f.frames("p1")
	require.Len(t, frames, 1)
	require.Equal(t, FrameError, frames[0].Type)

	var data ErrorData
	require.NoError(t, json.Unmarshal(frames[0].Data, &data))
	assert.Equal(t, "room_not_found", data.Code)
}

func TestStartGameUsesRegistryRoster(t *testing.T) {
	f := newRoomFixture(t)
	require.NoError(t, f.svc.CreateRoom(context.Background(), "room1", ""))

	for i := 1; i <= 5; i++ {
		f.join(t, "room1", fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
	}
	for i := 1; i <= 5; i++ {
		f.frames(fmt.Sprintf("p%d", i))
	}

	// Client-supplied roster data is discarded; the registry decides who is
	// seated.
	f.svc.process("room1", platform.Action{
		Type:         platform.ActionStartGame,
		PlayerID:     "p1",
		ConnectedIDs: []string{"bogus"},
	})

	room := f.loadRoom(t, "room1")
	require.NotNil(t, room.ActiveGame)
	assert.NotEmpty(t, room.ActiveGame.GameID)
	assert.Len(t, room.ActiveGame.State.Players, 5)
	assert.Equal(t, platform.PhaseInGame, room.Phase)

	// Each player sees their own role and exactly one private ROLE_ASSIGNED.
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("p%d", i)
		frames := f.frames(id)

		roleEvents := 0
		var sync *Frame
		for _, fr := range frames {
			switch fr.Type {
			case FrameGameEvent:
				var ev GameEventData
				require.NoError(t, json.Unmarshal(fr.Data, &ev))
				if ev.Type == string(engine.EventRoleAssigned) {
					roleEvents++
				}
			case FrameStateSync:
				sync = fr
			}
		}
		assert.Equal(t, 1, roleEvents, "%s gets exactly their own role event", id)
		require.NotNil(t, sync, "%s gets a state sync", id)

		var view platform.RoomState
		require.NoError(t, json.Unmarshal(sync.Data, &view))
		require.NotNil(t, view.ActiveGame)

		// In the sanitized view, no other player may appear non-liberal
		// unless the viewer's role entitles them to see it.
		viewer := view.ActiveGame.State.PlayerByID(id)
		require.NotNil(t, viewer)
		if viewer.Role == engine.RoleLiberal {
			for _, p := range view.ActiveGame.State.Players {
				if p.ID != id {
					assert.Equal(t, engine.RoleLiberal, p.Role)
				}
			}
		}
		assert.Empty(t, view.ActiveGame.State.PolicyDeck, "deck never leaves the server")
	}
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.CreateRoom(ctx, "room1", ""))

	f.join(t, "room1", "p1", "Alice")
	f.svc.process("room1", platform.Action{Type: platform.ActionLeaveRoom, PlayerID: "p1"})

	exists, err := f.svc.RoomExists(ctx, "room1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDispatchProcessesInOrder(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.CreateRoom(ctx, "room1", ""))
	f.connect("room1", "p1")
	f.connect("room1", "p2")

	f.svc.Dispatch("room1", platform.Action{Type: platform.ActionJoinRoom, PlayerID: "p1", Name: "Alice"})
	f.svc.Dispatch("room1", platform.Action{Type: platform.ActionJoinRoom, PlayerID: "p2", Name: "Bob"})
	f.svc.Dispatch("room1", platform.Action{Type: platform.ActionSelectAvatar, PlayerID: "p2", AvatarID: "fox"})

	require.Eventually(t, func() bool {
		data, err := f.store.Load(ctx, "room1")
		if err != nil {
			return false
		}
		var room platform.RoomState
		if json.Unmarshal(data, &room) != nil {
			return false
		}
		p2 := room.PlayerByID("p2")
		return len(room.Players) == 2 && p2 != nil && p2.AvatarID == "fox"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDispatchSurvivesIdleRetirement(t *testing.T) {
	f := newRoomFixture(t)
	f.svc.idleTimeout = 10 * time.Millisecond
	ctx := context.Background()
	require.NoError(t, f.svc.CreateRoom(ctx, "room1", ""))
	f.connect("room1", "p1")
	f.connect("room1", "p2")

	f.svc.Dispatch("room1", platform.Action{Type: platform.ActionJoinRoom, PlayerID: "p1", Name: "Alice"})

	// Let the idle worker retire.
	require.Eventually(t, func() bool {
		f.svc.mu.Lock()
		defer f.svc.mu.Unlock()
		return len(f.svc.workers) == 0
	}, 2*time.Second, 5*time.Millisecond)

	// A dispatch after retirement must spawn a fresh worker and apply the
	// action rather than queueing it into a dead inbox.
	f.svc.Dispatch("room1", platform.Action{Type: platform.ActionJoinRoom, PlayerID: "p2", Name: "Bob"})

	require.Eventually(t, func() bool {
		data, err := f.store.Load(ctx, "room1")
		if err != nil {
			return false
		}
		var room platform.RoomState
		if json.Unmarshal(data, &room) != nil {
			return false
		}
		return len(room.Players) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRejectionDoesNotMutateRoom(t *testing.T) {
	f := newRoomFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.CreateRoom(ctx, "room1", ""))

	f.join(t, "room1", "p1", "Alice")
	f.frames("p1")

	// A non-host start attempt fails and leaves the room in the lobby.
	f.connect("room1", "p2")
	f.svc.process("room1", platform.Action{Type: platform.ActionJoinRoom, PlayerID: "p2", Name: "Bob"})
	f.frames("p2")
	f.svc.process("room1", platform.Action{Type: platform.ActionStartGame, PlayerID: "p2"})

	frames := f.frames("p2")
	require.NotEmpty(t, frames)
	assert.Contains(t, frameTypes(frames), FrameError)

	room := f.loadRoom(t, "room1")
	assert.Equal(t, platform.PhaseLobby, room.Phase)
	assert.Nil(t, room.ActiveGame)
}
