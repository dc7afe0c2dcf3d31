package platform

import (
	"fmt"

	"github.com/lox/secrethitler/internal/engine"
)

// Reducer applies platform actions to room state. Like the game engine it is
// pure apart from the injected engine's randomness: callers own loading,
// persisting and fanning out the result.
type Reducer struct {
	engine *engine.Engine
}

// NewReducer creates a platform reducer around the given game engine.
func NewReducer(eng *engine.Engine) *Reducer {
	return &Reducer{engine: eng}
}

// Reduce validates and applies one action. Rejections come back as a targeted
// ERROR event with the state untouched; every accepted action ends with a
// ROOM_UPDATED event so the gateway re-syncs all viewers.
func (r *Reducer) Reduce(state *RoomState, action Action) Result {
	switch action.Type {
	case ActionJoinRoom:
		return r.joinRoom(state, action)
	case ActionLeaveRoom:
		return r.leaveRoom(state, action)
	case ActionSelectAvatar:
		return r.selectAvatar(state, action)
	case ActionVoteGame:
		return r.voteGame(state, action)
	case ActionStartGame:
		return r.startGame(state, action)
	case ActionGameAction:
		return r.gameAction(state, action)
	default:
		return reject(state, action, fmt.Sprintf("unknown action type %q", action.Type))
	}
}

func (r *Reducer) joinRoom(state *RoomState, action Action) Result {
	if state.PlayerByID(action.PlayerID) != nil {
		// Rejoin after a reconnect. The roster entry survives disconnects,
		// so this is a no-op apart from the re-sync.
		return accepted(state)
	}
	if state.Phase == PhaseInGame {
		return reject(state, action, "a game is in progress")
	}
	if len(state.Players) >= MaxRoomSize {
		return reject(state, action, "room is full")
	}

	next := state.Clone()
	player := Player{
		ID:       action.PlayerID,
		Name:     action.Name,
		AvatarID: action.AvatarID,
	}
	if player.Name == "" {
		player.Name = action.PlayerID
	}
	if len(next.Players) == 0 {
		player.IsHost = true
		next.OwnerID = player.ID
	}
	next.Players = append(next.Players, player)
	return accepted(next)
}

func (r *Reducer) leaveRoom(state *RoomState, action Action) Result {
	if state.PlayerByID(action.PlayerID) == nil {
		return accepted(state)
	}

	next := state.Clone()
	players := next.Players[:0]
	wasHost := false
	for _, p := range next.Players {
		if p.ID == action.PlayerID {
			wasHost = p.IsHost
			continue
		}
		players = append(players, p)
	}
	next.Players = players
	delete(next.GameVotes, action.PlayerID)

	// The room dies with its last member unless a game is still running;
	// mid-game the roster entry may return via rejoin.
	if len(next.Players) == 0 && next.Phase != PhaseInGame {
		return Result{State: next, Delete: true, Events: []Event{{Type: EventRoomUpdated}}}
	}

	// Host promotion goes to the earliest remaining joiner.
	if wasHost && len(next.Players) > 0 {
		next.Players[0].IsHost = true
		next.OwnerID = next.Players[0].ID
	}
	return accepted(next)
}

func (r *Reducer) selectAvatar(state *RoomState, action Action) Result {
	player := state.PlayerByID(action.PlayerID)
	if player == nil {
		return reject(state, action, "not in this room")
	}
	if state.Phase == PhaseInGame {
		return reject(state, action, "cannot change avatar mid-game")
	}

	next := state.Clone()
	next.PlayerByID(action.PlayerID).AvatarID = action.AvatarID
	return accepted(next)
}

func (r *Reducer) voteGame(state *RoomState, action Action) Result {
	if state.PlayerByID(action.PlayerID) == nil {
		return reject(state, action, "not in this room")
	}
	if state.Phase == PhaseInGame {
		return reject(state, action, "a game is in progress")
	}
	if action.GameID == "" {
		return reject(state, action, "missing game id")
	}

	next := state.Clone()
	next.Phase = PhaseGameVote
	next.GameVotes[action.PlayerID] = action.GameID
	return accepted(next)
}

func (r *Reducer) startGame(state *RoomState, action Action) Result {
	if action.PlayerID != state.OwnerID {
		return reject(state, action, "only the host can start the game")
	}
	if state.Phase == PhaseInGame {
		return reject(state, action, "a game is in progress")
	}

	// The roster handed to the engine is the intersection of seated players
	// and live connections, so a ghost seat can never hold a role.
	roster := connectedRoster(state.Players, action.ConnectedIDs)
	if len(roster) < 5 || len(roster) > MaxRoomSize {
		return reject(state, action, fmt.Sprintf("need 5 to 10 connected players, have %d", len(roster)))
	}

	lobby := engine.NewLobbyState(state.OwnerID)
	res := r.engine.Reduce(lobby, engine.Action{
		Type:     engine.ActionStartGame,
		PlayerID: action.PlayerID,
		Roster:   roster,
	})
	if res.State.Phase == engine.PhaseLobby {
		// Initialization was rejected; relay the engine's error events.
		return Result{State: state, Events: wrapGameEvents(res.Events)}
	}

	next := state.Clone()
	next.Phase = PhaseInGame
	next.ActiveGame = &ActiveGame{GameID: action.GameID, State: res.State}
	next.GameVotes = map[string]string{}

	events := wrapGameEvents(res.Events)
	events = append(events, Event{Type: EventRoomUpdated})
	return Result{State: next, Events: events}
}

func (r *Reducer) gameAction(state *RoomState, action Action) Result {
	if state.ActiveGame == nil {
		return reject(state, action, "no active game")
	}
	if action.Game == nil {
		return reject(state, action, "missing game action")
	}
	if state.PlayerByID(action.PlayerID) == nil && state.ActiveGame.State.PlayerByID(action.PlayerID) == nil {
		return reject(state, action, "not in this room")
	}

	ga := *action.Game
	ga.PlayerID = action.PlayerID

	res := r.engine.Reduce(state.ActiveGame.State, ga)

	next := state.Clone()
	next.ActiveGame.State = res.State
	if res.State.Phase == engine.PhaseGameOver {
		next.Phase = PhaseGameOver
	}

	events := wrapGameEvents(res.Events)
	events = append(events, Event{Type: EventRoomUpdated})
	return Result{State: next, Events: events}
}

// connectedRoster filters the seated players down to those with a live
// connection, preserving join order.
func connectedRoster(players []Player, connectedIDs []string) []engine.RosterEntry {
	connected := make(map[string]struct{}, len(connectedIDs))
	for _, id := range connectedIDs {
		connected[id] = struct{}{}
	}
	roster := make([]engine.RosterEntry, 0, len(players))
	for _, p := range players {
		if _, ok := connected[p.ID]; !ok {
			continue
		}
		roster = append(roster, engine.RosterEntry{ID: p.ID, Name: p.Name, AvatarID: p.AvatarID})
	}
	return roster
}

// wrapGameEvents lifts engine events into platform events, carrying the
// engine target through for private delivery.
func wrapGameEvents(events []engine.Event) []Event {
	out := make([]Event, 0, len(events))
	for i := range events {
		ev := events[i]
		out = append(out, Event{Type: EventGame, Target: ev.Target, Game: &ev})
	}
	return out
}

func accepted(state *RoomState) Result {
	return Result{State: state, Events: []Event{{Type: EventRoomUpdated}}}
}

func reject(state *RoomState, action Action, message string) Result {
	return Result{State: state, Events: []Event{{
		Type:   EventError,
		Target: action.PlayerID,
		Data:   ErrorData{Message: message},
	}}}
}
