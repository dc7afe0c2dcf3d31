package platform

import (
	"time"

	"github.com/lox/secrethitler/internal/engine"
)

// Phase is the platform-level room lifecycle, distinct from the in-game FSM.
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseGameVote Phase = "GAME_VOTE"
	PhaseInGame   Phase = "IN_GAME"
	PhaseGameOver Phase = "GAME_OVER"
)

// MaxRoomSize caps the pre-game roster. Matches the largest role table.
const MaxRoomSize = 10

// Player is one entry in the pre-game roster.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AvatarID string `json:"avatarId"`
	IsReady  bool   `json:"isReady"`
	IsHost   bool   `json:"isHost"`
}

// ActiveGame binds a room to the single game it is running.
type ActiveGame struct {
	GameID string            `json:"gameId"`
	State  *engine.GameState `json:"gameState"`
}

// RoomState is the platform envelope persisted to the store: roster,
// lifecycle phase, game-choice votes and at most one active game.
type RoomState struct {
	ID         string            `json:"id"`
	Phase      Phase             `json:"phase"`
	Players    []Player          `json:"players"`
	ActiveGame *ActiveGame       `json:"activeGame,omitempty"`
	GameVotes  map[string]string `json:"gameVotes"`
	OwnerID    string            `json:"ownerId"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewRoomState creates an empty lobby owned by ownerID.
func NewRoomState(id, ownerID string, now time.Time) *RoomState {
	return &RoomState{
		ID:        id,
		Phase:     PhaseLobby,
		Players:   []Player{},
		GameVotes: map[string]string{},
		OwnerID:   ownerID,
		CreatedAt: now,
	}
}

// Clone returns a deep copy of the room state.
func (r *RoomState) Clone() *RoomState {
	c := *r
	c.Players = append([]Player(nil), r.Players...)
	c.GameVotes = make(map[string]string, len(r.GameVotes))
	for id, v := range r.GameVotes {
		c.GameVotes[id] = v
	}
	if r.ActiveGame != nil {
		c.ActiveGame = &ActiveGame{GameID: r.ActiveGame.GameID, State: r.ActiveGame.State.Clone()}
	}
	return &c
}

// PlayerByID returns a pointer into Players, or nil when absent.
func (r *RoomState) PlayerByID(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// ActionType identifies a platform action.
type ActionType string

const (
	ActionJoinRoom     ActionType = "JOIN_ROOM"
	ActionLeaveRoom    ActionType = "LEAVE_ROOM"
	ActionSelectAvatar ActionType = "SELECT_AVATAR"
	ActionVoteGame     ActionType = "VOTE_GAME"
	ActionStartGame    ActionType = "START_GAME"
	ActionGameAction   ActionType = "GAME_ACTION"
)

// Action is a platform-level request. GAME_ACTION wraps an in-game action in
// Game. ConnectedIDs is never taken from the client: the gateway injects the
// registry's view of who is connected before START_GAME reaches the reducer.
type Action struct {
	Type         ActionType     `json:"type"`
	PlayerID     string         `json:"playerId"`
	Name         string         `json:"name,omitempty"`
	AvatarID     string         `json:"avatarId,omitempty"`
	GameID       string         `json:"gameId,omitempty"`
	Game         *engine.Action `json:"action,omitempty"`
	ConnectedIDs []string       `json:"-"`
}

// EventType identifies a platform event.
type EventType string

const (
	EventRoomUpdated EventType = "ROOM_UPDATED"
	EventError       EventType = "ERROR"
	EventGame        EventType = "GAME_EVENT"
)

// Event is a platform notification. ROOM_UPDATED is the broadcast gateway's
// contract: every accepted action emits exactly one, which triggers a
// sanitized STATE_SYNC fan-out. Game carries a wrapped engine event.
type Event struct {
	Type   EventType     `json:"type"`
	Target string        `json:"-"`
	Data   any           `json:"data,omitempty"`
	Game   *engine.Event `json:"-"`
}

// ErrorData is a structured platform rejection.
type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Result is the outcome of a platform reduction. Delete marks the room for
// removal from the store (roster emptied outside a game).
type Result struct {
	State  *RoomState
	Events []Event
	Delete bool
}
