package platform

import "github.com/lox/secrethitler/internal/engine"

// SanitizeForPlayer projects the room state for one viewer. The roster and
// lifecycle fields are public; only the embedded game state needs redaction.
func SanitizeForPlayer(state *RoomState, playerID string, opts engine.SanitizeOptions) *RoomState {
	out := state.Clone()
	if out.ActiveGame != nil {
		out.ActiveGame.State = engine.SanitizeForPlayer(state.ActiveGame.State, playerID, opts)
	}
	return out
}
