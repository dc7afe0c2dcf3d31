package server

import "sync"

// Registry tracks which connection belongs to which (room, player) pair. It
// is injected into the pieces that need fan-out rather than reached through
// package globals, so tests can run isolated instances side by side.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[string]*Connection)}
}

// Add registers a connection for the player in the room, returning the
// connection it displaced. A second connection for the same player replaces
// the first; the caller closes the old one.
func (r *Registry) Add(roomID, playerID string, conn *Connection) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[string]*Connection)
		r.rooms[roomID] = room
	}
	old := room[playerID]
	room[playerID] = conn
	return old
}

// Remove unregisters the player's connection, but only if conn is still the
// registered one. A reconnect that already replaced it is left alone.
func (r *Registry) Remove(roomID, playerID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	if room[playerID] != conn {
		return
	}
	delete(room, playerID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
}

// PlayerConn returns the player's connection in the room, or nil.
func (r *Registry) PlayerConn(roomID, playerID string) *Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomID][playerID]
}

// RoomConns returns a snapshot of the room's connections keyed by player id.
func (r *Registry) RoomConns(roomID string) map[string]*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomID]
	out := make(map[string]*Connection, len(room))
	for id, conn := range room {
		out[id] = conn
	}
	return out
}

// RoomPlayerIDs returns the ids of players with a live connection in the
// room. This is the trusted roster source for starting a game.
func (r *Registry) RoomPlayerIDs(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomID]
	ids := make([]string, 0, len(room))
	for id := range room {
		ids = append(ids, id)
	}
	return ids
}
