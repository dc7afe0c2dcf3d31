package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/secrethitler/internal/engine"
	"github.com/lox/secrethitler/internal/platform"
	"github.com/lox/secrethitler/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	st := store.NewMemoryStore(time.Hour)
	registry := NewRegistry()
	reducer := platform.NewReducer(engine.NewWithSeed(42))
	rooms := NewRoomService(st, reducer, registry, logger, engine.DefaultSanitizeOptions())
	t.Cleanup(rooms.Close)
	sessions := NewSessionManager()
	return NewServer("127.0.0.1:0", logger, rooms, registry, sessions)
}

func TestStopUnblocksStart(t *testing.T) {
	srv := newTestServer(t)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Stop())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestParseHandshake(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing roomId is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?playerId=p1", nil)
		_, err := srv.parseHandshake(req)
		require.Error(t, err)
	})

	t.Run("missing playerId is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?roomId=room1", nil)
		_, err := srv.parseHandshake(req)
		require.Error(t, err)
	})

	t.Run("fresh join gets defaults", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?roomId=room1&playerId=p1", nil)
		hs, err := srv.parseHandshake(req)
		require.NoError(t, err)
		assert.Equal(t, "room1", hs.roomID)
		assert.Equal(t, "p1", hs.playerID)
		assert.Equal(t, "p1", hs.name)
		assert.Equal(t, "avatar-01", hs.avatarID)
		assert.False(t, hs.create)
		assert.False(t, hs.resumed)
	})

	t.Run("create mode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?roomId=room1&playerId=p1&mode=create", nil)
		hs, err := srv.parseHandshake(req)
		require.NoError(t, err)
		assert.True(t, hs.create)
	})

	t.Run("token resumes the seat", func(t *testing.T) {
		session := srv.sessions.Create("room1", "p1")

		req := httptest.NewRequest(http.MethodGet, "/ws?token="+session.Token, nil)
		hs, err := srv.parseHandshake(req)
		require.NoError(t, err)
		assert.Equal(t, "room1", hs.roomID)
		assert.Equal(t, "p1", hs.playerID)
		assert.True(t, hs.resumed)
	})

	t.Run("bad token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?token=bogus", nil)
		_, err := srv.parseHandshake(req)
		require.Error(t, err)
	})
}
