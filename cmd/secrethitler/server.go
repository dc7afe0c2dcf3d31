package main

import (
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/lox/secrethitler/cmd/secrethitler/shared"
	"github.com/lox/secrethitler/internal/engine"
	"github.com/lox/secrethitler/internal/platform"
	"github.com/lox/secrethitler/internal/server"
	"github.com/lox/secrethitler/internal/store"
)

// ServerCmd contains core server configuration
type ServerCmd struct {
	Config    string `kong:"default='secrethitler.hcl',help='Path to HCL config file'"`
	Addr      string `kong:"help='Server address, overrides config'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed for the engine (optional)'"`
	MockStore bool   `kong:"name='mock-store',help='Use an in-memory store instead of Redis'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	var eng *engine.Engine
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		eng = engine.NewWithSeed(*c.Seed)
	} else {
		eng = engine.New()
	}

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	var st store.Store
	if c.MockStore {
		logger.Warn("Using in-memory store, rooms will not survive a restart")
		st = store.NewMemoryStore(cfg.StoreTTL())
	} else {
		st, err = store.NewRedisStore(ctx, cfg.Store.RedisURL, cfg.StoreTTL())
		if err != nil {
			return err
		}
	}
	defer st.Close()

	opts := engine.SanitizeOptions{HitlerVisibilityMax: cfg.Game.HitlerVisibilityMax}
	registry := server.NewRegistry()
	sessions := server.NewSessionManager()
	rooms := server.NewRoomService(st, platform.NewReducer(eng), registry, logger, opts)
	srv := server.NewServer(addr, logger, rooms, registry, sessions)

	logger.Info("Starting Secret Hitler server",
		"addr", addr,
		"store_ttl", cfg.StoreTTL(),
		"hitler_visibility_max", cfg.Game.HitlerVisibilityMax,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		return srv.Stop()
	})

	return g.Wait()
}
