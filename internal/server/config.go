package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration. Store and Game
// blocks are optional in the file; missing blocks fall back to defaults.
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Store  *StoreSettings `hcl:"store,block"`
	Game   *GameSettings  `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// StoreSettings configures the room persistence backend
type StoreSettings struct {
	RedisURL   string `hcl:"redis_url,optional"`
	TTLSeconds int    `hcl:"ttl_seconds,optional"`
}

// GameSettings configures game rules that are tunable per deployment
type GameSettings struct {
	HitlerVisibilityMax int `hcl:"hitler_visibility_max,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			LogFile:  "",
		},
		Store: &StoreSettings{
			RedisURL:   "redis://localhost:6379/0",
			TTLSeconds: 7200,
		},
		Game: &GameSettings{
			HitlerVisibilityMax: 6,
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Store == nil {
		config.Store = &StoreSettings{}
	}
	if config.Game == nil {
		config.Game = &GameSettings{}
	}
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Store.RedisURL == "" {
		config.Store.RedisURL = "redis://localhost:6379/0"
	}
	if config.Store.TTLSeconds == 0 {
		config.Store.TTLSeconds = 7200
	}
	if config.Game.HitlerVisibilityMax == 0 {
		config.Game.HitlerVisibilityMax = 6
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Store.TTLSeconds < 1 {
		return fmt.Errorf("store ttl must be positive, got %d", c.Store.TTLSeconds)
	}
	if c.Game.HitlerVisibilityMax < 5 || c.Game.HitlerVisibilityMax > 10 {
		return fmt.Errorf("hitler_visibility_max must be between 5 and 10, got %d", c.Game.HitlerVisibilityMax)
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// StoreTTL returns the room TTL as a duration
func (c *ServerConfig) StoreTTL() time.Duration {
	return time.Duration(c.Store.TTLSeconds) * time.Second
}
