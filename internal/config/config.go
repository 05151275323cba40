// Package config loads the server configuration: listener and tick settings,
// game rules, physics tuning, the weapon table and the map.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/35niavlys/speedfng/internal/collision"
	"github.com/35niavlys/speedfng/internal/mode"
	"github.com/35niavlys/speedfng/internal/physics"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/telemetry"
	"github.com/35niavlys/speedfng/internal/world"
	"github.com/35niavlys/speedfng/logging"
)

// Environment overrides.
const (
	EnvConfigPath = "SPEEDFNG_CONFIG"
	EnvAddr       = "SPEEDFNG_ADDR"
	EnvTickRate   = "SPEEDFNG_TICK_RATE"
)

const (
	minTickRate = 10
	maxTickRate = 200
)

// Server configures the listener and the tick loop.
type Server struct {
	Addr            string        `yaml:"addr" json:"addr"`
	TickRate        int           `yaml:"tick_rate" json:"tickRate"`
	MaxClients      int           `yaml:"max_clients" json:"maxClients"`
	AdminPassword   string        `yaml:"admin_password" json:"adminPassword,omitempty"`
	CommandCapacity int           `yaml:"command_capacity" json:"commandCapacity"`
	PerActorLimit   int           `yaml:"per_actor_limit" json:"perActorLimit"`
	CatchupMaxTicks int           `yaml:"catchup_max_ticks" json:"catchupMaxTicks"`
	SendQueue       int           `yaml:"send_queue" json:"sendQueue"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdownTimeout"`
}

// Map is the arena layout as ASCII rows.
type Map struct {
	Rows []string `yaml:"rows" json:"rows"`
}

// Config is the whole configuration file.
type Config struct {
	Server  Server         `yaml:"server" json:"server"`
	Game    world.Settings `yaml:"game" json:"game"`
	Mode    mode.Config    `yaml:"mode" json:"mode"`
	Tuning  physics.Tuning `yaml:"tuning" json:"tuning"`
	Weapons world.Weapons  `yaml:"weapons" json:"weapons"`
	Map     Map            `yaml:"map" json:"map"`
	Logging logging.Config `yaml:"logging" json:"logging"`
}

var defaultMap = []string{
	"########################################",
	"#......................................#",
	"#......................................#",
	"#..R.................S.............B...#",
	"#....=========............=========....#",
	"#......................................#",
	"#..........#####..........#####........#",
	"#..R...............................B...#",
	"#######........................#########",
	"#......................................#",
	"#..R.........########.............B....#",
	"#......................................#",
	"#xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx#",
	"########################################",
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8303",
			TickRate:        physics.DefaultTickSpeed,
			MaxClients:      protocol.MaxClients,
			CommandCapacity: 1024,
			PerActorLimit:   8,
			CatchupMaxTicks: 5,
			SendQueue:       64,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Game:    world.DefaultSettings(),
		Mode:    mode.Config{Loadout: mode.DefaultLoadout()},
		Tuning:  physics.DefaultTuning(),
		Weapons: world.DefaultWeapons(),
		Map:     Map{Rows: append([]string(nil), defaultMap...)},
		Logging: logging.DefaultConfig(),
	}
}

// Normalized clamps values the server cannot run with.
func (c Config) Normalized() Config {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8303"
	}
	c.Server.TickRate = min(max(c.Server.TickRate, minTickRate), maxTickRate)
	if c.Server.MaxClients <= 0 || c.Server.MaxClients > protocol.MaxClients {
		c.Server.MaxClients = protocol.MaxClients
	}
	if c.Server.CommandCapacity <= 0 {
		c.Server.CommandCapacity = 1024
	}
	if c.Server.PerActorLimit < 0 {
		c.Server.PerActorLimit = 0
	}
	if c.Server.CatchupMaxTicks < 0 {
		c.Server.CatchupMaxTicks = 0
	}
	if c.Server.SendQueue <= 0 {
		c.Server.SendQueue = 64
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 5 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	c.Game = c.Game.Normalized()
	if len(c.Map.Rows) == 0 {
		c.Map.Rows = append([]string(nil), defaultMap...)
	}
	if len(c.Logging.EnabledSinks) == 0 {
		c.Logging.EnabledSinks = []string{"console"}
	}
	return c
}

// Grid parses the configured map.
func (c Config) Grid() (*collision.Grid, error) {
	grid, err := collision.ParseRows(c.Map.Rows)
	if err != nil {
		return nil, fmt.Errorf("config: invalid map: %w", err)
	}
	if len(grid.Spawns()) == 0 {
		return nil, errors.New("config: map has no spawn points")
	}
	return grid, nil
}

// Parse decodes YAML over the defaults. Unknown keys are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg.Normalized(), nil
}

// Load reads the YAML file at path. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default().Normalized(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by SPEEDFNG_CONFIG, if any, and applies the
// environment overrides.
func FromEnv(getenv func(string) string, logger telemetry.Logger) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg, err := Load(getenv(EnvConfigPath))
	if err != nil {
		return Config{}, err
	}
	return ApplyEnv(cfg, getenv, logger), nil
}

// ApplyEnv overrides cfg with the environment. Invalid values are logged and
// ignored.
func ApplyEnv(cfg Config, getenv func(string) string, logger telemetry.Logger) Config {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	if raw := getenv(EnvAddr); raw != "" {
		cfg.Server.Addr = raw
	}
	if raw := getenv(EnvTickRate); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			cfg.Server.TickRate = value
		} else {
			logger.Printf("invalid %s=%q: %v", EnvTickRate, raw, err)
		}
	}
	return cfg.Normalized()
}
