// Package config provides Viper-based configuration loading for the
// Undercroft server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds top-level server settings.
type ServerConfig struct {
	// ShutdownTimeout bounds how long graceful shutdown may take.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// Enabled reports whether a database connection is configured at all. An
// empty host disables persistence; the server then runs in-memory only.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// GatewayConfig holds websocket gateway settings.
type GatewayConfig struct {
	// Host is the bind address for the websocket listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the websocket listener.
	Port int `mapstructure:"port"`
	// AllowedOrigins lists Origin header values accepted during the
	// websocket upgrade. Empty means same-host only; "*" allows any.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// WriteTimeout is the per-frame write deadline for client sends.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// EventBuffer is the per-client outbound event queue depth.
	EventBuffer int `mapstructure:"event_buffer"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is the log sink: "stdout", "stderr", or a file path.
	Output string `mapstructure:"output"`
}

// GameConfig holds gameplay content and tuning settings.
type GameConfig struct {
	// ItemsDir is the directory of item definition YAML files.
	ItemsDir string `mapstructure:"items_dir"`
	// ZonesDir is the directory of zone definition YAML files.
	ZonesDir string `mapstructure:"zones_dir"`
	// ArchetypesDir is the directory of archetype definition YAML files.
	ArchetypesDir string `mapstructure:"archetypes_dir"`
	// LootDir is the directory of loot table YAML files.
	LootDir string `mapstructure:"loot_dir"`
	// ScriptsDir is the directory of Lua item-use scripts.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// StorageCapacity is the slot count of each character's storage.
	StorageCapacity int `mapstructure:"storage_capacity"`
	// ScriptInstructionLimit caps Lua VM instructions per hook invocation.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGateway(c.Gateway); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	if s.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if !d.Enabled() {
		// Persistence is optional; no host means nothing else to check.
		return nil
	}
	var errs []string
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGateway(g GatewayConfig) error {
	var errs []string
	if g.Port < 1 || g.Port > 65535 {
		errs = append(errs, fmt.Sprintf("gateway.port must be 1-65535, got %d", g.Port))
	}
	if g.WriteTimeout < 0 {
		errs = append(errs, "gateway.write_timeout must not be negative")
	}
	if g.EventBuffer < 1 {
		errs = append(errs, fmt.Sprintf("gateway.event_buffer must be >= 1, got %d", g.EventBuffer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.StorageCapacity < 1 {
		errs = append(errs, fmt.Sprintf("game.storage_capacity must be >= 1, got %d", g.StorageCapacity))
	}
	if g.ScriptInstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("game.script_instruction_limit must be >= 1, got %d", g.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with UNDERCROFT_ prefix
	v.SetEnvPrefix("UNDERCROFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "undercroft")
	v.SetDefault("database.password", "undercroft")
	v.SetDefault("database.name", "undercroft")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 4000)
	v.SetDefault("gateway.write_timeout", "10s")
	v.SetDefault("gateway.event_buffer", 64)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("game.items_dir", "content/items")
	v.SetDefault("game.zones_dir", "content/zones")
	v.SetDefault("game.archetypes_dir", "content/archetypes")
	v.SetDefault("game.loot_dir", "content/loot")
	v.SetDefault("game.scripts_dir", "content/scripts")
	v.SetDefault("game.storage_capacity", 20)
	v.SetDefault("game.script_instruction_limit", 100000)
}

