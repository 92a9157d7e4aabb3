// internal/config/config.go
//
// Process configuration, read from the environment (and a .env file loaded
// by main via godotenv).

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/EthanCarson/Crazy-Rolls/internal/game"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port     string `env:"PORT"      envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath   string `env:"DB_PATH"   envDefault:"./data/crazee.db"`

	// SaveStore picks where game snapshots live: "sqlite" (DB_PATH) or
	// "memory" (lost on restart).
	SaveStore string `env:"SAVE_STORE" envDefault:"sqlite"`

	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	NodeEnv      string `env:"NODE_ENV"      envDefault:"development"`

	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"crazee_token"`

	MaxTurns      int    `env:"MAX_TURNS"      envDefault:"13"`
	ScoringPolicy string `env:"SCORING_POLICY" envDefault:"reject"`
	DailySalt     string `env:"DAILY_SALT"     envDefault:"local_dev_salt"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	// SessionIdle is how long a game stays in memory after its last request.
	// Evicted games are reloaded from the save store.
	SessionIdle time.Duration `env:"SESSION_IDLE" envDefault:"30m"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.MaxTurns < 1 || c.MaxTurns > len(game.Categories) {
		return fmt.Errorf("MAX_TURNS must be 1..%d, got %d", len(game.Categories), c.MaxTurns)
	}
	if _, err := game.ParsePolicy(c.ScoringPolicy); err != nil {
		return fmt.Errorf("SCORING_POLICY: %w", err)
	}
	if c.SaveStore != "sqlite" && c.SaveStore != "memory" {
		return fmt.Errorf("SAVE_STORE must be sqlite or memory, got %q", c.SaveStore)
	}
	if c.JWTExpiresDays < 1 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.JWTExpiresDays)
	}
	return nil
}

// Production reports whether cookies should be marked Secure/SameSite=None.
func (c Config) Production() bool { return c.NodeEnv == "production" }

// Policy returns the parsed scoring policy. Validate has already checked it.
func (c Config) Policy() game.Policy {
	p, _ := game.ParsePolicy(c.ScoringPolicy)
	return p
}

// EngineOptions returns the engine settings shared by every new game.
func (c Config) EngineOptions() []game.EngineOption {
	return []game.EngineOption{game.WithMaxTurns(c.MaxTurns), game.WithPolicy(c.Policy())}
}
