package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort                   = 8000
	defaultLogLevel               = "info"
	defaultOpponentDelay          = time.Millisecond * 500
	defaultEndGameDelay           = time.Second * 3
	defaultSessionCleanupInterval = time.Minute * 20
)

// Config holds everything cmd/main.go needs to wire the server.
type Config struct {
	Stage                  string
	Port                   int
	DatabaseURL            string
	LogLevel               zerolog.Level
	OpponentDelay          time.Duration
	EndGameDelay           time.Duration
	SessionCleanupInterval time.Duration
}

func (c Config) AnalyticsEnabled() bool {
	return c.DatabaseURL != ""
}

// Load reads .env outside of prod and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		// a missing .env is fine in dev; the environment may already be set
		_ = godotenv.Load(envFiles...)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults to unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Stage:                  StageDev,
		Port:                   defaultPort,
		DatabaseURL:            getenv("DATABASE_URL"),
		OpponentDelay:          defaultOpponentDelay,
		EndGameDelay:           defaultEndGameDelay,
		SessionCleanupInterval: defaultSessionCleanupInterval,
	}

	if stage := getenv("STAGE"); stage != "" {
		if stage != StageDev && stage != StageProd {
			return Config{}, fmt.Errorf("stage must be either %s or %s, got: %s", StageDev, StageProd, stage)
		}
		cfg.Stage = stage
	}

	if portEnv := getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT: %s", portEnv)
		}
		cfg.Port = port
	}

	levelEnv := getenv("LOG_LEVEL")
	if levelEnv == "" {
		levelEnv = defaultLogLevel
	}
	level, err := zerolog.ParseLevel(levelEnv)
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{key: "OPPONENT_DELAY", dst: &cfg.OpponentDelay},
		{key: "END_GAME_DELAY", dst: &cfg.EndGameDelay},
		{key: "SESSION_CLEANUP_INTERVAL", dst: &cfg.SessionCleanupInterval},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 {
			return Config{}, fmt.Errorf("invalid %s: %s", d.key, v)
		}
		*d.dst = parsed
	}

	if cfg.SessionCleanupInterval == 0 {
		return Config{}, fmt.Errorf("SESSION_CLEANUP_INTERVAL must be positive")
	}

	return cfg, nil
}
