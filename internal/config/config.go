// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"os"
)

// Config holds everything the bot needs to start.
type Config struct {
	// Token is the Discord bot token. Required.
	Token string
	// DBPath is the SQLite database file path.
	DBPath string
	// KeepAliveAddr is the listen address for the liveness endpoint.
	KeepAliveAddr string
}

// ErrMissingToken is returned when DISCORD_BOT_TOKEN is not set.
var ErrMissingToken = errors.New("DISCORD_BOT_TOKEN is not set")

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		return nil, ErrMissingToken
	}

	dbPath := os.Getenv("COUPLEBOT_DB_PATH")
	if dbPath == "" {
		dbPath = "couplebot.db"
	}

	addr := os.Getenv("KEEPALIVE_ADDR")
	if addr == "" {
		addr = ":5000"
	}

	return &Config{
		Token:         token,
		DBPath:        dbPath,
		KeepAliveAddr: addr,
	}, nil
}
