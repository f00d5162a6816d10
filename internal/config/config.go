// Package config resolves runtime configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config carries everything the program needs from the outside world.
// The API host is injected here instead of being a literal at every
// call site.
type Config struct {
	// APIURL is the base URL of the project-management API.
	APIURL string
	// LogFile receives structured logs; the terminal belongs to the UI.
	LogFile string
	// StateDB is the sqlite file holding local UI state.
	StateDB string
}

const defaultAPIURL = "http://localhost:5000"

// Load reads .env if present, then resolves the environment.
func Load() Config {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	return Config{
		APIURL:  getEnv("OBRA_API_URL", defaultAPIURL),
		LogFile: getEnv("OBRA_LOG_FILE", defaultPath("obra.log")),
		StateDB: getEnv("OBRA_STATE_DB", defaultPath("obra.db")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultPath places a file under the XDG data directory, falling back
// to ~/.local/share.
func defaultPath(name string) string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return name
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "obra", name)
}
