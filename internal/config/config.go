package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port        string
	DBPath      string
	AdminEmail  string
	ProjectRoot string
}

// Load reads configuration from the environment (after loading .env if
// present) or falls back to defaults.
func Load() *Config {
	// A missing .env file is fine, real env vars still apply
	godotenv.Load()

	// Find the project root by walking up from the current directory
	// until go.mod is found
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	var projectRoot string
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			projectRoot = dir
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			projectRoot = "."
			break
		}
		dir = parent
	}

	absDBPath := filepath.Join(projectRoot, "board.db")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", absDBPath),
		AdminEmail:  getEnv("ADMIN_EMAIL", "admin@example.com"),
		ProjectRoot: projectRoot,
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
