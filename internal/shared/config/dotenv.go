package config

import (
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads the given env files if they exist. It is a best-effort
// helper for local development; variables already set in the environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}
