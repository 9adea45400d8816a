package migrations

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	// MigrationsDir can be overridden in tests or by the application
	MigrationsDir = "scripts/migrations"
)

// GetInitialSchema returns the initial database schema
func GetInitialSchema() (string, error) {
	if dir := os.Getenv("TELESCRAPE_MIGRATIONS_DIR"); dir != "" {
		content, err := os.ReadFile(filepath.Join(dir, "001_initial_schema.sql")) // #nosec G304
		if err != nil {
			return "", fmt.Errorf("could not read schema from TELESCRAPE_MIGRATIONS_DIR: %w", err)
		}
		return string(content), nil
	}

	// Try to find schema file relative to common working directories
	searchPaths := []string{
		filepath.Join(MigrationsDir, "001_initial_schema.sql"),
		filepath.Join("..", "..", MigrationsDir, "001_initial_schema.sql"),
		filepath.Join("..", MigrationsDir, "001_initial_schema.sql"),
	}

	for _, path := range searchPaths {
		if content, err := os.ReadFile(path); err == nil { // #nosec G304
			return string(content), nil
		}
	}

	return "", fmt.Errorf("could not find schema file in any location")
}
