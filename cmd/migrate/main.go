package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

// Applies schema migrations against DB_URL. `migrate` runs everything
// outstanding, `migrate down` rolls back the most recent migration.
func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("migrate: DB_URL is not set")
	}

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = locateMigrationsDir()
	}
	if dir == "" {
		log.Fatal("migrate: migrations directory not found, set MIGRATIONS_DIR")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		log.Fatalf("migrate: resolve migrations dir: %v", err)
	}

	m, err := migrate.New("file://"+absDir, dbURL)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("migrate: schema is up to date")
	case "down":
		if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("migrate: rolled back one migration")
	default:
		log.Fatalf("migrate: unknown command %q (want up or down)", command)
	}
}

// locateMigrationsDir walks upward from the working directory looking for a
// migrations/ folder, stopping at the module root so it never escapes the
// repository.
func locateMigrationsDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
