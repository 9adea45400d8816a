package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"telescrape/internal/migrations"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	dbPath := flag.String("db", "./telescrape.db", "Path to the database file")
	flag.Parse()

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// The initial schema creates the schema_migrations table and records
	// itself, so checking before applying only matters for later versions.
	var count int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = 'schema_migrations'
	`).Scan(&count)
	if err != nil {
		log.Fatalf("Failed to inspect database: %v", err)
	}

	if count > 0 {
		var applied int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 1").Scan(&applied); err != nil {
			log.Fatalf("Failed to check migration status: %v", err)
		}
		if applied > 0 {
			fmt.Println("Migration 1 already applied, skipping...")
			return
		}
	}

	fmt.Println("Applying migration 1: initial schema")

	schema, err := migrations.GetInitialSchema()
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	fmt.Println("Migration 1 applied successfully")
}
