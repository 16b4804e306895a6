// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"recipebox/internal/config"
	"recipebox/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("automigrations applied")
	case "status":
		migrator := db.Migrator()
		pending := 0
		for _, model := range database.PersistentModels() {
			present := migrator.HasTable(model)
			if !present {
				pending++
			}
			log.Printf("%-28T table=%t", model, present)
		}
		log.Printf("driver=%s env=%s missing_tables=%d", db.Dialector.Name(), cfg.Env, pending)
	default:
		return usage()
	}
	return nil
}
