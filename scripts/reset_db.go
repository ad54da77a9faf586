package main

import (
	"context"
	"fmt"
	"log"

	"parish-backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Clears parish data for a fresh test run. Admin accounts are kept so the
// bootstrap login still works afterwards.
func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Parish Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL PARISH DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all service requests")
	fmt.Println("  - Delete all issued certificates and their files")
	fmt.Println("  - Delete all sacrament records, archived ones included")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg, err := config.LoadFile(config.DefaultConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}
	if cfg.Storage.Driver != "postgres" {
		log.Fatalf("storage.driver is %q; nothing to reset\n", cfg.Storage.Driver)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("Resetting database...")

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	// Children first
	tables := []string{
		"issued_certificates",
		"sacrament_records",
		"service_requests",
	}

	for _, table := range tables {
		tag, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			log.Fatalf("Failed to clear %s: %v\n", table, err)
		}
		fmt.Printf("  - Cleared %s (%d rows)\n", table, tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Database reset successful. Admin accounts were kept.")
}
