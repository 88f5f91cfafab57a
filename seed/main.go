// seed/main.go
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, pets, activities, consumables, npcs")
		dbPath   = flag.String("db", "", "Database path (overrides DB_DATABASE env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_DATABASE")
		if databasePath == "" {
			databasePath = "petcafe.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Pet{},
		&model.Activity{},
		&model.Consumable{},
		&model.NPC{},
	); err != nil {
		log.Fatalf("Failed to migrate catalog tables: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "pets":
		if err := mainSeeder.SeedPetsOnly(); err != nil {
			log.Fatalf("Failed to seed pets: %v", err)
		}
	case "activities":
		if err := mainSeeder.SeedActivitiesOnly(); err != nil {
			log.Fatalf("Failed to seed activities: %v", err)
		}
	case "consumables":
		if err := mainSeeder.SeedConsumablesOnly(); err != nil {
			log.Fatalf("Failed to seed consumables: %v", err)
		}
	case "npcs":
		if err := mainSeeder.SeedNPCsOnly(); err != nil {
			log.Fatalf("Failed to seed NPCs: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'pets', 'activities', 'consumables', or 'npcs'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the Pet Café API

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, pets, activities, consumables, npcs
  -db string
        Database path (overrides DB_DATABASE environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only pets
  go run seed/main.go -type=pets

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  DB_DATABASE - Default database path (default: petcafe.db)`)
}
