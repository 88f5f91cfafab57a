package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders. Catalogs are independent of each other, so order
// only matters for log readability.
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := NewPetSeeder(s.db).SeedPets(); err != nil {
		log.Printf("Pet seeding failed: %v", err)
		return err
	}

	if err := NewActivitySeeder(s.db).SeedActivities(); err != nil {
		log.Printf("Activity seeding failed: %v", err)
		return err
	}

	if err := NewConsumableSeeder(s.db).SeedConsumables(); err != nil {
		log.Printf("Consumable seeding failed: %v", err)
		return err
	}

	if err := NewNPCSeeder(s.db).SeedNPCs(); err != nil {
		log.Printf("NPC seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedPetsOnly() error {
	return NewPetSeeder(s.db).SeedPets()
}

func (s *MainSeeder) SeedActivitiesOnly() error {
	return NewActivitySeeder(s.db).SeedActivities()
}

func (s *MainSeeder) SeedConsumablesOnly() error {
	return NewConsumableSeeder(s.db).SeedConsumables()
}

func (s *MainSeeder) SeedNPCsOnly() error {
	return NewNPCSeeder(s.db).SeedNPCs()
}
