package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// NPCSeeder seeds the café staff, one per section.
type NPCSeeder struct {
	db *gorm.DB
}

func NewNPCSeeder(db *gorm.DB) *NPCSeeder {
	return &NPCSeeder{db: db}
}

func (s *NPCSeeder) SeedNPCs() error {
	npcs := s.getNPCs()

	for _, npc := range npcs {
		var existing model.NPC
		if err := s.db.Where("id = ?", npc.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&npc).Error; err != nil {
					log.Printf("Error creating NPC %s: %v", npc.Name, err)
					return err
				}
				log.Printf("Created NPC: %s", npc.Name)
			} else {
				return err
			}
		} else {
			log.Printf("NPC %s already exists, skipping", npc.Name)
		}
	}

	log.Println("NPC seeding completed")
	return nil
}

func (s *NPCSeeder) getNPCs() []model.NPC {
	now := time.Now()

	npcs := []model.NPC{
		{ID: "npc_aria", Name: "Aria", Section: shared.SectionBakery},
		{ID: "npc_kai", Name: "Kai", Section: shared.SectionPlayground},
		{ID: "npc_elias", Name: "Elias", Section: shared.SectionSalon},
	}

	for i := range npcs {
		npcs[i].CreatedAt = now
		npcs[i].UpdatedAt = now
	}
	return npcs
}
