package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// PetSeeder seeds the pet catalog.
type PetSeeder struct {
	db *gorm.DB
}

func NewPetSeeder(db *gorm.DB) *PetSeeder {
	return &PetSeeder{db: db}
}

func (s *PetSeeder) SeedPets() error {
	pets := s.getPets()

	for _, pet := range pets {
		var existing model.Pet
		if err := s.db.Where("id = ?", pet.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&pet).Error; err != nil {
					log.Printf("Error creating pet %s: %v", pet.Name, err)
					return err
				}
				log.Printf("Created pet: %s", pet.Name)
			} else {
				return err
			}
		} else {
			log.Printf("Pet %s already exists, skipping", pet.Name)
		}
	}

	log.Println("Pet seeding completed")
	return nil
}

// getPets returns the launch catalog. The commons include the two tutorial
// starters and enough distinct pets to fill a duplicate-free tutorial batch.
func (s *PetSeeder) getPets() []model.Pet {
	now := time.Now()

	pets := []model.Pet{
		// Commons
		{ID: "pet_muffin", Name: "Muffin", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionBakery, BaseTrait: "cheerful", Description: "A round corgi who naps beside the oven."},
		{ID: "pet_peanut", Name: "Peanut", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionPlayground, BaseTrait: "curious", Description: "A tiny hamster with endless energy."},
		{ID: "pet_biscuit", Name: "Biscuit", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionBakery, BaseTrait: "patient", Description: "A tabby cat who supervises the pastry case."},
		{ID: "pet_pickle", Name: "Pickle", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionPlayground, BaseTrait: "playful", Description: "A green parakeet who referees every game."},
		{ID: "pet_mochi", Name: "Mochi", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionSalon, BaseTrait: "calm", Description: "A white rabbit with an immaculate coat."},
		{ID: "pet_waffles", Name: "Waffles", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionBakery, BaseTrait: "hungry", Description: "A beagle who has never missed a crumb."},
		{ID: "pet_noodle", Name: "Noodle", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionSalon, BaseTrait: "sleepy", Description: "A dachshund who melts into every cushion."},
		{ID: "pet_clover", Name: "Clover", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionPlayground, BaseTrait: "lucky", Description: "A guinea pig who always finds the treats."},
		{ID: "pet_pepper", Name: "Pepper", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionSalon, BaseTrait: "bold", Description: "A black kitten with strong opinions about brushes."},

		// Rares
		{ID: "pet_saffron", Name: "Saffron", Rarity: shared.RarityRare, SectionAffinity: shared.SectionBakery, BaseTrait: "refined", Description: "A golden retriever with a nose for fresh bread."},
		{ID: "pet_juniper", Name: "Juniper", Rarity: shared.RarityRare, SectionAffinity: shared.SectionPlayground, BaseTrait: "daring", Description: "A ferret who treats the café as an obstacle course."},
		{ID: "pet_velvet", Name: "Velvet", Rarity: shared.RarityRare, SectionAffinity: shared.SectionSalon, BaseTrait: "elegant", Description: "A ragdoll cat who poses for every photo."},
		{ID: "pet_ember", Name: "Ember", Rarity: shared.RarityRare, SectionAffinity: shared.SectionBakery, BaseTrait: "warm", Description: "A shiba inu who guards the hearth."},

		// Legendaries
		{ID: "pet_aurora", Name: "Aurora", Rarity: shared.RarityLegendary, SectionAffinity: shared.SectionSalon, BaseTrait: "radiant", Description: "A silver fox whose coat shifts color in the light."},
		{ID: "pet_comet", Name: "Comet", Rarity: shared.RarityLegendary, SectionAffinity: shared.SectionPlayground, BaseTrait: "swift", Description: "A border collie faster than any order bell."},
		{ID: "pet_truffle", Name: "Truffle", Rarity: shared.RarityLegendary, SectionAffinity: shared.SectionBakery, BaseTrait: "gourmet", Description: "A pot-bellied pig with a flawless palate."},
	}

	for i := range pets {
		pets[i].CreatedAt = now
		pets[i].UpdatedAt = now
	}
	return pets
}
