package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// ConsumableSeeder seeds the consumable catalog.
type ConsumableSeeder struct {
	db *gorm.DB
}

func NewConsumableSeeder(db *gorm.DB) *ConsumableSeeder {
	return &ConsumableSeeder{db: db}
}

func (s *ConsumableSeeder) SeedConsumables() error {
	consumables := s.getConsumables()

	for _, consumable := range consumables {
		var existing model.Consumable
		if err := s.db.Where("id = ?", consumable.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&consumable).Error; err != nil {
					log.Printf("Error creating consumable %s: %v", consumable.Name, err)
					return err
				}
				log.Printf("Created consumable: %s", consumable.Name)
			} else {
				return err
			}
		} else {
			log.Printf("Consumable %s already exists, skipping", consumable.Name)
		}
	}

	log.Println("Consumable seeding completed")
	return nil
}

func (s *ConsumableSeeder) getConsumables() []model.Consumable {
	now := time.Now()

	consumables := []model.Consumable{
		{ID: "item_espresso_shot", Name: "Espresso Shot", EffectKind: shared.EffectSpeedBoost, Magnitude: 0.15, CostCoins: 150, Rarity: shared.RarityCommon},
		{ID: "item_turbo_treat", Name: "Turbo Treat", EffectKind: shared.EffectDurationReduction, Magnitude: 0.25, CostCoins: 300, Rarity: shared.RarityRare},
		{ID: "item_lucky_bell", Name: "Lucky Bell", EffectKind: shared.EffectRewardMultiplier, Magnitude: 1.5, CostCoins: 400, Rarity: shared.RarityRare},
		{ID: "item_golden_whisk", Name: "Golden Whisk", EffectKind: shared.EffectEfficiencyBonus, Magnitude: 0.25, CostCoins: 350, Rarity: shared.RarityRare},
		{ID: "item_friendship_cookie", Name: "Friendship Cookie", EffectKind: shared.EffectBondBoost, Magnitude: 2.0, CostCoins: 250, Rarity: shared.RarityCommon},
		{ID: "item_finish_whistle", Name: "Finish Whistle", EffectKind: shared.EffectInstantFinish, Magnitude: 1.0, CostCoins: 600, Rarity: shared.RarityLegendary},
		{ID: "item_double_shot", Name: "Double Shot", EffectKind: shared.EffectRewardMultiplier, Magnitude: 2.0, CostCoins: 900, Rarity: shared.RarityLegendary},
	}

	for i := range consumables {
		consumables[i].StackLimit = 99
		consumables[i].CreatedAt = now
		consumables[i].UpdatedAt = now
	}
	return consumables
}
