package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// ActivitySeeder seeds the shift activity catalog.
type ActivitySeeder struct {
	db *gorm.DB
}

func NewActivitySeeder(db *gorm.DB) *ActivitySeeder {
	return &ActivitySeeder{db: db}
}

func (s *ActivitySeeder) SeedActivities() error {
	activities := s.getActivities()

	for _, activity := range activities {
		var existing model.Activity
		if err := s.db.Where("id = ?", activity.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&activity).Error; err != nil {
					log.Printf("Error creating activity %s: %v", activity.Name, err)
					return err
				}
				log.Printf("Created activity: %s", activity.Name)
			} else {
				return err
			}
		} else {
			log.Printf("Activity %s already exists, skipping", activity.Name)
		}
	}

	log.Println("Activity seeding completed")
	return nil
}

func (s *ActivitySeeder) getActivities() []model.Activity {
	now := time.Now()

	activities := []model.Activity{
		{ID: "act_morning_bake", Name: "Morning Bake", Section: shared.SectionBakery, DurationMs: (15 * time.Minute).Milliseconds(), BaseCoins: 100, BaseXP: 20, SlotCount: 3, MinPlayerLevel: 1},
		{ID: "act_afternoon_tea", Name: "Afternoon Tea Service", Section: shared.SectionBakery, DurationMs: (30 * time.Minute).Milliseconds(), BaseCoins: 220, BaseXP: 45, SlotCount: 4, MinPlayerLevel: 3},
		{ID: "act_fetch_hour", Name: "Fetch Hour", Section: shared.SectionPlayground, DurationMs: (15 * time.Minute).Milliseconds(), BaseCoins: 90, BaseXP: 25, SlotCount: 3, MinPlayerLevel: 1},
		{ID: "act_obstacle_derby", Name: "Obstacle Derby", Section: shared.SectionPlayground, DurationMs: (45 * time.Minute).Milliseconds(), BaseCoins: 350, BaseXP: 70, SlotCount: 5, MinPlayerLevel: 5},
		{ID: "act_grooming_basics", Name: "Grooming Basics", Section: shared.SectionSalon, DurationMs: (20 * time.Minute).Milliseconds(), BaseCoins: 130, BaseXP: 30, SlotCount: 3, MinPlayerLevel: 2},
		{ID: "act_spa_day", Name: "Spa Day", Section: shared.SectionSalon, DurationMs: (60 * time.Minute).Milliseconds(), BaseCoins: 500, BaseXP: 100, SlotCount: 4, MinPlayerLevel: 7},
	}

	for i := range activities {
		activities[i].CreatedAt = now
		activities[i].UpdatedAt = now
	}
	return activities
}
