// model/shift.go
package model

import (
	"encoding/json"
	"time"
)

// Shift is one timed activity. Status is a strict forward-only machine:
// running -> complete -> collected. A collected shift leaves the active set.
type Shift struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	PlayerID        string          `json:"player_id" gorm:"not null;index"`
	ActivityID      string          `json:"activity_id" gorm:"not null"`
	Section         string          `json:"section" gorm:"not null"`
	AssignedPetIDs  json.RawMessage `json:"assigned_pet_ids" gorm:"type:text"`
	AppliedItemIDs  json.RawMessage `json:"applied_item_ids" gorm:"type:text"`
	StartedAt       time.Time       `json:"started_at"`
	DurationMs      int64           `json:"duration_ms"`
	Status          string          `json:"status" gorm:"default:running"`
	EfficiencyScore float64         `json:"efficiency_score" gorm:"default:1.0"`
	Rewards         json.RawMessage `json:"rewards" gorm:"type:text"`
	CompletedAt     *time.Time      `json:"completed_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (s *Shift) PetIDs() []string {
	var ids []string
	if len(s.AssignedPetIDs) > 0 {
		if err := json.Unmarshal(s.AssignedPetIDs, &ids); err != nil {
			return nil
		}
	}
	return ids
}

// AppliedItems returns the consumable ids applied when the shift started.
// Completion-time effects are reconstructed from these ids.
func (s *Shift) AppliedItems() []string {
	var ids []string
	if len(s.AppliedItemIDs) > 0 {
		if err := json.Unmarshal(s.AppliedItemIDs, &ids); err != nil {
			return nil
		}
	}
	return ids
}

func (s *Shift) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

func (s *Shift) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

func (s *Shift) TimeRemaining(now time.Time) time.Duration {
	remaining := s.Duration() - s.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Shift) IsElapsed(now time.Time) bool {
	return s.Elapsed(now) >= s.Duration()
}
