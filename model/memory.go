// model/memory.go
package model

import (
	"encoding/json"
	"time"
)

// Memory is a narrative artifact spawned by a shift completion. Its lifecycle
// is independent of the reward computation that created it.
type Memory struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	PlayerID    string          `json:"player_id" gorm:"not null;index"`
	Content     string          `json:"content" gorm:"type:text"`
	Mood        string          `json:"mood"`
	TaggedNPCs  json.RawMessage `json:"tagged_npcs" gorm:"type:text"`
	PetIDs      json.RawMessage `json:"pet_ids" gorm:"type:text"`
	ImageURL    string          `json:"image_url"`
	IsPublished bool            `json:"is_published" gorm:"default:false"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
