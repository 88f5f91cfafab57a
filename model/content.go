// model/content.go
package model

import "time"

// Pet is a content-table entry, not an owned pet. Rows are seeded and treated
// as read-only at runtime.
type Pet struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Rarity          string    `json:"rarity"` // common, rare, legendary
	SectionAffinity string    `json:"section_affinity"`
	BaseTrait       string    `json:"base_trait"`
	Description     string    `json:"description" gorm:"type:text"`
	ImageURL        string    `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Activity is a shift/quest template: which café section it runs in, how long
// it takes and what it pays before multipliers.
type Activity struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Section        string    `json:"section" gorm:"not null"`
	DurationMs     int64     `json:"duration_ms" gorm:"not null"`
	BaseCoins      int       `json:"base_coins" gorm:"default:100"`
	BaseXP         int       `json:"base_xp" gorm:"default:20"`
	SlotCount      int       `json:"slot_count" gorm:"default:3"`
	MinPlayerLevel int       `json:"min_player_level" gorm:"default:1"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (a *Activity) Duration() time.Duration {
	return time.Duration(a.DurationMs) * time.Millisecond
}

// Consumable declares its effect kind explicitly; nothing matches on item ids.
type Consumable struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	EffectKind string    `json:"effect_kind" gorm:"not null"` // shared.Effect* values
	Magnitude  float64   `json:"magnitude"`
	CostCoins  int       `json:"cost_coins"`
	Rarity     string    `json:"rarity"`
	StackLimit int       `json:"stack_limit" gorm:"default:99"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NPC maps a café section to the character whose bond grows from it.
type NPC struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Section   string    `json:"section" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
