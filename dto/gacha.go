package dto

import "time"

type PullRequest struct {
	Count int `json:"count" validate:"required,oneof=1 10"`
}

func (r PullRequest) Validate() error {
	return GetValidator().Struct(r)
}

// DrawResult is one draw inside a pull batch.
type DrawResult struct {
	PetID      string `json:"pet_id"`
	PetName    string `json:"pet_name"`
	Rarity     string `json:"rarity"`
	IsNew      bool   `json:"is_new"`
	PityForced bool   `json:"pity_forced"`
	CoinsValue int    `json:"coins_value,omitempty"` // duplicate conversion
}

// GachaPullResponse is the single summary emitted for a whole batch.
type GachaPullResponse struct {
	Results         []DrawResult `json:"results"`
	NewPets         int          `json:"new_pets"`
	Duplicates      int          `json:"duplicates"`
	CoinsFromDupes  int          `json:"coins_from_dupes"`
	DiamondsSpent   int          `json:"diamonds_spent"`
	PityCounter     int          `json:"pity_counter"`
	DiamondsBalance int          `json:"diamonds_balance"`
	CoinsBalance    int          `json:"coins_balance"`
}

type PullHistoryResponse struct {
	Pulls []PullHistoryEntry `json:"pulls"`
	Total int                `json:"total"`
}

type PullHistoryEntry struct {
	PetID     string    `json:"pet_id"`
	Rarity    string    `json:"rarity"`
	Duplicate bool      `json:"duplicate"`
	Forced    bool      `json:"forced"`
	PulledAt  time.Time `json:"pulled_at"`
}
