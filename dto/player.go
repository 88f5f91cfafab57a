package dto

import "time"

type PlayerProfileResponse struct {
	PlayerID     string     `json:"player_id"`
	Level        int        `json:"level"`
	XP           int        `json:"xp"`
	Coins        int        `json:"coins"`
	Diamonds     int        `json:"diamonds"`
	GachaTickets int        `json:"gacha_tickets"`
	PityCounter  int        `json:"pity_counter"`
	TotalPulls   int        `json:"total_pulls"`
	ShiftsDone   int        `json:"shifts_done"`
	PetCount     int        `json:"pet_count"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
}

type OwnedPetResponse struct {
	PetID           string    `json:"pet_id"`
	Name            string    `json:"name"`
	Rarity          string    `json:"rarity"`
	SectionAffinity string    `json:"section_affinity"`
	AcquiredAt      time.Time `json:"acquired_at"`
	AssignedSection string    `json:"assigned_section,omitempty"`
}

type PetCollectionResponse struct {
	Pets            []OwnedPetResponse `json:"pets"`
	Total           int                `json:"total"`
	CatalogSize     int                `json:"catalog_size"`
	RarityBreakdown map[string]int     `json:"rarity_breakdown"`
}

type ConsumableStackResponse struct {
	ConsumableID string `json:"consumable_id"`
	Name         string `json:"name"`
	EffectKind   string `json:"effect_kind"`
	Quantity     int    `json:"quantity"`
}

type InventoryResponse struct {
	Consumables []ConsumableStackResponse `json:"consumables"`
}

// Debug-only requests. These routes bypass normal preconditions and are not
// part of the production contract.
type AddCurrencyRequest struct {
	Coins        int `json:"coins"`
	Diamonds     int `json:"diamonds"`
	GachaTickets int `json:"gacha_tickets"`
}

type AddTestPetsRequest struct {
	PetIDs []string `json:"pet_ids" validate:"required,min=1"`
}

func (r AddTestPetsRequest) Validate() error {
	return GetValidator().Struct(r)
}
