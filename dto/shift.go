package dto

import "time"

type StartShiftRequest struct {
	ActivityID    string   `json:"activity_id" validate:"required"`
	PetIDs        []string `json:"pet_ids" validate:"max=5"`
	ConsumableIDs []string `json:"consumable_ids" validate:"max=3"`
}

func (r StartShiftRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteShiftRequest struct {
	Forced bool `json:"forced"`
}

type ShiftResponse struct {
	ID              string     `json:"id"`
	ActivityID      string     `json:"activity_id"`
	Section         string     `json:"section"`
	PetIDs          []string   `json:"pet_ids"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	DurationMs      int64      `json:"duration_ms"`
	RemainingMs     int64      `json:"remaining_ms"`
	EfficiencyScore float64    `json:"efficiency_score"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type ShiftListResponse struct {
	Shifts []ShiftResponse `json:"shifts"`
	Total  int             `json:"total"`
}

// ShiftRewardsResponse reports the full breakdown of a collected shift.
type ShiftRewardsResponse struct {
	ShiftID              string   `json:"shift_id"`
	BaseCoins            int      `json:"base_coins"`
	BaseXP               int      `json:"base_xp"`
	EfficiencyMultiplier float64  `json:"efficiency_multiplier"`
	RarityMultiplier     float64  `json:"rarity_multiplier"`
	AffinityBonusCoins   int      `json:"affinity_bonus_coins"`
	TotalMultiplier      float64  `json:"total_multiplier"`
	FinalCoins           int      `json:"final_coins"`
	FinalXP              int      `json:"final_xp"`
	GachaTickets         int      `json:"gacha_tickets"`
	BonusGems            int      `json:"bonus_gems"`
	BonusDuplicateTokens int      `json:"bonus_duplicate_tokens"`
	SpecialItems         []string `json:"special_items,omitempty"`
	MemoryID             string   `json:"memory_id,omitempty"`
	BondPointsAwarded    int      `json:"bond_points_awarded"`
	BondNPCID            string   `json:"bond_npc_id,omitempty"`
}

type SetShiftDurationRequest struct {
	DurationMs int64 `json:"duration_ms" validate:"required,min=1"`
}

func (r SetShiftDurationRequest) Validate() error {
	return GetValidator().Struct(r)
}
