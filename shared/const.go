package shared

import "time"

const (
	PlayerID  = "player_id"
	SessionID = "session_id"

	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityLegendary = "legendary"

	SectionBakery     = "bakery"
	SectionPlayground = "playground"
	SectionSalon      = "salon"

	EffectEfficiencyBonus   = "efficiency_bonus"
	EffectDurationReduction = "duration_reduction"
	EffectRewardMultiplier  = "reward_multiplier"
	EffectInstantFinish     = "instant_finish"
	EffectSpeedBoost        = "speed_boost"
	EffectBondBoost         = "bond_boost"

	ShiftStatusRunning   = "running"
	ShiftStatusComplete  = "complete"
	ShiftStatusCollected = "collected"
)

// Gacha economy constants.
const (
	SinglePullCost = 100
	TenPullCost    = 900 // 10% discount off ten singles
	PityThreshold  = 10

	PullHistoryLimit = 100
)

// Duplicate pulls convert to coins keyed by rarity.
var DuplicateTokenValues = map[string]int{
	RarityCommon:    1000,
	RarityRare:      2500,
	RarityLegendary: 5000,
}

// Bond points awarded when a new pet of the given rarity is acquired.
var AcquisitionBondPoints = map[string]int{
	RarityCommon:    10,
	RarityRare:      25,
	RarityLegendary: 50,
}

// Reward composition caps.
const (
	MaxDurationReduction    = 0.75
	MaxEfficiencyMultiplier = 3.0 // base 1.0 plus the +200% bonus ceiling
	MaxEfficiencyScore      = 2.0
	MaxRewardMultiplier     = 5.0
	ShiftBonusInterval      = 5 // every Nth lifetime completion grants a ticket
	MemoryGenerationChance  = 1.0
)

// Offline progression tuning.
const (
	MinOfflineTime    = time.Minute
	MaxOfflineTime    = 8 * time.Hour
	OfflineCoinsRate  = 100.0 // per hour before efficiency scaling
	OfflineEfficiency = 0.5   // fraction of live-play rate
	OfflinePetBonus   = 0.05  // per owned pet
	OfflinePetCap     = 2.0
	AvgShiftDuration  = 30 * time.Minute
	MemoriesPerShift  = 0.3
)
