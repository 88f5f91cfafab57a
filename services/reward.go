// services/reward.go
package services

import (
	"math"
	"time"

	"github.com/alphabatem/common/context"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// Crew-size efficiency steps. Index is min(petCount, 3).
var crewEfficiencySteps = [4]float64{1.0, 1.05, 1.10, 1.25}

// Flat coin bonus by number of pets whose affinity matches the section.
var affinityBonusCoins = [4]int{0, 100, 250, 500}

// Per-rarity multipliers compound per assigned pet.
const (
	legendaryRewardFactor = 1.25
	rareRewardFactor      = 1.10
)

// Bonus roll base chances; all scale with the total reward multiplier.
const (
	bonusGemChance     = 0.05
	bonusTokenChance   = 0.10
	specialItemChance  = 0.03
	bonusGemMin        = 1
	bonusGemMax        = 3
	bonusTokenValue    = 2500
	specialItemRewards = "item_golden_biscuit"
)

// RewardCalculationResult splits the deterministic payout from the rolled
// bonuses so the deterministic half can be asserted exactly in tests.
type RewardCalculationResult struct {
	BaseCoins            int
	BaseXP               int
	EfficiencyMultiplier float64
	RarityMultiplier     float64
	TotalMultiplier      float64
	AffinityBonusCoins   int
	FinalCoins           int
	FinalXP              int

	// Milestone and rolled extras.
	GachaTickets         int
	BonusGems            int
	BonusDuplicateTokens int
	SpecialItems         []string
	MemoryGenerated      bool

	// BondMultiplier scales the bond award applied by the shift flow.
	BondMultiplier float64
}

// RewardService computes shift payouts. It is stateless; everything it needs
// arrives as arguments, so the same inputs always produce the same
// deterministic half of the result.
type RewardService struct {
	context.DefaultService

	rng RandomSource
}

const REWARD_SVC = "reward_svc"

func (svc RewardService) Id() string {
	return REWARD_SVC
}

func (svc *RewardService) Configure(ctx *context.Context) error {
	svc.rng = DefaultRNG()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RewardService) Start() error {
	return nil
}

func (svc *RewardService) random() RandomSource {
	if svc.rng == nil {
		svc.rng = DefaultRNG()
	}
	return svc.rng
}

// CalculateShiftRewards resolves the payout of a finished shift.
// lifetimeCompletions is the count BEFORE this shift; the completion being
// paid out here is lifetimeCompletions+1 for milestone purposes.
func (svc *RewardService) CalculateShiftRewards(activity *model.Activity, pets []*model.Pet, effects []*model.Consumable, lifetimeCompletions int) *RewardCalculationResult {
	result := &RewardCalculationResult{
		BaseCoins:      activity.BaseCoins,
		BaseXP:         activity.BaseXP,
		BondMultiplier: 1.0,
	}

	result.EfficiencyMultiplier = crewEfficiencySteps[min(len(pets), 3)]
	result.RarityMultiplier = 1.0

	affinityMatches := 0
	for _, pet := range pets {
		switch pet.Rarity {
		case shared.RarityLegendary:
			result.RarityMultiplier *= legendaryRewardFactor
		case shared.RarityRare:
			result.RarityMultiplier *= rareRewardFactor
		}
		if pet.SectionAffinity == activity.Section {
			affinityMatches++
		}
	}
	result.AffinityBonusCoins = affinityBonusCoins[min(affinityMatches, 3)]

	consumableMultiplier := 1.0
	for _, effect := range effects {
		switch effect.EffectKind {
		case shared.EffectEfficiencyBonus:
			result.EfficiencyMultiplier += effect.Magnitude
		case shared.EffectRewardMultiplier:
			consumableMultiplier *= effect.Magnitude
		case shared.EffectBondBoost:
			result.BondMultiplier *= effect.Magnitude
		}
	}
	if result.EfficiencyMultiplier > shared.MaxEfficiencyMultiplier {
		result.EfficiencyMultiplier = shared.MaxEfficiencyMultiplier
	}

	result.TotalMultiplier = result.EfficiencyMultiplier * result.RarityMultiplier * consumableMultiplier
	if result.TotalMultiplier > shared.MaxRewardMultiplier {
		result.TotalMultiplier = shared.MaxRewardMultiplier
	}

	result.FinalCoins = int(math.Round(float64(activity.BaseCoins)*result.TotalMultiplier)) + result.AffinityBonusCoins
	result.FinalXP = int(math.Round(float64(activity.BaseXP) * result.TotalMultiplier))

	if (lifetimeCompletions+1)%shared.ShiftBonusInterval == 0 {
		result.GachaTickets = 1
	}

	svc.rollBonuses(result)

	result.MemoryGenerated = svc.random().Float64() < shared.MemoryGenerationChance

	return result
}

// rollBonuses applies the scaled Bernoulli extras. Chances scale with the
// total multiplier but are clamped to certainty.
func (svc *RewardService) rollBonuses(result *RewardCalculationResult) {
	rng := svc.random()

	if rng.Float64() < clampChance(bonusGemChance*result.TotalMultiplier) {
		result.BonusGems = bonusGemMin + rng.IntN(bonusGemMax-bonusGemMin+1)
	}
	if rng.Float64() < clampChance(bonusTokenChance*result.TotalMultiplier) {
		result.BonusDuplicateTokens = bonusTokenValue
	}
	if rng.Float64() < clampChance(specialItemChance*result.TotalMultiplier) {
		result.SpecialItems = append(result.SpecialItems, specialItemRewards)
	}
}

func clampChance(p float64) float64 {
	if p > 1.0 {
		return 1.0
	}
	return p
}

// CombineDurationReductions folds independent reduction fractions so stacked
// effects can never reach 100%: two 15% boosts give 1-0.85*0.85 = 27.75%.
// The combined value is clamped at the global cap.
func CombineDurationReductions(fractions []float64) float64 {
	remaining := 1.0
	for _, f := range fractions {
		if f <= 0 {
			continue
		}
		if f > 1 {
			f = 1
		}
		remaining *= 1 - f
	}
	reduction := 1 - remaining
	if reduction > shared.MaxDurationReduction {
		reduction = shared.MaxDurationReduction
	}
	return reduction
}

// EffectiveDuration applies a combined reduction to a base activity duration.
func EffectiveDuration(base time.Duration, reduction float64) time.Duration {
	if reduction <= 0 {
		return base
	}
	return time.Duration(float64(base) * (1 - reduction))
}
