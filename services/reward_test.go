package services

import (
	"math"
	"testing"
	"time"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

func testActivity() *model.Activity {
	return &model.Activity{
		ID:        "act_morning_bake",
		Section:   shared.SectionBakery,
		BaseCoins: 100,
		BaseXP:    20,
		SlotCount: 5,
	}
}

func commonPet(section string) *model.Pet {
	return &model.Pet{ID: "pet_c", Rarity: shared.RarityCommon, SectionAffinity: section}
}

func TestEfficiencyStepsByCrewSize(t *testing.T) {
	svc := &RewardService{rng: NewSeededRNG(1)}
	activity := testActivity()

	cases := []struct {
		petCount int
		want     float64
	}{
		{0, 1.0},
		{1, 1.05},
		{2, 1.10},
		{3, 1.25},
		{5, 1.25},
	}

	for _, tc := range cases {
		pets := make([]*model.Pet, tc.petCount)
		for i := range pets {
			pets[i] = commonPet(shared.SectionSalon)
		}
		result := svc.CalculateShiftRewards(activity, pets, nil, 0)
		if result.EfficiencyMultiplier != tc.want {
			t.Errorf("%d pets: efficiency = %v, want %v", tc.petCount, result.EfficiencyMultiplier, tc.want)
		}
	}
}

func TestRarityMultiplierCompoundsPerPet(t *testing.T) {
	svc := &RewardService{rng: NewSeededRNG(1)}

	pets := []*model.Pet{
		{ID: "a", Rarity: shared.RarityLegendary, SectionAffinity: shared.SectionSalon},
		{ID: "b", Rarity: shared.RarityRare, SectionAffinity: shared.SectionSalon},
		{ID: "c", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionSalon},
	}
	result := svc.CalculateShiftRewards(testActivity(), pets, nil, 0)

	want := 1.25 * 1.10
	if math.Abs(result.RarityMultiplier-want) > 1e-9 {
		t.Errorf("rarity multiplier = %v, want %v", result.RarityMultiplier, want)
	}
}

func TestAffinityBonusCoinsBySectionMatches(t *testing.T) {
	svc := &RewardService{rng: NewSeededRNG(1)}
	activity := testActivity()

	cases := []struct {
		matches int
		want    int
	}{
		{0, 0},
		{1, 100},
		{2, 250},
		{3, 500},
		{4, 500},
	}

	for _, tc := range cases {
		var pets []*model.Pet
		for i := 0; i < tc.matches; i++ {
			pets = append(pets, commonPet(activity.Section))
		}
		result := svc.CalculateShiftRewards(activity, pets, nil, 0)
		if result.AffinityBonusCoins != tc.want {
			t.Errorf("%d matches: affinity bonus = %d, want %d", tc.matches, result.AffinityBonusCoins, tc.want)
		}
	}
}

func TestTotalMultiplierCapped(t *testing.T) {
	svc := &RewardService{rng: NewSeededRNG(1)}

	var pets []*model.Pet
	for i := 0; i < 5; i++ {
		pets = append(pets, &model.Pet{ID: "x", Rarity: shared.RarityLegendary, SectionAffinity: shared.SectionSalon})
	}
	effects := []*model.Consumable{
		{ID: "i1", EffectKind: shared.EffectRewardMultiplier, Magnitude: 3.0},
	}

	result := svc.CalculateShiftRewards(testActivity(), pets, effects, 0)
	if result.TotalMultiplier > shared.MaxRewardMultiplier {
		t.Errorf("total multiplier = %v, exceeds cap %v", result.TotalMultiplier, shared.MaxRewardMultiplier)
	}
	if result.TotalMultiplier != shared.MaxRewardMultiplier {
		t.Errorf("total multiplier = %v, want capped at %v", result.TotalMultiplier, shared.MaxRewardMultiplier)
	}
}

func TestEfficiencyBonusEffectCapped(t *testing.T) {
	svc := &RewardService{rng: NewSeededRNG(1)}

	effects := []*model.Consumable{
		{ID: "i1", EffectKind: shared.EffectEfficiencyBonus, Magnitude: 5.0},
	}
	result := svc.CalculateShiftRewards(testActivity(), nil, effects, 0)
	if result.EfficiencyMultiplier != shared.MaxEfficiencyMultiplier {
		t.Errorf("efficiency = %v, want capped at %v", result.EfficiencyMultiplier, shared.MaxEfficiencyMultiplier)
	}
}

func TestAddingLegendaryNeverLowersPayout(t *testing.T) {
	svc := &RewardService{rng: fixedRNG{roll: 1.0}}
	activity := testActivity()
	legendary := &model.Pet{ID: "pet_l", Rarity: shared.RarityLegendary, SectionAffinity: shared.SectionSalon}

	var pets []*model.Pet
	prev := 0
	for i := 0; i <= 6; i++ {
		result := svc.CalculateShiftRewards(activity, pets, nil, 0)
		if result.FinalCoins < prev {
			t.Fatalf("%d legendaries pay %d coins, less than %d with one fewer", len(pets), result.FinalCoins, prev)
		}
		prev = result.FinalCoins
		pets = append(pets, legendary)
	}
}

func TestMilestoneTicketEveryFifthCompletion(t *testing.T) {
	svc := &RewardService{rng: NewSeededRNG(1)}
	activity := testActivity()

	for completions := 0; completions < 12; completions++ {
		result := svc.CalculateShiftRewards(activity, nil, nil, completions)
		want := 0
		if (completions+1)%shared.ShiftBonusInterval == 0 {
			want = 1
		}
		if result.GachaTickets != want {
			t.Errorf("completion %d: tickets = %d, want %d", completions+1, result.GachaTickets, want)
		}
	}
}

func TestDeterministicPayoutIsStableAcrossSeeds(t *testing.T) {
	activity := testActivity()
	pets := []*model.Pet{commonPet(activity.Section)}

	a := (&RewardService{rng: NewSeededRNG(1)}).CalculateShiftRewards(activity, pets, nil, 0)
	b := (&RewardService{rng: NewSeededRNG(99)}).CalculateShiftRewards(activity, pets, nil, 0)

	if a.FinalCoins != b.FinalCoins || a.FinalXP != b.FinalXP {
		t.Errorf("deterministic payout varies with seed: (%d,%d) vs (%d,%d)",
			a.FinalCoins, a.FinalXP, b.FinalCoins, b.FinalXP)
	}

	wantCoins := int(math.Round(100*1.05)) + 100
	if a.FinalCoins != wantCoins {
		t.Errorf("final coins = %d, want %d", a.FinalCoins, wantCoins)
	}
}

func TestDurationReductionsStackMultiplicatively(t *testing.T) {
	got := CombineDurationReductions([]float64{0.15, 0.15})
	want := 1 - 0.85*0.85
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("combined reduction = %v, want %v", got, want)
	}
}

func TestDurationReductionCapped(t *testing.T) {
	got := CombineDurationReductions([]float64{0.5, 0.5, 0.5})
	if got != shared.MaxDurationReduction {
		t.Errorf("combined reduction = %v, want cap %v", got, shared.MaxDurationReduction)
	}

	base := 60 * time.Minute
	effective := EffectiveDuration(base, got)
	if effective != 15*time.Minute {
		t.Errorf("effective duration = %v, want 15m", effective)
	}
}
