package services

import (
	"sync"
	"time"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// fixedRNG always returns the same roll; IntN always picks index zero.
type fixedRNG struct{ roll float64 }

func (f fixedRNG) Float64() float64 { return f.roll }
func (f fixedRNG) IntN(n int) int   { return 0 }

func testCatalog() ([]model.Pet, []model.Activity, []model.Consumable, []model.NPC) {
	pets := []model.Pet{
		{ID: "pet_muffin", Name: "Muffin", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionBakery},
		{ID: "pet_peanut", Name: "Peanut", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionPlayground},
		{ID: "pet_biscuit", Name: "Biscuit", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionBakery},
		{ID: "pet_pickle", Name: "Pickle", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionPlayground},
		{ID: "pet_mochi", Name: "Mochi", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionSalon},
		{ID: "pet_waffles", Name: "Waffles", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionBakery},
		{ID: "pet_noodle", Name: "Noodle", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionSalon},
		{ID: "pet_clover", Name: "Clover", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionPlayground},
		{ID: "pet_pepper", Name: "Pepper", Rarity: shared.RarityCommon, SectionAffinity: shared.SectionSalon},
		{ID: "pet_saffron", Name: "Saffron", Rarity: shared.RarityRare, SectionAffinity: shared.SectionBakery},
		{ID: "pet_velvet", Name: "Velvet", Rarity: shared.RarityRare, SectionAffinity: shared.SectionSalon},
		{ID: "pet_aurora", Name: "Aurora", Rarity: shared.RarityLegendary, SectionAffinity: shared.SectionSalon},
		{ID: "pet_comet", Name: "Comet", Rarity: shared.RarityLegendary, SectionAffinity: shared.SectionPlayground},
	}
	activities := []model.Activity{
		{ID: "act_morning_bake", Name: "Morning Bake", Section: shared.SectionBakery, DurationMs: (15 * time.Minute).Milliseconds(), BaseCoins: 100, BaseXP: 20, SlotCount: 3, MinPlayerLevel: 1},
		{ID: "act_fetch_hour", Name: "Fetch Hour", Section: shared.SectionPlayground, DurationMs: (15 * time.Minute).Milliseconds(), BaseCoins: 90, BaseXP: 25, SlotCount: 3, MinPlayerLevel: 1},
		{ID: "act_spa_day", Name: "Spa Day", Section: shared.SectionSalon, DurationMs: (60 * time.Minute).Milliseconds(), BaseCoins: 500, BaseXP: 100, SlotCount: 4, MinPlayerLevel: 7},
		{ID: "act_quick_rush", Name: "Quick Rush", Section: shared.SectionBakery, DurationMs: 0, BaseCoins: 100, BaseXP: 20, SlotCount: 3, MinPlayerLevel: 1},
	}
	consumables := []model.Consumable{
		{ID: "item_espresso_shot", Name: "Espresso Shot", EffectKind: shared.EffectSpeedBoost, Magnitude: 0.15},
		{ID: "item_turbo_treat", Name: "Turbo Treat", EffectKind: shared.EffectDurationReduction, Magnitude: 0.25},
		{ID: "item_lucky_bell", Name: "Lucky Bell", EffectKind: shared.EffectRewardMultiplier, Magnitude: 1.5},
		{ID: "item_golden_whisk", Name: "Golden Whisk", EffectKind: shared.EffectEfficiencyBonus, Magnitude: 0.25},
		{ID: "item_friendship_cookie", Name: "Friendship Cookie", EffectKind: shared.EffectBondBoost, Magnitude: 2.0},
		{ID: "item_finish_whistle", Name: "Finish Whistle", EffectKind: shared.EffectInstantFinish, Magnitude: 1.0},
	}
	npcs := []model.NPC{
		{ID: "npc_aria", Name: "Aria", Section: shared.SectionBakery},
		{ID: "npc_kai", Name: "Kai", Section: shared.SectionPlayground},
		{ID: "npc_elias", Name: "Elias", Section: shared.SectionSalon},
	}
	return pets, activities, consumables, npcs
}

func newTestContent() *ContentService {
	content := &ContentService{}
	content.LoadCatalogs(testCatalog())
	return content
}

func newTestState(playerID string) *model.PlayerState {
	now := time.Now()
	return &model.PlayerState{
		Progress: &model.PlayerProgress{
			ID:          "prog_" + playerID,
			PlayerID:    playerID,
			Coins:       1000,
			Diamonds:    1000,
			Level:       1,
			PullHistory: []byte("[]"),
			LastSeenAt:  &now,
		},
	}
}

func newTestBond(content *ContentService, events *EventService) *BondService {
	return &BondService{contentSvc: content, eventSvc: events}
}

func newTestGacha(seed uint64, content *ContentService, events *EventService) *GachaService {
	return &GachaService{
		contentSvc: content,
		bondSvc:    newTestBond(content, events),
		eventSvc:   events,
		engine:     newDrawEngine(NewSeededRNG(seed)),
	}
}

func newTestShift(seed uint64, content *ContentService, events *EventService) *ShiftService {
	return &ShiftService{
		contentSvc: content,
		rewardSvc:  &RewardService{rng: NewSeededRNG(seed)},
		bondSvc:    newTestBond(content, events),
		memorySvc:  &MemoryService{contentSvc: content, eventSvc: events, rng: NewSeededRNG(seed)},
		eventSvc:   events,
		running:    map[string]*runningShift{},
	}
}

func grantTestPet(state *model.PlayerState, petID string) {
	now := time.Now()
	state.Pets = append(state.Pets, model.PlayerPet{
		ID:         "owned_" + petID,
		PlayerID:   state.Progress.PlayerID,
		PetID:      petID,
		AcquiredAt: now,
	})
}

// stubPlayerStore keeps one player's aggregate in memory with DB-like
// semantics: every load hands out a fresh copy and a save replaces the
// stored snapshot wholesale.
type stubPlayerStore struct {
	locker PlayerService

	mu      sync.Mutex
	saveErr error
	saves   int

	progress    model.PlayerProgress
	pets        []model.PlayerPet
	bonds       []model.NPCBond
	consumables []model.ConsumableStack
	shifts      []model.Shift
}

func newStubPlayerStore(state *model.PlayerState) *stubPlayerStore {
	store := &stubPlayerStore{}
	store.snapshot(state)
	return store
}

func (s *stubPlayerStore) snapshot(state *model.PlayerState) {
	s.progress = *state.Progress
	s.pets = append([]model.PlayerPet(nil), state.Pets...)
	s.bonds = append([]model.NPCBond(nil), state.Bonds...)
	s.consumables = append([]model.ConsumableStack(nil), state.Consumables...)
	s.shifts = append([]model.Shift(nil), state.Shifts...)
}

func (s *stubPlayerStore) LockPlayer(playerID string) *sync.Mutex {
	return s.locker.LockPlayer(playerID)
}

func (s *stubPlayerStore) LoadState(playerID string) (*model.PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress := s.progress
	return &model.PlayerState{
		Progress:    &progress,
		Pets:        append([]model.PlayerPet(nil), s.pets...),
		Bonds:       append([]model.NPCBond(nil), s.bonds...),
		Consumables: append([]model.ConsumableStack(nil), s.consumables...),
		Shifts:      append([]model.Shift(nil), s.shifts...),
	}, nil
}

func (s *stubPlayerStore) SaveState(state *model.PlayerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.snapshot(state)
	return nil
}
