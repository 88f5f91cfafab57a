// services/gacha.go
package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// rarityWeights must sum to 1.0 across the three tiers.
type rarityWeights struct {
	Legendary float64
	Rare      float64
	Common    float64
}

var defaultRarityWeights = rarityWeights{
	Legendary: 0.03,
	Rare:      0.17,
	Common:    0.80,
}

// drawEngine selects a rarity tier under a hard pity guarantee: the counter
// increments on every draw, and at the threshold the next draw is forced to
// legendary. Only legendary results reset the counter — a rare roll leaves
// pity running. That asymmetry is deliberate and exercised by the tests.
type drawEngine struct {
	weights   rarityWeights
	threshold int
	rng       RandomSource
}

func newDrawEngine(rng RandomSource) *drawEngine {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &drawEngine{
		weights:   defaultRarityWeights,
		threshold: shared.PityThreshold,
		rng:       rng,
	}
}

// DetermineRarity advances the pity counter and returns the tier plus whether
// the guarantee fired. The counter is owned by the caller's player state.
func (e *drawEngine) DetermineRarity(pity *int) (string, bool) {
	*pity++

	if *pity >= e.threshold {
		*pity = 0
		return shared.RarityLegendary, true
	}

	roll := e.rng.Float64()
	switch {
	case roll < e.weights.Legendary:
		*pity = 0
		return shared.RarityLegendary, false
	case roll < e.weights.Legendary+e.weights.Rare:
		return shared.RarityRare, false
	default:
		return shared.RarityCommon, false
	}
}

type GachaService struct {
	context.DefaultService

	contentSvc *ContentService
	playerSvc  playerStateStore
	bondSvc    *BondService
	eventSvc   *EventService
	monitorSvc *MonitoringService

	engine *drawEngine
}

const GACHA_SVC = "gacha_svc"

func (svc GachaService) Id() string {
	return GACHA_SVC
}

func (svc *GachaService) Configure(ctx *context.Context) error {
	svc.engine = newDrawEngine(DefaultRNG())
	return svc.DefaultService.Configure(ctx)
}

func (svc *GachaService) Start() error {
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.playerSvc = svc.Service(PLAYER_SVC).(*PlayerService)
	svc.bondSvc = svc.Service(BOND_SVC).(*BondService)
	svc.eventSvc = svc.Service(EVENT_SVC).(*EventService)
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// PullSingleForPlayer loads state, runs one draw and persists the result.
func (svc *GachaService) PullSingleForPlayer(playerID string) (*dto.GachaPullResponse, error) {
	return svc.pullForPlayer(playerID, 1)
}

func (svc *GachaService) PullTenForPlayer(playerID string) (*dto.GachaPullResponse, error) {
	return svc.pullForPlayer(playerID, 10)
}

func (svc *GachaService) pullForPlayer(playerID string, count int) (*dto.GachaPullResponse, error) {
	lock := svc.playerSvc.LockPlayer(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	var resp *dto.GachaPullResponse
	switch count {
	case 1:
		resp, err = svc.PullSingle(state)
	case 10:
		resp, err = svc.PullTen(state)
	default:
		return nil, shared.NewBadRequestError(fmt.Errorf("invalid pull count %d", count), "Pull count must be 1 or 10")
	}
	if err != nil {
		return nil, err
	}

	if err := svc.playerSvc.SaveState(state); err != nil {
		return nil, err
	}
	return resp, nil
}

// PullSingle spends the single-pull cost and performs one draw. Affordability
// is checked before any mutation; on failure nothing changes.
func (svc *GachaService) PullSingle(state *model.PlayerState) (*dto.GachaPullResponse, error) {
	return svc.pull(state, 1, shared.SinglePullCost)
}

// PullTen performs ten draws for the discounted batch price.
func (svc *GachaService) PullTen(state *model.PlayerState) (*dto.GachaPullResponse, error) {
	return svc.pull(state, 10, shared.TenPullCost)
}

func (svc *GachaService) pull(state *model.PlayerState, draws, cost int) (*dto.GachaPullResponse, error) {
	if state.Progress.Diamonds < cost {
		svc.publish(InsufficientFundsPayload{
			PlayerID: state.Progress.PlayerID,
			Currency: "diamonds",
			Needed:   cost,
			Held:     state.Progress.Diamonds,
		})
		return nil, shared.NewPaymentRequiredError(
			fmt.Errorf("need %d diamonds, have %d", cost, state.Progress.Diamonds),
			"Insufficient diamonds")
	}

	if err := state.SpendDiamonds(cost); err != nil {
		return nil, shared.NewPaymentRequiredError(err, "Insufficient diamonds")
	}

	results := make([]dto.DrawResult, 0, draws)
	for i := 0; i < draws; i++ {
		result, err := svc.drawOnce(state)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	return svc.finishBatch(state, results, cost, false)
}

// drawOnce resolves one draw end to end: rarity under pity, a uniform pet
// within the tier, then the shared acquisition routine.
func (svc *GachaService) drawOnce(state *model.PlayerState) (*dto.DrawResult, error) {
	rarity, forced := svc.engine.DetermineRarity(&state.Progress.PityCounter)

	pool, err := svc.contentSvc.PetsByRarity(rarity)
	if err != nil {
		return nil, err
	}
	pet := pool[svc.engine.rng.IntN(len(pool))]

	if svc.monitorSvc != nil {
		svc.monitorSvc.RecordPull(rarity, forced)
	}

	return svc.grantPet(state, pet, forced)
}

func (svc *GachaService) finishBatch(state *model.PlayerState, results []dto.DrawResult, cost int, tutorial bool) (*dto.GachaPullResponse, error) {
	resp := &dto.GachaPullResponse{
		Results:       results,
		DiamondsSpent: cost,
	}

	records := make([]model.PullRecord, 0, len(results))
	now := time.Now()
	for _, r := range results {
		if r.IsNew {
			resp.NewPets++
		} else {
			resp.Duplicates++
			resp.CoinsFromDupes += r.CoinsValue
		}
		records = append(records, model.PullRecord{
			PetID:     r.PetID,
			Rarity:    r.Rarity,
			Duplicate: !r.IsNew,
			Forced:    r.PityForced,
			PulledAt:  now,
		})
	}

	if err := state.AppendPullHistory(records, shared.PullHistoryLimit); err != nil {
		log.WithError(err).Warn("Failed to append pull history")
	}

	resp.PityCounter = state.Progress.PityCounter
	resp.DiamondsBalance = state.Progress.Diamonds
	resp.CoinsBalance = state.Progress.Coins

	svc.publish(PullCompletedPayload{
		PlayerID:       state.Progress.PlayerID,
		Draws:          len(results),
		NewPets:        resp.NewPets,
		Duplicates:     resp.Duplicates,
		CoinsFromDupes: resp.CoinsFromDupes,
		DiamondsSpent:  cost,
		Tutorial:       tutorial,
	})

	return resp, nil
}

// tutorialStarterPets are always granted by the tutorial pull, in this order.
var tutorialStarterPets = []string{"pet_muffin", "pet_peanut"}

// PerformTutorialPullForPlayer wraps the tutorial pull with state load/save.
func (svc *GachaService) PerformTutorialPullForPlayer(playerID string) (*dto.GachaPullResponse, error) {
	lock := svc.playerSvc.LockPlayer(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	resp, err := svc.PerformTutorialPull(state)
	if err != nil {
		return nil, err
	}

	if err := svc.playerSvc.SaveState(state); err != nil {
		return nil, err
	}
	return resp, nil
}

// PerformTutorialPull grants the fixed starter lineup: the guaranteed pets,
// one rare-or-better, and common fill up to ten draws, at zero cost. It runs
// through the same acquisition routine as a paid pull so bond and event side
// effects fire identically.
func (svc *GachaService) PerformTutorialPull(state *model.PlayerState) (*dto.GachaPullResponse, error) {
	if state.Progress.TutorialPullDone {
		return nil, shared.NewConflictError(fmt.Errorf("tutorial pull already performed"), "Tutorial pull already performed")
	}

	results := make([]dto.DrawResult, 0, 10)

	for _, petID := range tutorialStarterPets {
		pet, err := svc.contentSvc.GetPet(petID)
		if err != nil {
			return nil, err
		}
		result, err := svc.grantPet(state, pet, false)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	// One guaranteed rare-or-better: roll the legendary share of the rare+
	// conditional distribution, otherwise take rare.
	tier := shared.RarityRare
	highShare := defaultRarityWeights.Legendary / (defaultRarityWeights.Legendary + defaultRarityWeights.Rare)
	if svc.engine.rng.Float64() < highShare {
		tier = shared.RarityLegendary
	}
	pool, err := svc.contentSvc.PetsByRarity(tier)
	if err != nil {
		return nil, err
	}
	result, err := svc.grantPet(state, svc.pickUnowned(state, pool), false)
	if err != nil {
		return nil, err
	}
	results = append(results, *result)

	commons, err := svc.contentSvc.PetsByRarity(shared.RarityCommon)
	if err != nil {
		return nil, err
	}
	for len(results) < 10 {
		result, err := svc.grantPet(state, svc.pickUnowned(state, commons), false)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	state.Progress.TutorialPullDone = true

	return svc.finishBatch(state, results, 0, true)
}

// pickUnowned prefers a pet the player does not own yet so the tutorial never
// produces duplicates; if the whole pool is owned it falls back to uniform.
func (svc *GachaService) pickUnowned(state *model.PlayerState, pool []*model.Pet) *model.Pet {
	start := svc.engine.rng.IntN(len(pool))
	for i := 0; i < len(pool); i++ {
		pet := pool[(start+i)%len(pool)]
		if !state.OwnsPet(pet.ID) {
			return pet
		}
	}
	return pool[start]
}

// grantPet runs the shared acquisition path for a known catalog pet.
func (svc *GachaService) grantPet(state *model.PlayerState, pet *model.Pet, forced bool) (*dto.DrawResult, error) {
	result := &dto.DrawResult{
		PetID:      pet.ID,
		PetName:    pet.Name,
		Rarity:     pet.Rarity,
		PityForced: forced,
	}

	state.Progress.TotalPulls++

	if state.OwnsPet(pet.ID) {
		// Duplicates never add a second PlayerPet record.
		value := shared.DuplicateTokenValues[pet.Rarity]
		state.AddCoins(value)
		result.CoinsValue = value
		return result, nil
	}

	now := time.Now()
	id, _ := uuid.NewV7()
	state.Pets = append(state.Pets, model.PlayerPet{
		ID:         id.String(),
		PlayerID:   state.Progress.PlayerID,
		PetID:      pet.ID,
		AcquiredAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	result.IsNew = true

	// Affinity bonus goes straight through the ledger inside the same state
	// mutation; the event below is notification only.
	if npc := svc.contentSvc.NPCForSection(pet.SectionAffinity); npc != nil {
		svc.bondSvc.AddBondPoints(state, npc.ID, shared.AcquisitionBondPoints[pet.Rarity])
	}

	svc.publish(PetAcquiredPayload{
		PlayerID:   state.Progress.PlayerID,
		PetID:      pet.ID,
		Rarity:     pet.Rarity,
		Section:    pet.SectionAffinity,
		PityForced: forced,
		AcquiredAt: now,
	})

	return result, nil
}

func (svc *GachaService) GetPullHistory(playerID string) (*dto.PullHistoryResponse, error) {
	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	var records []model.PullRecord
	if len(state.Progress.PullHistory) > 0 {
		if err := json.Unmarshal(state.Progress.PullHistory, &records); err != nil {
			records = nil
		}
	}

	// Stored oldest-first; the client wants the latest pulls on top.
	entries := make([]dto.PullHistoryEntry, len(records))
	for i, r := range records {
		entries[len(records)-1-i] = dto.PullHistoryEntry{
			PetID:     r.PetID,
			Rarity:    r.Rarity,
			Duplicate: r.Duplicate,
			Forced:    r.Forced,
			PulledAt:  r.PulledAt,
		}
	}

	return &dto.PullHistoryResponse{Pulls: entries, Total: len(entries)}, nil
}

func (svc *GachaService) publish(payload EventPayload) {
	if svc.eventSvc != nil {
		svc.eventSvc.Publish(payload)
	}
}
