// services/shift.go
package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

const shiftTickInterval = time.Second

// runningShift is the in-memory view the ticker works from. Entries exist
// only while a shift can still be collected; removing one is the atomic
// claim that makes completion idempotent under concurrent requests.
type runningShift struct {
	playerID string
	section  string
	endsAt   time.Time
	notified bool
}

// ShiftService drives the shift state machine: running, complete when the
// timer lapses, collected once rewards are paid. Transitions only move
// forward and rewards are paid exactly once per shift.
type ShiftService struct {
	context.DefaultService

	sqlSvc     *SqliteService
	contentSvc *ContentService
	playerSvc  playerStateStore
	rewardSvc  *RewardService
	bondSvc    *BondService
	memorySvc  *MemoryService
	eventSvc   *EventService
	monitorSvc *MonitoringService

	mu      sync.Mutex
	running map[string]*runningShift

	stopTicker chan struct{}
}

const SHIFT_SVC = "shift_svc"

func (svc ShiftService) Id() string {
	return SHIFT_SVC
}

func (svc *ShiftService) Configure(ctx *context.Context) error {
	svc.running = map[string]*runningShift{}
	svc.stopTicker = make(chan struct{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *ShiftService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.playerSvc = svc.Service(PLAYER_SVC).(*PlayerService)
	svc.rewardSvc = svc.Service(REWARD_SVC).(*RewardService)
	svc.bondSvc = svc.Service(BOND_SVC).(*BondService)
	svc.memorySvc = svc.Service(MEMORY_SVC).(*MemoryService)
	svc.eventSvc = svc.Service(EVENT_SVC).(*EventService)
	svc.monitorSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	if err := svc.recoverRunningShifts(); err != nil {
		return err
	}

	go svc.tickLoop()
	return nil
}

func (svc *ShiftService) Shutdown() {
	close(svc.stopTicker)
}

// recoverRunningShifts re-registers shifts that were running when the
// process last stopped so their timers resume ticking.
func (svc *ShiftService) recoverRunningShifts() error {
	shifts, err := svc.sqlSvc.GetAllRunningShifts()
	if err != nil {
		return err
	}
	for i := range shifts {
		svc.track(&shifts[i])
	}
	if len(shifts) > 0 {
		log.WithField("count", len(shifts)).Info("resumed running shifts")
	}
	return nil
}

func (svc *ShiftService) track(shift *model.Shift) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.running == nil {
		svc.running = map[string]*runningShift{}
	}
	svc.running[shift.ID] = &runningShift{
		playerID: shift.PlayerID,
		section:  shift.Section,
		endsAt:   shift.StartedAt.Add(shift.Duration()),
	}
}

func (svc *ShiftService) tickLoop() {
	ticker := time.NewTicker(shiftTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-svc.stopTicker:
			return
		case now := <-ticker.C:
			svc.tick(now)
		}
	}
}

// tick publishes countdown updates and, once per shift, the zero-remaining
// update that tells clients the shift finished and is ready to collect.
func (svc *ShiftService) tick(now time.Time) {
	svc.mu.Lock()
	updates := make([]ShiftTimerPayload, 0, len(svc.running))
	for shiftID, entry := range svc.running {
		remaining := entry.endsAt.Sub(now)
		if remaining <= 0 {
			if entry.notified {
				continue
			}
			entry.notified = true
			remaining = 0
		}
		updates = append(updates, ShiftTimerPayload{
			PlayerID:    entry.playerID,
			ShiftID:     shiftID,
			RemainingMs: remaining.Milliseconds(),
		})
	}
	svc.mu.Unlock()

	for _, update := range updates {
		svc.publish(update)
	}
}

// StartShiftForPlayer loads, starts and persists in one request scope.
func (svc *ShiftService) StartShiftForPlayer(playerID string, req *dto.StartShiftRequest) (*dto.ShiftResponse, error) {
	lock := svc.playerSvc.LockPlayer(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	shift, err := svc.StartShift(state, req)
	if err != nil {
		return nil, err
	}

	if err := svc.playerSvc.SaveState(state); err != nil {
		svc.untrack(shift.ID)
		return nil, err
	}

	return svc.toResponse(shift, time.Now()), nil
}

// StartShift validates the request against the player state and creates the
// running shift. Consumables listed on the request are spent here; duration
// effects shorten the timer, the rest ride along until collection.
func (svc *ShiftService) StartShift(state *model.PlayerState, req *dto.StartShiftRequest) (*model.Shift, error) {
	activity, err := svc.contentSvc.GetActivity(req.ActivityID)
	if err != nil {
		return nil, err
	}

	if state.Progress.Level < activity.MinPlayerLevel {
		return nil, shared.NewForbiddenError(nil, fmt.Sprintf("section requires player level %d", activity.MinPlayerLevel))
	}

	if existing := state.RunningShiftInSection(activity.Section); existing != nil {
		return nil, shared.NewConflictError(nil, "a shift is already running in this section")
	}

	if len(req.PetIDs) > activity.SlotCount {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("activity allows at most %d pets", activity.SlotCount))
	}

	seen := map[string]bool{}
	for _, petID := range req.PetIDs {
		if seen[petID] {
			return nil, shared.NewBadRequestError(nil, "duplicate pet in party: "+petID)
		}
		seen[petID] = true
		if !state.OwnsPet(petID) {
			return nil, shared.NewBadRequestError(nil, "pet not owned: "+petID)
		}
	}

	// Resolve consumables before spending any so a bad id rejects the whole
	// request with inventory untouched.
	var applied []*model.Consumable
	for _, consumableID := range req.ConsumableIDs {
		consumable, err := svc.contentSvc.GetConsumable(consumableID)
		if err != nil {
			return nil, err
		}
		if consumable.EffectKind == shared.EffectInstantFinish {
			return nil, shared.NewBadRequestError(nil, "instant finish items are spent at completion, not start")
		}
		if state.ConsumableQty(consumableID) <= 0 {
			return nil, shared.NewBadRequestError(nil, "consumable not in inventory: "+consumableID)
		}
		applied = append(applied, consumable)
	}
	for _, consumable := range applied {
		state.ConsumeOne(consumable.ID)
	}

	var reductions []float64
	var carriedItemIDs []string
	efficiency := crewEfficiencySteps[min(len(req.PetIDs), 3)]
	for _, consumable := range applied {
		switch consumable.EffectKind {
		case shared.EffectSpeedBoost, shared.EffectDurationReduction:
			reductions = append(reductions, consumable.Magnitude)
		case shared.EffectEfficiencyBonus:
			efficiency += consumable.Magnitude
			carriedItemIDs = append(carriedItemIDs, consumable.ID)
		default:
			carriedItemIDs = append(carriedItemIDs, consumable.ID)
		}
	}
	if efficiency > shared.MaxEfficiencyScore {
		efficiency = shared.MaxEfficiencyScore
	}

	duration := EffectiveDuration(activity.Duration(), CombineDurationReductions(reductions))

	id, err := uuid.NewV7()
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to generate shift id")
	}

	petIDs, _ := json.Marshal(req.PetIDs)
	itemIDs, _ := json.Marshal(carriedItemIDs)
	now := time.Now()
	shift := model.Shift{
		ID:              id.String(),
		PlayerID:        state.Progress.PlayerID,
		ActivityID:      activity.ID,
		Section:         activity.Section,
		AssignedPetIDs:  petIDs,
		AppliedItemIDs:  itemIDs,
		StartedAt:       now,
		DurationMs:      duration.Milliseconds(),
		Status:          shared.ShiftStatusRunning,
		EfficiencyScore: efficiency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	state.Shifts = append(state.Shifts, shift)
	created := &state.Shifts[len(state.Shifts)-1]

	svc.track(created)

	svc.publish(ShiftStartedPayload{
		PlayerID:   created.PlayerID,
		ShiftID:    created.ID,
		Section:    created.Section,
		ActivityID: created.ActivityID,
		PetCount:   len(req.PetIDs),
		DurationMs: created.DurationMs,
		StartedAt:  created.StartedAt,
	})

	return created, nil
}

// CompleteShiftForPlayer loads, collects and persists in one request scope.
// A nil response with nil error means another request already collected the
// shift; handlers translate that into the already-collected reply.
func (svc *ShiftService) CompleteShiftForPlayer(playerID, shiftID string, forced bool) (*dto.ShiftRewardsResponse, error) {
	lock := svc.playerSvc.LockPlayer(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	rewards, err := svc.CompleteShift(state, shiftID, forced)
	if err != nil || rewards == nil {
		return rewards, err
	}

	if err := svc.playerSvc.SaveState(state); err != nil {
		// None of the payout landed; restore the claim so a retry can
		// collect instead of hitting the already-collected no-op.
		if shift := state.ShiftByID(shiftID); shift != nil {
			svc.track(shift)
		}
		return nil, err
	}
	return rewards, nil
}

// CompleteShift collects a finished shift. The registry entry is the single
// claim: whichever request removes it pays out, every later request gets a
// silent no-op. Rejections keep the claim so the shift stays collectable.
func (svc *ShiftService) CompleteShift(state *model.PlayerState, shiftID string, forced bool) (*dto.ShiftRewardsResponse, error) {
	shift := state.ShiftByID(shiftID)
	if shift == nil {
		return nil, shared.NewNotFoundError(nil, "shift not found")
	}
	if shift.Status == shared.ShiftStatusCollected {
		return nil, nil
	}

	now := time.Now()

	var spentFinisher *model.Consumable
	svc.mu.Lock()
	if _, ok := svc.running[shiftID]; !ok {
		svc.mu.Unlock()
		return nil, nil
	}
	if !shift.IsElapsed(now) {
		if !forced {
			svc.mu.Unlock()
			return nil, shared.NewBadRequestError(nil, "shift has not finished yet")
		}
		finisher := svc.contentSvc.ConsumableByEffect(shared.EffectInstantFinish)
		if finisher == nil || !state.ConsumeOne(finisher.ID) {
			svc.mu.Unlock()
			return nil, shared.NewPaymentRequiredError(nil, "an instant finish item is required to end a shift early")
		}
		spentFinisher = finisher
	}
	delete(svc.running, shiftID)
	svc.mu.Unlock()

	response, err := svc.payOut(state, shift, forced, now)
	if err != nil {
		// The claim was spent; re-register so the shift is not stranded,
		// and hand back the finisher that bought nothing.
		if spentFinisher != nil {
			state.AddConsumable(shift.PlayerID, spentFinisher.ID, uuid.NewString(), 1)
		}
		svc.track(shift)
		return nil, err
	}
	return response, nil
}

func (svc *ShiftService) payOut(state *model.PlayerState, shift *model.Shift, forced bool, now time.Time) (*dto.ShiftRewardsResponse, error) {
	activity, err := svc.contentSvc.GetActivity(shift.ActivityID)
	if err != nil {
		return nil, err
	}

	var pets []*model.Pet
	for _, petID := range shift.PetIDs() {
		if pet, err := svc.contentSvc.GetPet(petID); err == nil {
			pets = append(pets, pet)
		}
	}

	var effects []*model.Consumable
	for _, itemID := range shift.AppliedItems() {
		if consumable, err := svc.contentSvc.GetConsumable(itemID); err == nil {
			effects = append(effects, consumable)
		}
	}

	completions := state.Progress.LifetimeShiftCompletions
	result := svc.rewardSvc.CalculateShiftRewards(activity, pets, effects, completions)

	state.AddCoins(result.FinalCoins)
	state.Progress.XP += result.FinalXP
	state.AddGachaTickets(result.GachaTickets)
	state.AddDiamonds(result.BonusGems)
	state.AddCoins(result.BonusDuplicateTokens)
	state.Progress.LifetimeShiftCompletions++

	response := &dto.ShiftRewardsResponse{
		ShiftID:              shift.ID,
		BaseCoins:            result.BaseCoins,
		BaseXP:               result.BaseXP,
		EfficiencyMultiplier: result.EfficiencyMultiplier,
		RarityMultiplier:     result.RarityMultiplier,
		AffinityBonusCoins:   result.AffinityBonusCoins,
		TotalMultiplier:      result.TotalMultiplier,
		FinalCoins:           result.FinalCoins,
		FinalXP:              result.FinalXP,
		GachaTickets:         result.GachaTickets,
		BonusGems:            result.BonusGems,
		BonusDuplicateTokens: result.BonusDuplicateTokens,
		SpecialItems:         result.SpecialItems,
	}

	if npc := svc.contentSvc.NPCForSection(shift.Section); npc != nil {
		points := int(float64(bondPointsForShift(result)) * result.BondMultiplier)
		svc.bondSvc.AddBondPoints(state, npc.ID, points)
		response.BondNPCID = npc.ID
		response.BondPointsAwarded = points
	}

	if result.MemoryGenerated && svc.memorySvc != nil {
		if memory := svc.memorySvc.GenerateShiftMemory(state, shift, pets); memory != nil {
			response.MemoryID = memory.ID
		}
	}

	rewardsJSON, _ := json.Marshal(response)
	shift.Rewards = rewardsJSON
	shift.Status = shared.ShiftStatusCollected
	shift.CompletedAt = &now
	shift.UpdatedAt = now

	svc.publish(ShiftCompletedPayload{
		PlayerID:     shift.PlayerID,
		ShiftID:      shift.ID,
		Section:      shift.Section,
		Forced:       forced,
		CoinsAwarded: result.FinalCoins,
		XPAwarded:    result.FinalXP,
		MemoryID:     response.MemoryID,
	})
	if svc.monitorSvc != nil {
		svc.monitorSvc.RecordShiftCompleted(forced)
	}

	return response, nil
}

// bondPointsForShift scales the base bond award by shift quality.
func bondPointsForShift(result *RewardCalculationResult) int {
	points := 10
	if result.TotalMultiplier >= 2.0 {
		points = 25
	} else if result.TotalMultiplier >= 1.25 {
		points = 15
	}
	return points
}

func (svc *ShiftService) GetShifts(playerID string) (*dto.ShiftListResponse, error) {
	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	shifts := make([]dto.ShiftResponse, 0, len(state.Shifts))
	for i := range state.Shifts {
		shifts = append(shifts, *svc.toResponse(&state.Shifts[i], now))
	}

	return &dto.ShiftListResponse{Shifts: shifts, Total: len(shifts)}, nil
}

// toResponse reports a lapsed running shift as complete; the stored status
// only advances when rewards are collected.
func (svc *ShiftService) toResponse(shift *model.Shift, now time.Time) *dto.ShiftResponse {
	status := shift.Status
	if status == shared.ShiftStatusRunning && shift.IsElapsed(now) {
		status = shared.ShiftStatusComplete
	}
	return &dto.ShiftResponse{
		ID:              shift.ID,
		ActivityID:      shift.ActivityID,
		Section:         shift.Section,
		PetIDs:          shift.PetIDs(),
		Status:          status,
		StartedAt:       shift.StartedAt,
		DurationMs:      shift.DurationMs,
		RemainingMs:     shift.TimeRemaining(now).Milliseconds(),
		EfficiencyScore: shift.EfficiencyScore,
		CompletedAt:     shift.CompletedAt,
	}
}

func (svc *ShiftService) untrack(shiftID string) {
	svc.mu.Lock()
	delete(svc.running, shiftID)
	svc.mu.Unlock()
}

// CompleteAllShifts force-expires every active shift for a player and
// collects them. Debug only.
func (svc *ShiftService) CompleteAllShifts(playerID string) ([]dto.ShiftRewardsResponse, error) {
	lock := svc.playerSvc.LockPlayer(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	var collected []dto.ShiftRewardsResponse
	now := time.Now()
	for i := range state.Shifts {
		shift := &state.Shifts[i]
		if shift.Status != shared.ShiftStatusRunning {
			continue
		}
		shift.StartedAt = now.Add(-shift.Duration())
		rewards, err := svc.CompleteShift(state, shift.ID, false)
		if err != nil {
			return nil, err
		}
		if rewards != nil {
			collected = append(collected, *rewards)
		}
	}

	if err := svc.playerSvc.SaveState(state); err != nil {
		return nil, err
	}
	return collected, nil
}

// SetShiftDuration rewrites a running shift's timer. Debug only.
func (svc *ShiftService) SetShiftDuration(playerID, shiftID string, durationMs int64) (*dto.ShiftResponse, error) {
	lock := svc.playerSvc.LockPlayer(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	shift := state.ShiftByID(shiftID)
	if shift == nil {
		return nil, shared.NewNotFoundError(nil, "shift not found")
	}
	if shift.Status != shared.ShiftStatusRunning {
		return nil, shared.NewConflictError(nil, "shift is no longer running")
	}

	shift.DurationMs = durationMs
	shift.UpdatedAt = time.Now()

	svc.mu.Lock()
	if entry, ok := svc.running[shiftID]; ok {
		entry.endsAt = shift.StartedAt.Add(shift.Duration())
		entry.notified = false
	}
	svc.mu.Unlock()

	if err := svc.playerSvc.SaveState(state); err != nil {
		return nil, err
	}
	return svc.toResponse(shift, time.Now()), nil
}

func (svc *ShiftService) publish(payload EventPayload) {
	if svc.eventSvc != nil {
		svc.eventSvc.Publish(payload)
	}
}
