package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

func offlineStateAwayFor(away time.Duration, pets int) *model.PlayerState {
	state := newTestState("p1")
	lastSeen := time.Now().Add(-away)
	state.Progress.LastSeenAt = &lastSeen
	for i := 0; i < pets; i++ {
		state.Pets = append(state.Pets, model.PlayerPet{
			ID:       fmt.Sprintf("owned_%d", i),
			PlayerID: "p1",
			PetID:    fmt.Sprintf("pet_%d", i),
		})
	}
	return state
}

func TestShortAbsenceGrantsNothing(t *testing.T) {
	svc := &OfflineService{rng: fixedRNG{roll: 1.0}}
	state := offlineStateAwayFor(30*time.Second, 0)

	if report := svc.CalculateOfflineProgress(state, time.Now()); report != nil {
		t.Errorf("30s absence produced a report: %+v", report)
	}

	state.Progress.LastSeenAt = nil
	if report := svc.CalculateOfflineProgress(state, time.Now()); report != nil {
		t.Error("never-seen player produced a report")
	}
}

func TestOfflineProgressCappedAtEightHours(t *testing.T) {
	svc := &OfflineService{rng: fixedRNG{roll: 1.0}}
	state := offlineStateAwayFor(100*time.Hour, 0)

	report := svc.CalculateOfflineProgress(state, time.Now())
	if report == nil {
		t.Fatal("no report for a long absence")
	}

	wantEffective := int64(shared.MaxOfflineTime.Seconds())
	if report.EffectiveSeconds != wantEffective {
		t.Errorf("effective seconds = %d, want %d", report.EffectiveSeconds, wantEffective)
	}
	if report.TimeAwaySeconds <= wantEffective {
		t.Errorf("time away = %d, want the uncapped value", report.TimeAwaySeconds)
	}
	if report.CoinsEarned != 400 {
		t.Errorf("coins = %d, want 400 at 8h with no pets", report.CoinsEarned)
	}
	if report.ShiftsCompleted != 16 {
		t.Errorf("shifts = %d, want 16", report.ShiftsCompleted)
	}
	if report.MemoriesGenerated != 4 {
		t.Errorf("memories = %d, want 4", report.MemoriesGenerated)
	}
	if report.BonusGems != 0 || report.BonusTickets != 0 {
		t.Errorf("bonuses rolled with a losing rng: gems=%d tickets=%d", report.BonusGems, report.BonusTickets)
	}
}

func TestOfflineCoinsScaleWithPetCollection(t *testing.T) {
	svc := &OfflineService{rng: fixedRNG{roll: 1.0}}

	base := svc.CalculateOfflineProgress(offlineStateAwayFor(2*time.Hour, 0), time.Now())
	four := svc.CalculateOfflineProgress(offlineStateAwayFor(2*time.Hour, 4), time.Now())
	huge := svc.CalculateOfflineProgress(offlineStateAwayFor(2*time.Hour, 100), time.Now())

	if base.CoinsEarned != 100 {
		t.Errorf("baseline coins = %d, want 100 for 2h", base.CoinsEarned)
	}
	if four.CoinsEarned != 120 {
		t.Errorf("4-pet coins = %d, want 120", four.CoinsEarned)
	}
	// The pet multiplier caps at 2x no matter how large the collection gets.
	if huge.CoinsEarned != base.CoinsEarned*2 {
		t.Errorf("100-pet coins = %d, want %d", huge.CoinsEarned, base.CoinsEarned*2)
	}
}

func TestOfflineBonusRollsPerHour(t *testing.T) {
	svc := &OfflineService{rng: fixedRNG{roll: 0.0}}
	state := offlineStateAwayFor(5*time.Hour, 0)

	report := svc.CalculateOfflineProgress(state, time.Now())
	if report.BonusGems != 5 {
		t.Errorf("gems = %d, want one per hour with a winning rng", report.BonusGems)
	}
	if report.BonusTickets != 5 {
		t.Errorf("tickets = %d, want one per hour with a winning rng", report.BonusTickets)
	}
}

func TestApplyOfflineProgressMutatesState(t *testing.T) {
	svc := &OfflineService{rng: fixedRNG{roll: 1.0}}
	state := offlineStateAwayFor(3*time.Hour, 0)

	report := svc.CalculateOfflineProgress(state, time.Now())
	report.BonusGems = 2
	report.BonusTickets = 1

	coins := state.Progress.Coins
	gems := state.Progress.Diamonds
	tickets := state.Progress.GachaTickets

	now := time.Now()
	svc.ApplyOfflineProgress(state, report, now)

	if state.Progress.Coins != coins+report.CoinsEarned {
		t.Errorf("coins = %d, want %d", state.Progress.Coins, coins+report.CoinsEarned)
	}
	if state.Progress.Diamonds != gems+2 {
		t.Errorf("diamonds = %d, want %d", state.Progress.Diamonds, gems+2)
	}
	if state.Progress.GachaTickets != tickets+1 {
		t.Errorf("tickets = %d, want %d", state.Progress.GachaTickets, tickets+1)
	}
	if state.Progress.LifetimeShiftCompletions != report.ShiftsCompleted {
		t.Errorf("completions = %d, want %d", state.Progress.LifetimeShiftCompletions, report.ShiftsCompleted)
	}
	if state.Progress.LastSeenAt == nil || !state.Progress.LastSeenAt.Equal(now) {
		t.Error("last seen not stamped")
	}
}

func TestApplyNilReportStillStampsLastSeen(t *testing.T) {
	svc := &OfflineService{}
	state := offlineStateAwayFor(30*time.Second, 0)
	coins := state.Progress.Coins

	now := time.Now()
	svc.ApplyOfflineProgress(state, nil, now)

	if state.Progress.LastSeenAt == nil || !state.Progress.LastSeenAt.Equal(now) {
		t.Error("last seen not stamped for a nil report")
	}
	if state.Progress.Coins != coins {
		t.Error("nil report changed currency")
	}
}
