package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

func TestStartShiftValidations(t *testing.T) {
	svc := newTestShift(1, newTestContent(), &EventService{})
	state := newTestState("p1")
	grantTestPet(state, "pet_muffin")

	cases := []struct {
		name string
		req  *dto.StartShiftRequest
	}{
		{"unknown activity", &dto.StartShiftRequest{ActivityID: "act_nope"}},
		{"level gate", &dto.StartShiftRequest{ActivityID: "act_spa_day"}},
		{"too many pets", &dto.StartShiftRequest{ActivityID: "act_morning_bake", PetIDs: []string{"a", "b", "c", "d"}}},
		{"unowned pet", &dto.StartShiftRequest{ActivityID: "act_morning_bake", PetIDs: []string{"pet_aurora"}}},
		{"duplicate pet", &dto.StartShiftRequest{ActivityID: "act_morning_bake", PetIDs: []string{"pet_muffin", "pet_muffin"}}},
		{"unheld consumable", &dto.StartShiftRequest{ActivityID: "act_morning_bake", ConsumableIDs: []string{"item_lucky_bell"}}},
		{"instant finish at start", &dto.StartShiftRequest{ActivityID: "act_morning_bake", ConsumableIDs: []string{"item_finish_whistle"}}},
	}

	for _, tc := range cases {
		if _, err := svc.StartShift(state, tc.req); err == nil {
			t.Errorf("%s: expected rejection", tc.name)
		}
	}
	if len(state.Shifts) != 0 {
		t.Errorf("rejected starts created %d shifts", len(state.Shifts))
	}
}

func TestStartShiftOnePerSection(t *testing.T) {
	svc := newTestShift(1, newTestContent(), &EventService{})
	state := newTestState("p1")

	if _, err := svc.StartShift(state, &dto.StartShiftRequest{ActivityID: "act_morning_bake"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartShift(state, &dto.StartShiftRequest{ActivityID: "act_morning_bake"}); err == nil {
		t.Error("second shift in the same section must be rejected")
	}
	// A different section is fine.
	if _, err := svc.StartShift(state, &dto.StartShiftRequest{ActivityID: "act_fetch_hour"}); err != nil {
		t.Errorf("other section rejected: %v", err)
	}
}

func TestStartShiftConsumesDurationItems(t *testing.T) {
	svc := newTestShift(1, newTestContent(), &EventService{})
	state := newTestState("p1")
	state.AddConsumable("p1", "item_espresso_shot", "stack1", 1)

	shift, err := svc.StartShift(state, &dto.StartShiftRequest{
		ActivityID:    "act_morning_bake",
		ConsumableIDs: []string{"item_espresso_shot"},
	})
	if err != nil {
		t.Fatal(err)
	}

	base := (15 * time.Minute).Milliseconds()
	want := int64(float64(base) * 0.85)
	if shift.DurationMs != want {
		t.Errorf("duration = %d, want %d after 15%% boost", shift.DurationMs, want)
	}
	if state.ConsumableQty("item_espresso_shot") != 0 {
		t.Error("espresso shot not consumed at start")
	}
}

func TestCompleteShiftPaysOutOnce(t *testing.T) {
	events := &EventService{}
	svc := newTestShift(1, newTestContent(), events)
	state := newTestState("p1")

	shift, err := svc.StartShift(state, &dto.StartShiftRequest{ActivityID: "act_quick_rush"})
	if err != nil {
		t.Fatal(err)
	}

	coinsBefore := state.Progress.Coins
	rewards, err := svc.CompleteShift(state, shift.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if rewards == nil {
		t.Fatal("first completion returned no rewards")
	}
	if rewards.FinalCoins <= 0 {
		t.Errorf("final coins = %d, want positive", rewards.FinalCoins)
	}
	if state.Progress.Coins < coinsBefore+rewards.FinalCoins {
		t.Errorf("coins = %d, want at least %d", state.Progress.Coins, coinsBefore+rewards.FinalCoins)
	}
	if shift.Status != shared.ShiftStatusCollected {
		t.Errorf("status = %s, want %s", shift.Status, shared.ShiftStatusCollected)
	}
	if state.Progress.LifetimeShiftCompletions != 1 {
		t.Errorf("lifetime completions = %d, want 1", state.Progress.LifetimeShiftCompletions)
	}

	again, err := svc.CompleteShift(state, shift.ID, false)
	if err != nil {
		t.Fatalf("repeat completion errored: %v", err)
	}
	if again != nil {
		t.Error("repeat completion paid out a second time")
	}
	if state.Progress.LifetimeShiftCompletions != 1 {
		t.Errorf("lifetime completions = %d after repeat, want 1", state.Progress.LifetimeShiftCompletions)
	}
}

func TestCompleteShiftConcurrentRequestsPayOnce(t *testing.T) {
	svc := newTestShift(1, newTestContent(), &EventService{})
	state := newTestState("p1")

	shift, err := svc.StartShift(state, &dto.StartShiftRequest{ActivityID: "act_quick_rush"})
	if err != nil {
		t.Fatal(err)
	}

	const racers = 8
	var wg sync.WaitGroup
	payouts := make(chan *dto.ShiftRewardsResponse, racers)

	// Each racer works on its own copy of the loaded aggregate, mirroring
	// separate requests; only the registry claim may decide the winner.
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			localState := newTestState("p1")
			localState.Shifts = append(localState.Shifts, *shift)
			rewards, err := svc.CompleteShift(localState, shift.ID, false)
			if err != nil {
				t.Errorf("racer errored: %v", err)
				return
			}
			if rewards != nil {
				payouts <- rewards
			}
		}()
	}
	wg.Wait()
	close(payouts)

	count := 0
	for range payouts {
		count++
	}
	if count != 1 {
		t.Errorf("payouts = %d, want exactly 1", count)
	}
}

func TestForcedCompleteRequiresInstantFinish(t *testing.T) {
	svc := newTestShift(1, newTestContent(), &EventService{})
	state := newTestState("p1")

	shift, err := svc.StartShift(state, &dto.StartShiftRequest{ActivityID: "act_morning_bake"})
	if err != nil {
		t.Fatal(err)
	}

	// No instant finish item held: the early completion must be rejected and
	// the shift must stay collectable.
	if _, err := svc.CompleteShift(state, shift.ID, true); err == nil {
		t.Fatal("forced early completion without an item must fail")
	}
	if shift.Status != shared.ShiftStatusRunning {
		t.Errorf("status = %s after rejection, want running", shift.Status)
	}

	state.AddConsumable("p1", "item_finish_whistle", "stack1", 1)
	rewards, err := svc.CompleteShift(state, shift.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if rewards == nil {
		t.Fatal("forced completion with item returned no rewards")
	}
	if state.ConsumableQty("item_finish_whistle") != 0 {
		t.Error("finish whistle not consumed")
	}
}

func TestCompleteShiftClaimSurvivesFailedSave(t *testing.T) {
	svc := newTestShift(1, newTestContent(), &EventService{})
	state := newTestState("p1")

	shift, err := svc.StartShift(state, &dto.StartShiftRequest{ActivityID: "act_quick_rush"})
	if err != nil {
		t.Fatal(err)
	}

	store := newStubPlayerStore(state)
	store.saveErr = errors.New("disk full")
	svc.playerSvc = store

	if _, err := svc.CompleteShiftForPlayer("p1", shift.ID, false); err == nil {
		t.Fatal("save failure must surface to the caller")
	}

	store.saveErr = nil
	rewards, err := svc.CompleteShiftForPlayer("p1", shift.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if rewards == nil {
		t.Fatal("retry answered as already collected; the payout is stranded")
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want exactly 1", store.saves)
	}
}

func TestForcedCompleteRefundsItemWhenPayoutFails(t *testing.T) {
	svc := newTestShift(1, newTestContent(), &EventService{})
	state := newTestState("p1")

	// A shift referencing an activity that no longer exists makes the payout
	// fail after the finisher has been spent.
	now := time.Now()
	state.Shifts = append(state.Shifts, model.Shift{
		ID:             "s_broken",
		PlayerID:       "p1",
		ActivityID:     "act_retired",
		Section:        shared.SectionBakery,
		AssignedPetIDs: []byte("[]"),
		AppliedItemIDs: []byte("[]"),
		StartedAt:      now,
		DurationMs:     time.Hour.Milliseconds(),
		Status:         shared.ShiftStatusRunning,
	})
	svc.track(&state.Shifts[0])
	state.AddConsumable("p1", "item_finish_whistle", "stack1", 1)

	if _, err := svc.CompleteShift(state, "s_broken", true); err == nil {
		t.Fatal("payout against a missing activity must fail")
	}
	if qty := state.ConsumableQty("item_finish_whistle"); qty != 1 {
		t.Errorf("finish whistle qty = %d after failed payout, want it refunded to 1", qty)
	}

	svc.mu.Lock()
	_, tracked := svc.running["s_broken"]
	svc.mu.Unlock()
	if !tracked {
		t.Error("claim not restored after failed payout")
	}
}

func TestUnforcedCompleteBeforeTimerRejected(t *testing.T) {
	svc := newTestShift(1, newTestContent(), &EventService{})
	state := newTestState("p1")

	shift, err := svc.StartShift(state, &dto.StartShiftRequest{ActivityID: "act_morning_bake"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.CompleteShift(state, shift.ID, false)
	if err == nil {
		t.Fatal("completion before the timer lapsed must fail")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Errorf("got %v, want bad request", err)
	}
}

func TestCompletionGeneratesMemoryAndBond(t *testing.T) {
	events := &EventService{}
	memories := 0
	events.Subscribe(EventMemoryCreated, func(payload EventPayload) {
		memories++
	})

	svc := newTestShift(1, newTestContent(), events)
	state := newTestState("p1")
	grantTestPet(state, "pet_muffin")

	shift, err := svc.StartShift(state, &dto.StartShiftRequest{
		ActivityID: "act_quick_rush",
		PetIDs:     []string{"pet_muffin"},
	})
	if err != nil {
		t.Fatal(err)
	}

	rewards, err := svc.CompleteShift(state, shift.ID, false)
	if err != nil {
		t.Fatal(err)
	}

	if rewards.BondNPCID != "npc_aria" {
		t.Errorf("bond NPC = %q, want npc_aria for a bakery shift", rewards.BondNPCID)
	}
	if rewards.BondPointsAwarded <= 0 {
		t.Error("no bond points awarded")
	}
	if state.Bond("npc_aria") == nil {
		t.Error("bond record missing after completion")
	}

	if rewards.MemoryID == "" {
		t.Error("memory not generated")
	}
	if len(state.NewMemories) != 1 {
		t.Errorf("pending memories = %d, want 1", len(state.NewMemories))
	}
	if memories != 1 {
		t.Errorf("memory events = %d, want 1", memories)
	}
}
