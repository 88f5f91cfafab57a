package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

func TestPityGuaranteesLegendaryWithinThreshold(t *testing.T) {
	engine := newDrawEngine(NewSeededRNG(42))

	pity := 0
	gap := 0
	for i := 0; i < 1000; i++ {
		rarity, forced := engine.DetermineRarity(&pity)
		gap++
		if rarity == shared.RarityLegendary {
			if forced && gap != shared.PityThreshold {
				t.Fatalf("draw %d: guarantee fired after %d draws, want exactly %d", i, gap, shared.PityThreshold)
			}
			gap = 0
			if pity != 0 {
				t.Fatalf("draw %d: pity counter %d after legendary, want 0", i, pity)
			}
			continue
		}
		if gap >= shared.PityThreshold {
			t.Fatalf("draw %d: %d draws without a legendary", i, gap)
		}
	}
}

func TestRareRollsDoNotResetPity(t *testing.T) {
	engine := newDrawEngine(fixedRNG{roll: 0.10}) // always lands in the rare band

	pity := 0
	for i := 0; i < shared.PityThreshold-1; i++ {
		rarity, forced := engine.DetermineRarity(&pity)
		if rarity != shared.RarityRare || forced {
			t.Fatalf("draw %d: got %s (forced=%v), want unforced rare", i, rarity, forced)
		}
	}
	if pity != shared.PityThreshold-1 {
		t.Fatalf("pity counter = %d after %d rares, want %d", pity, shared.PityThreshold-1, shared.PityThreshold-1)
	}

	rarity, forced := engine.DetermineRarity(&pity)
	if rarity != shared.RarityLegendary || !forced {
		t.Fatalf("threshold draw: got %s (forced=%v), want forced legendary", rarity, forced)
	}
	if pity != 0 {
		t.Fatalf("pity counter = %d after forced legendary, want 0", pity)
	}
}

func TestPullInsufficientDiamondsChangesNothing(t *testing.T) {
	gacha := newTestGacha(1, newTestContent(), &EventService{})

	state := newTestState("p1")
	state.Progress.Diamonds = shared.SinglePullCost - 1

	_, err := gacha.PullSingle(state)
	if err == nil {
		t.Fatal("expected error for unaffordable pull")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 402 {
		t.Fatalf("got %v, want payment required", err)
	}

	if state.Progress.Diamonds != shared.SinglePullCost-1 {
		t.Errorf("diamonds = %d, want untouched %d", state.Progress.Diamonds, shared.SinglePullCost-1)
	}
	if state.Progress.TotalPulls != 0 || len(state.Pets) != 0 {
		t.Error("rejected pull must not record draws or grant pets")
	}
	if state.Progress.PityCounter != 0 {
		t.Errorf("pity counter = %d, want 0", state.Progress.PityCounter)
	}
}

func TestDuplicateConvertsToCoinsWithoutSecondRecord(t *testing.T) {
	content := newTestContent()
	gacha := newTestGacha(1, content, &EventService{})

	state := newTestState("p1")
	pet, err := content.GetPet("pet_aurora")
	if err != nil {
		t.Fatal(err)
	}

	first, err := gacha.grantPet(state, pet, false)
	if err != nil {
		t.Fatal(err)
	}
	if !first.IsNew {
		t.Fatal("first grant should be new")
	}

	coinsBefore := state.Progress.Coins
	second, err := gacha.grantPet(state, pet, false)
	if err != nil {
		t.Fatal(err)
	}
	if second.IsNew {
		t.Fatal("second grant of the same pet should be a duplicate")
	}

	wantValue := shared.DuplicateTokenValues[shared.RarityLegendary]
	if second.CoinsValue != wantValue {
		t.Errorf("duplicate value = %d, want %d", second.CoinsValue, wantValue)
	}
	if state.Progress.Coins != coinsBefore+wantValue {
		t.Errorf("coins = %d, want %d", state.Progress.Coins, coinsBefore+wantValue)
	}
	if len(state.Pets) != 1 {
		t.Errorf("owned pets = %d, want 1", len(state.Pets))
	}
	if state.Progress.TotalPulls != 2 {
		t.Errorf("total pulls = %d, want 2", state.Progress.TotalPulls)
	}
}

func TestTenPullSpendsDiscountedCost(t *testing.T) {
	gacha := newTestGacha(7, newTestContent(), &EventService{})

	state := newTestState("p1")
	state.Progress.Diamonds = shared.TenPullCost

	resp, err := gacha.PullTen(state)
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.Results) != 10 {
		t.Fatalf("results = %d, want 10", len(resp.Results))
	}
	if resp.DiamondsSpent != shared.TenPullCost {
		t.Errorf("spent = %d, want %d", resp.DiamondsSpent, shared.TenPullCost)
	}
	if state.Progress.Diamonds != 0 {
		t.Errorf("diamonds = %d, want 0", state.Progress.Diamonds)
	}
	if resp.NewPets+resp.Duplicates != 10 {
		t.Errorf("new %d + dupes %d, want 10 total", resp.NewPets, resp.Duplicates)
	}
	if state.Progress.TotalPulls != 10 {
		t.Errorf("total pulls = %d, want 10", state.Progress.TotalPulls)
	}
}

func TestTutorialPullGrantsStartersAndRareOrBetter(t *testing.T) {
	gacha := newTestGacha(3, newTestContent(), &EventService{})

	state := newTestState("p1")
	resp, err := gacha.PerformTutorialPull(state)
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.Results) != 10 {
		t.Fatalf("results = %d, want 10", len(resp.Results))
	}
	if resp.DiamondsSpent != 0 {
		t.Errorf("tutorial pull spent %d diamonds, want 0", resp.DiamondsSpent)
	}
	if !state.OwnsPet("pet_muffin") || !state.OwnsPet("pet_peanut") {
		t.Error("starters not granted")
	}

	rareOrBetter := 0
	for _, r := range resp.Results {
		if r.Rarity != shared.RarityCommon {
			rareOrBetter++
		}
		if !r.IsNew {
			t.Errorf("tutorial produced a duplicate: %s", r.PetID)
		}
	}
	if rareOrBetter < 1 {
		t.Error("tutorial pull must include at least one rare-or-better")
	}

	if !state.Progress.TutorialPullDone {
		t.Error("tutorial flag not set")
	}

	if _, err := gacha.PerformTutorialPull(state); err == nil {
		t.Error("second tutorial pull must be rejected")
	}
}

func TestConcurrentPullsSpendEveryPayment(t *testing.T) {
	svc := newTestGacha(1, newTestContent(), &EventService{})
	store := newStubPlayerStore(newTestState("p1"))
	svc.playerSvc = store

	const pulls = 8
	var wg sync.WaitGroup
	for i := 0; i < pulls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.PullSingleForPlayer("p1"); err != nil {
				t.Errorf("pull failed: %v", err)
			}
		}()
	}
	wg.Wait()

	state, _ := store.LoadState("p1")
	want := 1000 - pulls*shared.SinglePullCost
	if state.Progress.Diamonds != want {
		t.Errorf("diamonds = %d, want %d; a concurrent spend was overwritten", state.Progress.Diamonds, want)
	}
	if state.Progress.TotalPulls != pulls {
		t.Errorf("total pulls = %d, want %d", state.Progress.TotalPulls, pulls)
	}
}

func TestPullHistoryCapEvictsOldest(t *testing.T) {
	state := newTestState("p1")

	first := make([]model.PullRecord, 95)
	for i := range first {
		first[i] = model.PullRecord{PetID: fmt.Sprintf("pet_%03d", i)}
	}
	if err := state.AppendPullHistory(first, shared.PullHistoryLimit); err != nil {
		t.Fatal(err)
	}

	second := make([]model.PullRecord, 10)
	for i := range second {
		second[i] = model.PullRecord{PetID: fmt.Sprintf("pet_%03d", 95+i)}
	}
	if err := state.AppendPullHistory(second, shared.PullHistoryLimit); err != nil {
		t.Fatal(err)
	}

	var records []model.PullRecord
	if err := json.Unmarshal(state.Progress.PullHistory, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != shared.PullHistoryLimit {
		t.Fatalf("history length = %d, want %d", len(records), shared.PullHistoryLimit)
	}
	if records[0].PetID != "pet_005" {
		t.Errorf("oldest surviving entry = %s, want pet_005", records[0].PetID)
	}
	if records[len(records)-1].PetID != "pet_104" {
		t.Errorf("newest entry = %s, want pet_104", records[len(records)-1].PetID)
	}
}

func TestPullHistoryReturnedNewestFirst(t *testing.T) {
	svc := newTestGacha(1, newTestContent(), &EventService{})
	state := newTestState("p1")
	if err := state.AppendPullHistory([]model.PullRecord{
		{PetID: "pet_old"}, {PetID: "pet_mid"}, {PetID: "pet_new"},
	}, shared.PullHistoryLimit); err != nil {
		t.Fatal(err)
	}
	svc.playerSvc = newStubPlayerStore(state)

	resp, err := svc.GetPullHistory("p1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 {
		t.Fatalf("total = %d, want 3", resp.Total)
	}
	if resp.Pulls[0].PetID != "pet_new" || resp.Pulls[2].PetID != "pet_old" {
		t.Errorf("history order = [%s %s %s], want newest first",
			resp.Pulls[0].PetID, resp.Pulls[1].PetID, resp.Pulls[2].PetID)
	}
}
