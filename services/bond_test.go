package services

import (
	"testing"
)

func TestBondPointsCreateRecordLazily(t *testing.T) {
	svc := newTestBond(newTestContent(), &EventService{})
	state := newTestState("p1")

	if got := svc.AddBondPoints(state, "npc_aria", 40); got != 0 {
		t.Fatalf("levels gained = %d, want 0", got)
	}

	bond := state.Bond("npc_aria")
	if bond == nil {
		t.Fatal("bond record not created")
	}
	if bond.BondLevel != 1 || bond.BondPoints != 40 {
		t.Errorf("bond = level %d points %d, want level 1 points 40", bond.BondLevel, bond.BondPoints)
	}
	if bond.MaxBondPoints != bondThresholdForLevel(1) {
		t.Errorf("max points = %d, want %d", bond.MaxBondPoints, bondThresholdForLevel(1))
	}
}

func TestBondRolloverCrossesMultipleLevels(t *testing.T) {
	events := &EventService{}
	levelUps := 0
	events.Subscribe(EventBondLevelUp, func(payload EventPayload) {
		levelUps++
	})

	svc := newTestBond(newTestContent(), events)
	state := newTestState("p1")

	// 100 + 150 + 500 finishes levels 1-3 with 10 points spare.
	gained := svc.AddBondPoints(state, "npc_kai", 760)
	if gained != 3 {
		t.Fatalf("levels gained = %d, want 3", gained)
	}
	if levelUps != 3 {
		t.Errorf("level-up events = %d, want 3", levelUps)
	}

	bond := state.Bond("npc_kai")
	if bond.BondLevel != 4 {
		t.Errorf("bond level = %d, want 4", bond.BondLevel)
	}
	if bond.BondPoints != 10 {
		t.Errorf("leftover points = %d, want 10", bond.BondPoints)
	}
	if bond.BondPoints >= bond.MaxBondPoints {
		t.Errorf("points %d not below next threshold %d", bond.BondPoints, bond.MaxBondPoints)
	}
}

func TestBondThresholdFlatPastTable(t *testing.T) {
	if got := bondThresholdForLevel(6); got != bondThresholdCap {
		t.Errorf("level 6 threshold = %d, want %d", got, bondThresholdCap)
	}
	if got := bondThresholdForLevel(40); got != bondThresholdCap {
		t.Errorf("level 40 threshold = %d, want %d", got, bondThresholdCap)
	}
}

func TestMeetsMilestone(t *testing.T) {
	svc := newTestBond(newTestContent(), &EventService{})
	state := newTestState("p1")

	if svc.MeetsMilestone(state, "npc_elias", 2) {
		t.Error("milestone met with no bond record")
	}

	svc.AddBondPoints(state, "npc_elias", 260) // levels 1 and 2 complete
	if !svc.MeetsMilestone(state, "npc_elias", 3) {
		t.Error("milestone 3 should be met at level 3")
	}
	if svc.MeetsMilestone(state, "npc_elias", 4) {
		t.Error("milestone 4 should not be met at level 3")
	}
}

func TestZeroOrNegativePointsIgnored(t *testing.T) {
	svc := newTestBond(newTestContent(), &EventService{})
	state := newTestState("p1")

	svc.AddBondPoints(state, "npc_aria", 0)
	svc.AddBondPoints(state, "npc_aria", -5)
	if state.Bond("npc_aria") != nil {
		t.Error("non-positive awards must not create a record")
	}
}
