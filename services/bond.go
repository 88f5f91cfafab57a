// services/bond.go
package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/model"
)

// bondThresholds is the fixed step table of points needed to finish each
// level. Levels past the table use the final flat value.
var bondThresholds = []int{100, 150, 500, 1500, 5000}

const bondThresholdCap = 10000

func bondThresholdForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	if level <= len(bondThresholds) {
		return bondThresholds[level-1]
	}
	return bondThresholdCap
}

// BondService is the ledger for NPC relationship points. Consumable or event
// multipliers are applied by callers before the award reaches the ledger.
type BondService struct {
	context.DefaultService

	contentSvc *ContentService
	playerSvc  *PlayerService
	eventSvc   *EventService
}

const BOND_SVC = "bond_svc"

func (svc BondService) Id() string {
	return BOND_SVC
}

func (svc *BondService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *BondService) Start() error {
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.playerSvc = svc.Service(PLAYER_SVC).(*PlayerService)
	svc.eventSvc = svc.Service(EVENT_SVC).(*EventService)
	return nil
}

// AddBondPoints credits points to the NPC's bond, creating a level-1 record
// on first award and rolling over as many levels as the points complete. One
// level-up event fires per level crossed, so a large injection produces the
// full sequence of notifications. Returns the number of levels gained.
func (svc *BondService) AddBondPoints(state *model.PlayerState, npcID string, points int) int {
	if points <= 0 {
		return 0
	}

	bond := state.Bond(npcID)
	if bond == nil {
		now := time.Now()
		id, _ := uuid.NewV7()
		state.Bonds = append(state.Bonds, model.NPCBond{
			ID:            id.String(),
			PlayerID:      state.Progress.PlayerID,
			NPCID:         npcID,
			BondLevel:     1,
			BondPoints:    0,
			MaxBondPoints: bondThresholdForLevel(1),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		bond = &state.Bonds[len(state.Bonds)-1]
	}

	bond.BondPoints += points

	levelsGained := 0
	for bond.BondPoints >= bond.MaxBondPoints {
		bond.BondPoints -= bond.MaxBondPoints
		bond.BondLevel++
		bond.MaxBondPoints = bondThresholdForLevel(bond.BondLevel)
		levelsGained++

		svc.publish(BondLevelUpPayload{
			PlayerID: state.Progress.PlayerID,
			NPCID:    npcID,
			NewLevel: bond.BondLevel,
		})
	}

	bond.UpdatedAt = time.Now()

	svc.publish(BondIncreasedPayload{
		PlayerID:   state.Progress.PlayerID,
		NPCID:      npcID,
		Points:     points,
		BondLevel:  bond.BondLevel,
		BondPoints: bond.BondPoints,
	})

	return levelsGained
}

// MeetsMilestone gates story scenes and unlocks on a minimum bond level.
func (svc *BondService) MeetsMilestone(state *model.PlayerState, npcID string, level int) bool {
	bond := state.Bond(npcID)
	if bond == nil {
		return level <= 0
	}
	return bond.BondLevel >= level
}

func (svc *BondService) GetBonds(playerID string) (*dto.BondListResponse, error) {
	state, err := svc.playerSvc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	bonds := make([]dto.BondResponse, 0, len(state.Bonds))
	for i := range state.Bonds {
		b := &state.Bonds[i]
		resp := dto.BondResponse{
			NPCID:         b.NPCID,
			BondLevel:     b.BondLevel,
			BondPoints:    b.BondPoints,
			MaxBondPoints: b.MaxBondPoints,
		}
		if npc, err := svc.contentSvc.GetNPC(b.NPCID); err == nil {
			resp.NPCName = npc.Name
			resp.Section = npc.Section
		}
		bonds = append(bonds, resp)
	}

	return &dto.BondListResponse{Bonds: bonds}, nil
}

func (svc *BondService) publish(payload EventPayload) {
	if svc.eventSvc != nil {
		svc.eventSvc.Publish(payload)
	}
}
