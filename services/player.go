// services/player.go
package services

import (
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// playerStateStore is the slice of PlayerService the game flows depend on:
// the per-player lock plus the load/save boundary of the aggregate.
type playerStateStore interface {
	LockPlayer(playerID string) *sync.Mutex
	LoadState(playerID string) (*model.PlayerState, error)
	SaveState(state *model.PlayerState) error
}

// Starter balances for a freshly created player.
const (
	StarterCoins    = 1000
	StarterDiamonds = 1000
)

// PlayerService owns the load/save boundary of the player aggregate. Game
// systems mutate an explicit PlayerState and hand it back here; persistence
// is a single transaction so a failed save leaves the stored state untouched.
type PlayerService struct {
	context.DefaultService

	sqlSvc     *SqliteService
	contentSvc *ContentService
	eventSvc   *EventService

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

const PLAYER_SVC = "player_svc"

func (svc PlayerService) Id() string {
	return PLAYER_SVC
}

func (svc *PlayerService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *PlayerService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.eventSvc = svc.Service(EVENT_SVC).(*EventService)
	return nil
}

// LockPlayer returns the mutex serializing load-mutate-save cycles for one
// player. Callers hold it across the whole window; without it two concurrent
// requests would both load the same progress row and the second save would
// overwrite the first one's spend or grant.
func (svc *PlayerService) LockPlayer(playerID string) *sync.Mutex {
	svc.lockMu.Lock()
	defer svc.lockMu.Unlock()
	if svc.locks == nil {
		svc.locks = map[string]*sync.Mutex{}
	}
	lock, ok := svc.locks[playerID]
	if !ok {
		lock = &sync.Mutex{}
		svc.locks[playerID] = lock
	}
	return lock
}

// LoadState assembles the full aggregate for a player.
func (svc *PlayerService) LoadState(playerID string) (*model.PlayerState, error) {
	progress, err := svc.sqlSvc.GetPlayerProgress(playerID)
	if err != nil {
		return nil, err
	}

	pets, err := svc.sqlSvc.GetPlayerPets(playerID)
	if err != nil {
		return nil, err
	}

	bonds, err := svc.sqlSvc.GetPlayerBonds(playerID)
	if err != nil {
		return nil, err
	}

	consumables, err := svc.sqlSvc.GetPlayerConsumables(playerID)
	if err != nil {
		return nil, err
	}

	shifts, err := svc.sqlSvc.GetActiveShifts(playerID)
	if err != nil {
		return nil, err
	}

	return &model.PlayerState{
		Progress:    progress,
		Pets:        pets,
		Bonds:       bonds,
		Consumables: consumables,
		Shifts:      shifts,
	}, nil
}

// SaveState persists the aggregate in one transaction. On failure the error
// is surfaced to the caller and a persistence event fires so clients can
// retry instead of trusting an in-memory result that never landed.
func (svc *PlayerService) SaveState(state *model.PlayerState) error {
	if err := svc.sqlSvc.SavePlayerState(state); err != nil {
		log.WithError(err).WithField("player_id", state.Progress.PlayerID).Error("player state save failed")
		if svc.eventSvc != nil {
			svc.eventSvc.Publish(PersistenceFailedPayload{
				PlayerID:  state.Progress.PlayerID,
				Operation: "save_state",
				Reason:    err.Error(),
			})
		}
		return shared.NewInternalError(err, "failed to save player state")
	}
	state.NewMemories = nil
	return nil
}

// InitializePlayer creates the progress row for a new player with starter
// currencies. The tutorial pull grants the first pets, so the collection
// starts empty here.
func (svc *PlayerService) InitializePlayer(playerID string) (*model.PlayerProgress, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to generate progress id")
	}

	now := time.Now()
	progress := &model.PlayerProgress{
		ID:          id.String(),
		PlayerID:    playerID,
		Coins:       StarterCoins,
		Diamonds:    StarterDiamonds,
		Level:       1,
		PullHistory: []byte("[]"),
		LastSeenAt:  &now,
	}

	return svc.sqlSvc.CreatePlayerProgress(progress)
}

func (svc *PlayerService) GetProfile(playerID string) (*dto.PlayerProfileResponse, error) {
	state, err := svc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	p := state.Progress
	return &dto.PlayerProfileResponse{
		PlayerID:     p.PlayerID,
		Level:        p.Level,
		XP:           p.XP,
		Coins:        p.Coins,
		Diamonds:     p.Diamonds,
		GachaTickets: p.GachaTickets,
		PityCounter:  p.PityCounter,
		TotalPulls:   p.TotalPulls,
		ShiftsDone:   p.LifetimeShiftCompletions,
		PetCount:     len(state.Pets),
		LastSeenAt:   p.LastSeenAt,
	}, nil
}

func (svc *PlayerService) GetCollection(playerID string) (*dto.PetCollectionResponse, error) {
	state, err := svc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	pets := make([]dto.OwnedPetResponse, 0, len(state.Pets))
	breakdown := map[string]int{}
	for i := range state.Pets {
		owned := &state.Pets[i]
		resp := dto.OwnedPetResponse{
			PetID:           owned.PetID,
			AcquiredAt:      owned.AcquiredAt,
			AssignedSection: owned.AssignedSection,
		}
		if pet, err := svc.contentSvc.GetPet(owned.PetID); err == nil {
			resp.Name = pet.Name
			resp.Rarity = pet.Rarity
			resp.SectionAffinity = pet.SectionAffinity
			breakdown[pet.Rarity]++
		}
		pets = append(pets, resp)
	}

	return &dto.PetCollectionResponse{
		Pets:            pets,
		Total:           len(pets),
		CatalogSize:     svc.contentSvc.CatalogSize(),
		RarityBreakdown: breakdown,
	}, nil
}

func (svc *PlayerService) GetInventory(playerID string) (*dto.InventoryResponse, error) {
	state, err := svc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	stacks := make([]dto.ConsumableStackResponse, 0, len(state.Consumables))
	for i := range state.Consumables {
		stack := &state.Consumables[i]
		if stack.Quantity <= 0 {
			continue
		}
		resp := dto.ConsumableStackResponse{
			ConsumableID: stack.ConsumableID,
			Quantity:     stack.Quantity,
		}
		if c, err := svc.contentSvc.GetConsumable(stack.ConsumableID); err == nil {
			resp.Name = c.Name
			resp.EffectKind = c.EffectKind
		}
		stacks = append(stacks, resp)
	}

	return &dto.InventoryResponse{Consumables: stacks}, nil
}

// AddCurrency is a debug operation used by local test builds.
func (svc *PlayerService) AddCurrency(playerID string, req *dto.AddCurrencyRequest) (*dto.PlayerProfileResponse, error) {
	lock := svc.LockPlayer(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	state.AddCoins(req.Coins)
	state.AddDiamonds(req.Diamonds)
	state.AddGachaTickets(req.GachaTickets)

	if err := svc.SaveState(state); err != nil {
		return nil, err
	}
	return svc.GetProfile(playerID)
}

// AddTestPets grants pets directly, skipping the gacha. Debug only.
func (svc *PlayerService) AddTestPets(playerID string, req *dto.AddTestPetsRequest) (*dto.PetCollectionResponse, error) {
	lock := svc.LockPlayer(playerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.LoadState(playerID)
	if err != nil {
		return nil, err
	}

	for _, petID := range req.PetIDs {
		if _, err := svc.contentSvc.GetPet(petID); err != nil {
			return nil, shared.NewBadRequestError(nil, "unknown pet: "+petID)
		}
		if state.OwnsPet(petID) {
			continue
		}
		id, err := uuid.NewV7()
		if err != nil {
			return nil, shared.NewInternalError(err, "failed to generate pet id")
		}
		now := time.Now()
		state.Pets = append(state.Pets, model.PlayerPet{
			ID:         id.String(),
			PlayerID:   playerID,
			PetID:      petID,
			AcquiredAt: now,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	if err := svc.SaveState(state); err != nil {
		return nil, err
	}
	return svc.GetCollection(playerID)
}
