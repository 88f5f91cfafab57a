// services/event.go
package services

import (
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// EventType identifies one event variant. Every payload struct declares its
// own type, so publish/subscribe stays compile-time checked on the payload
// side instead of passing untyped bags around.
type EventType string

const (
	EventPetAcquired       EventType = "gacha.pet_acquired"
	EventPullCompleted     EventType = "gacha.pull_completed"
	EventInsufficientFunds EventType = "gacha.insufficient_funds"
	EventShiftStarted      EventType = "shift.started"
	EventShiftTimerUpdate  EventType = "shift.timer_update"
	EventShiftCompleted    EventType = "shift.completed"
	EventBondIncreased     EventType = "bond.increased"
	EventBondLevelUp       EventType = "bond.level_up"
	EventMemoryCreated     EventType = "memory.created"
	EventOfflineApplied    EventType = "offline.progress_applied"
	EventPersistenceFailed EventType = "persistence.failed"
)

type EventPayload interface {
	EventType() EventType
}

type PetAcquiredPayload struct {
	PlayerID   string    `json:"player_id"`
	PetID      string    `json:"pet_id"`
	Rarity     string    `json:"rarity"`
	Section    string    `json:"section"`
	PityForced bool      `json:"pity_forced"`
	AcquiredAt time.Time `json:"acquired_at"`
}

func (PetAcquiredPayload) EventType() EventType { return EventPetAcquired }

type PullCompletedPayload struct {
	PlayerID       string `json:"player_id"`
	Draws          int    `json:"draws"`
	NewPets        int    `json:"new_pets"`
	Duplicates     int    `json:"duplicates"`
	CoinsFromDupes int    `json:"coins_from_dupes"`
	DiamondsSpent  int    `json:"diamonds_spent"`
	Tutorial       bool   `json:"tutorial"`
}

func (PullCompletedPayload) EventType() EventType { return EventPullCompleted }

type InsufficientFundsPayload struct {
	PlayerID string `json:"player_id"`
	Currency string `json:"currency"`
	Needed   int    `json:"needed"`
	Held     int    `json:"held"`
}

func (InsufficientFundsPayload) EventType() EventType { return EventInsufficientFunds }

type ShiftStartedPayload struct {
	PlayerID   string    `json:"player_id"`
	ShiftID    string    `json:"shift_id"`
	Section    string    `json:"section"`
	ActivityID string    `json:"activity_id"`
	PetCount   int       `json:"pet_count"`
	DurationMs int64     `json:"duration_ms"`
	StartedAt  time.Time `json:"started_at"`
}

func (ShiftStartedPayload) EventType() EventType { return EventShiftStarted }

type ShiftTimerPayload struct {
	PlayerID    string `json:"player_id"`
	ShiftID     string `json:"shift_id"`
	RemainingMs int64  `json:"remaining_ms"`
}

func (ShiftTimerPayload) EventType() EventType { return EventShiftTimerUpdate }

type ShiftCompletedPayload struct {
	PlayerID     string `json:"player_id"`
	ShiftID      string `json:"shift_id"`
	Section      string `json:"section"`
	Forced       bool   `json:"forced"`
	CoinsAwarded int    `json:"coins_awarded"`
	XPAwarded    int    `json:"xp_awarded"`
	MemoryID     string `json:"memory_id,omitempty"`
}

func (ShiftCompletedPayload) EventType() EventType { return EventShiftCompleted }

type BondIncreasedPayload struct {
	PlayerID   string `json:"player_id"`
	NPCID      string `json:"npc_id"`
	Points     int    `json:"points"`
	BondLevel  int    `json:"bond_level"`
	BondPoints int    `json:"bond_points"`
}

func (BondIncreasedPayload) EventType() EventType { return EventBondIncreased }

type BondLevelUpPayload struct {
	PlayerID string `json:"player_id"`
	NPCID    string `json:"npc_id"`
	NewLevel int    `json:"new_level"`
}

func (BondLevelUpPayload) EventType() EventType { return EventBondLevelUp }

type MemoryCreatedPayload struct {
	PlayerID string `json:"player_id"`
	MemoryID string `json:"memory_id"`
	Mood     string `json:"mood"`
	Section  string `json:"section"`
}

func (MemoryCreatedPayload) EventType() EventType { return EventMemoryCreated }

type OfflineProgressPayload struct {
	PlayerID         string `json:"player_id"`
	EffectiveSeconds int64  `json:"effective_seconds"`
	CoinsEarned      int    `json:"coins_earned"`
	ShiftsCompleted  int    `json:"shifts_completed"`
}

func (OfflineProgressPayload) EventType() EventType { return EventOfflineApplied }

type PersistenceFailedPayload struct {
	PlayerID  string `json:"player_id"`
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

func (PersistenceFailedPayload) EventType() EventType { return EventPersistenceFailed }

type EventHandler func(payload EventPayload)

// EventService is a synchronous in-process bus. Payloads are the authoritative
// description of what changed; subscribers must not re-read state mid-mutation.
type EventService struct {
	context.DefaultService

	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

const EVENT_SVC = "event_svc"

func (svc EventService) Id() string {
	return EVENT_SVC
}

func (svc *EventService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *EventService) Start() error {
	return nil
}

func (svc *EventService) Subscribe(t EventType, h EventHandler) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.handlers == nil {
		svc.handlers = make(map[EventType][]EventHandler)
	}
	svc.handlers[t] = append(svc.handlers[t], h)
}

func (svc *EventService) Publish(payload EventPayload) {
	svc.mu.RLock()
	handlers := svc.handlers[payload.EventType()]
	svc.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"event": payload.EventType(),
						"panic": r,
					}).Error("Event handler panicked")
				}
			}()
			h(payload)
		}()
	}
}
