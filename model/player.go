// model/player.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mjiang-series/petcafe_api/shared"
)

// PlayerProgress is the per-player economy row: currencies, pity counter and
// lifetime statistics. Currency fields are mutated only through the PlayerState
// delta helpers so they can never go negative.
type PlayerProgress struct {
	ID                       string          `json:"id" gorm:"primaryKey"`
	PlayerID                 string          `json:"player_id" gorm:"not null;uniqueIndex"`
	Coins                    int             `json:"coins" gorm:"default:0"`
	Diamonds                 int             `json:"diamonds" gorm:"default:0"`
	GachaTickets             int             `json:"gacha_tickets" gorm:"default:0"`
	Level                    int             `json:"level" gorm:"default:1"`
	XP                       int             `json:"xp" gorm:"default:0"`
	PityCounter              int             `json:"pity_counter" gorm:"default:0"`
	TotalPulls               int             `json:"total_pulls" gorm:"default:0"`
	LifetimeShiftCompletions int             `json:"lifetime_shift_completions" gorm:"default:0"`
	TutorialPullDone         bool            `json:"tutorial_pull_done" gorm:"default:false"`
	PullHistory              json.RawMessage `json:"pull_history" gorm:"type:text"`
	LastSeenAt               *time.Time      `json:"last_seen_at"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// PlayerPet is an owned-pet record. Created on a non-duplicate gacha draw,
// never deleted in normal play.
type PlayerPet struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	PlayerID        string    `json:"player_id" gorm:"not null;index"`
	PetID           string    `json:"pet_id" gorm:"not null"`
	AcquiredAt      time.Time `json:"acquired_at"`
	AssignedSection string    `json:"assigned_section"`
	Affinity        int       `json:"affinity" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ConsumableStack tracks inventory quantity per consumable id.
type ConsumableStack struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	PlayerID     string    `json:"player_id" gorm:"not null;index"`
	ConsumableID string    `json:"consumable_id" gorm:"not null"`
	Quantity     int       `json:"quantity" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PullRecord is one entry of the rolling pull history stored on PlayerProgress.
type PullRecord struct {
	PetID     string    `json:"pet_id"`
	Rarity    string    `json:"rarity"`
	Duplicate bool      `json:"duplicate"`
	Forced    bool      `json:"forced"`
	PulledAt  time.Time `json:"pulled_at"`
}

// PlayerState is the aggregate every system mutates. It is loaded per request,
// passed explicitly, and saved once — there is no shared mutable singleton.
type PlayerState struct {
	Progress    *PlayerProgress
	Pets        []PlayerPet
	Bonds       []NPCBond
	Consumables []ConsumableStack
	Shifts      []Shift

	// NewMemories collects memories generated during this mutation; they are
	// persisted together with the rest of the state so a completion either
	// applies fully or not at all.
	NewMemories []Memory
}

func (s *PlayerState) OwnsPet(petID string) bool {
	for i := range s.Pets {
		if s.Pets[i].PetID == petID {
			return true
		}
	}
	return false
}

func (s *PlayerState) ShiftByID(shiftID string) *Shift {
	for i := range s.Shifts {
		if s.Shifts[i].ID == shiftID {
			return &s.Shifts[i]
		}
	}
	return nil
}

// RunningShiftInSection reports whether the section already holds a
// non-terminal shift. Exactly one shift may run per section.
func (s *PlayerState) RunningShiftInSection(section string) *Shift {
	for i := range s.Shifts {
		sh := &s.Shifts[i]
		if sh.Section == section && sh.Status != shared.ShiftStatusCollected {
			return sh
		}
	}
	return nil
}

func (s *PlayerState) Bond(npcID string) *NPCBond {
	for i := range s.Bonds {
		if s.Bonds[i].NPCID == npcID {
			return &s.Bonds[i]
		}
	}
	return nil
}

func (s *PlayerState) ConsumableQty(consumableID string) int {
	for i := range s.Consumables {
		if s.Consumables[i].ConsumableID == consumableID {
			return s.Consumables[i].Quantity
		}
	}
	return 0
}

// ConsumeOne decrements a consumable stack, reporting false if none remain.
func (s *PlayerState) ConsumeOne(consumableID string) bool {
	for i := range s.Consumables {
		if s.Consumables[i].ConsumableID == consumableID && s.Consumables[i].Quantity > 0 {
			s.Consumables[i].Quantity--
			s.Consumables[i].UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

func (s *PlayerState) AddConsumable(playerID, consumableID, stackID string, qty int) {
	for i := range s.Consumables {
		if s.Consumables[i].ConsumableID == consumableID {
			s.Consumables[i].Quantity += qty
			s.Consumables[i].UpdatedAt = time.Now()
			return
		}
	}
	now := time.Now()
	s.Consumables = append(s.Consumables, ConsumableStack{
		ID:           stackID,
		PlayerID:     playerID,
		ConsumableID: consumableID,
		Quantity:     qty,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *PlayerState) AddCoins(amount int) {
	s.Progress.Coins += amount
}

func (s *PlayerState) SpendCoins(amount int) error {
	if s.Progress.Coins < amount {
		return fmt.Errorf("insufficient coins: have %d, need %d", s.Progress.Coins, amount)
	}
	s.Progress.Coins -= amount
	return nil
}

func (s *PlayerState) AddDiamonds(amount int) {
	s.Progress.Diamonds += amount
}

func (s *PlayerState) SpendDiamonds(amount int) error {
	if s.Progress.Diamonds < amount {
		return fmt.Errorf("insufficient diamonds: have %d, need %d", s.Progress.Diamonds, amount)
	}
	s.Progress.Diamonds -= amount
	return nil
}

func (s *PlayerState) AddGachaTickets(amount int) {
	s.Progress.GachaTickets += amount
}

// AppendPullHistory keeps the rolling history capped, evicting oldest entries.
func (s *PlayerState) AppendPullHistory(records []PullRecord, limit int) error {
	var history []PullRecord
	if len(s.Progress.PullHistory) > 0 {
		if err := json.Unmarshal(s.Progress.PullHistory, &history); err != nil {
			history = nil
		}
	}
	history = append(history, records...)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return err
	}
	s.Progress.PullHistory = raw
	return nil
}
