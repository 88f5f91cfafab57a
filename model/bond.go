// model/bond.go
package model

import "time"

// NPCBond accumulates bond points toward the next level for one NPC.
// BondPoints stays below MaxBondPoints except transiently inside a level-up
// rollover. Records are created lazily on first award and never deleted.
type NPCBond struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	PlayerID      string    `json:"player_id" gorm:"not null;index"`
	NPCID         string    `json:"npc_id" gorm:"not null"`
	BondLevel     int       `json:"bond_level" gorm:"default:1"`
	BondPoints    int       `json:"bond_points" gorm:"default:0"`
	MaxBondPoints int       `json:"max_bond_points" gorm:"default:100"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
