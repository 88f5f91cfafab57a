// model/session.go
package model

import "time"

// PlayerSession binds a device id to a player. The mobile client has no
// account until the player chooses to claim one.
type PlayerSession struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	DeviceID     string    `json:"device_id" gorm:"not null;uniqueIndex"`
	PlayerID     string    `json:"player_id" gorm:"not null;index"`
	SessionStart time.Time `json:"session_start"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlayerAccount is the optional username/password claim over a device player.
type PlayerAccount struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	PlayerID     string    `json:"player_id" gorm:"not null;uniqueIndex"`
	Username     string    `json:"username" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
