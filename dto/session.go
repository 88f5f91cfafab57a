package dto

import "time"

type CreateSessionRequest struct {
	DeviceID string `json:"device_id" validate:"required,min=8,max=128"`
}

func (r CreateSessionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreateSessionResponse struct {
	PlayerID  string         `json:"player_id"`
	SessionID string         `json:"session_id"`
	IsNew     bool           `json:"is_new"`
	Tokens    TokenPair      `json:"tokens"`
	Offline   *OfflineReport `json:"offline,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type ClaimAccountRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Password string `json:"password" validate:"required,strong_password"`
}

func (r ClaimAccountRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginResponse struct {
	PlayerID string    `json:"player_id"`
	Tokens   TokenPair `json:"tokens"`
}
