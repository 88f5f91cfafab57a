// services/session.go
package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// SessionService handles the device-first session flow. A device id alone is
// enough to play; claiming a username and password is optional and only adds
// a login path to the same player.
type SessionService struct {
	context.DefaultService

	sqlSvc     *SqliteService
	playerSvc  *PlayerService
	offlineSvc *OfflineService
	jwtSvc     *JWTService
}

const SESSION_SVC = "session_svc"

func (svc SessionService) Id() string {
	return SESSION_SVC
}

func (svc *SessionService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *SessionService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.playerSvc = svc.Service(PLAYER_SVC).(*PlayerService)
	svc.offlineSvc = svc.Service(OFFLINE_SVC).(*OfflineService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

// CreateOrGetSession resumes the session bound to the device or creates a
// fresh player. A resume computes offline progress exactly once and returns
// the report alongside the tokens.
func (svc *SessionService) CreateOrGetSession(req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	now := time.Now()

	session, err := svc.sqlSvc.GetSessionByDeviceID(req.DeviceID)
	if err == nil && session != nil {
		return svc.resumeSession(session, now)
	}

	playerID := uuid.New().String()
	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to generate session id")
	}

	session = &model.PlayerSession{
		ID:           sessionID.String(),
		DeviceID:     req.DeviceID,
		PlayerID:     playerID,
		SessionStart: now,
		LastActivity: now,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if session, err = svc.sqlSvc.CreateSession(session); err != nil {
		return nil, err
	}

	if _, err := svc.playerSvc.InitializePlayer(playerID); err != nil {
		return nil, err
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(playerID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to issue tokens")
	}

	log.WithField("player_id", playerID).Info("new player session created")

	return &dto.CreateSessionResponse{
		PlayerID:  playerID,
		SessionID: session.ID,
		IsNew:     true,
		Tokens:    *tokens,
		CreatedAt: session.CreatedAt,
	}, nil
}

func (svc *SessionService) resumeSession(session *model.PlayerSession, now time.Time) (*dto.CreateSessionResponse, error) {
	lock := svc.playerSvc.LockPlayer(session.PlayerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := svc.playerSvc.LoadState(session.PlayerID)
	if err != nil {
		return nil, err
	}

	report := svc.offlineSvc.CalculateOfflineProgress(state, now)
	svc.offlineSvc.ApplyOfflineProgress(state, report, now)
	if err := svc.playerSvc.SaveState(state); err != nil {
		return nil, err
	}

	session.LastActivity = now
	if err := svc.sqlSvc.UpdateSession(session); err != nil {
		log.WithError(err).Warn("failed to update session activity")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(session.PlayerID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to issue tokens")
	}

	return &dto.CreateSessionResponse{
		PlayerID:  session.PlayerID,
		SessionID: session.ID,
		IsNew:     false,
		Tokens:    *tokens,
		Offline:   report,
		CreatedAt: session.CreatedAt,
	}, nil
}

// ClaimAccount attaches a username and password to the calling player.
func (svc *SessionService) ClaimAccount(playerID string, req *dto.ClaimAccountRequest) (*dto.LoginResponse, error) {
	if existing, err := svc.sqlSvc.GetAccountByPlayerID(playerID); err == nil && existing != nil {
		return nil, shared.NewConflictError(nil, "account already claimed")
	}
	if existing, err := svc.sqlSvc.GetAccountByUsername(req.Username); err == nil && existing != nil {
		return nil, shared.NewConflictError(nil, "username is taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to hash password")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to generate account id")
	}

	now := time.Now()
	account := &model.PlayerAccount{
		ID:           id.String(),
		PlayerID:     playerID,
		Username:     req.Username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := svc.sqlSvc.CreateAccount(account); err != nil {
		return nil, err
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(playerID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to issue tokens")
	}

	return &dto.LoginResponse{PlayerID: playerID, Tokens: *tokens}, nil
}

// Login authenticates a claimed account on a new device.
func (svc *SessionService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := svc.sqlSvc.GetAccountByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(nil, "invalid username or password")
		}
		if _, ok := shared.GetAppError(err); ok {
			return nil, shared.NewUnauthorizedError(nil, "invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(nil, "invalid username or password")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(account.PlayerID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to issue tokens")
	}

	return &dto.LoginResponse{PlayerID: account.PlayerID, Tokens: *tokens}, nil
}
