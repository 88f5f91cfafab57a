package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

type SqliteService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const SQLITE_SVC = "sqlite_svc"

// Id returns Service ID
func (ds SqliteService) Id() string {
	return SQLITE_SVC
}

// Db Access to raw SqliteService db
func (ds SqliteService) Db() *gorm.DB {
	return ds.db
}

// Configure the service
func (ds *SqliteService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DB_DATABASE")
	if ds.database == "" {
		ds.database = "petcafe.db"
	}

	return ds.DefaultService.Configure(ctx)
}

// Start the service and open connection to the database
// Migrate any tables that have changed since last runtime
func (ds *SqliteService) Start() (err error) {
	ds.db, err = gorm.Open(sqlite.Open(ds.database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.Pet{},
		&model.Activity{},
		&model.Consumable{},
		&model.NPC{},
		&model.PlayerProgress{},
		&model.PlayerPet{},
		&model.ConsumableStack{},
		&model.Shift{},
		&model.NPCBond{},
		&model.Memory{},
		&model.PlayerSession{},
		&model.PlayerAccount{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqliteService) Shutdown() {
}

// ==================== CONTENT TABLES ====================

func (ds *SqliteService) GetAllPets() ([]model.Pet, error) {
	var pets []model.Pet
	err := ds.db.Find(&pets).Error
	return pets, ds.HandleError(err)
}

func (ds *SqliteService) GetAllActivities() ([]model.Activity, error) {
	var activities []model.Activity
	err := ds.db.Find(&activities).Error
	return activities, ds.HandleError(err)
}

func (ds *SqliteService) GetAllConsumables() ([]model.Consumable, error) {
	var consumables []model.Consumable
	err := ds.db.Find(&consumables).Error
	return consumables, ds.HandleError(err)
}

func (ds *SqliteService) GetAllNPCs() ([]model.NPC, error) {
	var npcs []model.NPC
	err := ds.db.Find(&npcs).Error
	return npcs, ds.HandleError(err)
}

// ==================== PLAYER STATE ====================

func (ds *SqliteService) GetPlayerProgress(playerID string) (*model.PlayerProgress, error) {
	var progress model.PlayerProgress
	err := ds.db.Where("player_id = ?", playerID).First(&progress).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

func (ds *SqliteService) CreatePlayerProgress(progress *model.PlayerProgress) (*model.PlayerProgress, error) {
	err := ds.db.Create(progress).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return progress, nil
}

func (ds *SqliteService) UpdatePlayerProgress(progress *model.PlayerProgress) error {
	return ds.HandleError(ds.db.Save(progress).Error)
}

func (ds *SqliteService) GetPlayerPets(playerID string) ([]model.PlayerPet, error) {
	var pets []model.PlayerPet
	err := ds.db.Where("player_id = ?", playerID).Order("acquired_at ASC").Find(&pets).Error
	return pets, ds.HandleError(err)
}

func (ds *SqliteService) GetPlayerBonds(playerID string) ([]model.NPCBond, error) {
	var bonds []model.NPCBond
	err := ds.db.Where("player_id = ?", playerID).Find(&bonds).Error
	return bonds, ds.HandleError(err)
}

func (ds *SqliteService) GetPlayerConsumables(playerID string) ([]model.ConsumableStack, error) {
	var stacks []model.ConsumableStack
	err := ds.db.Where("player_id = ?", playerID).Find(&stacks).Error
	return stacks, ds.HandleError(err)
}

func (ds *SqliteService) GetActiveShifts(playerID string) ([]model.Shift, error) {
	var shifts []model.Shift
	err := ds.db.Where("player_id = ? AND status != ?", playerID, shared.ShiftStatusCollected).Find(&shifts).Error
	return shifts, ds.HandleError(err)
}

func (ds *SqliteService) GetAllRunningShifts() ([]model.Shift, error) {
	var shifts []model.Shift
	err := ds.db.Where("status = ?", shared.ShiftStatusRunning).Find(&shifts).Error
	return shifts, ds.HandleError(err)
}

// SavePlayerState persists the whole aggregate in one transaction so a reward
// application can never half-apply.
func (ds *SqliteService) SavePlayerState(state *model.PlayerState) error {
	err := ds.db.Transaction(func(tx *gorm.DB) error {
		state.Progress.UpdatedAt = time.Now()
		if err := tx.Save(state.Progress).Error; err != nil {
			return err
		}
		for i := range state.Pets {
			if err := tx.Save(&state.Pets[i]).Error; err != nil {
				return err
			}
		}
		for i := range state.Bonds {
			if err := tx.Save(&state.Bonds[i]).Error; err != nil {
				return err
			}
		}
		for i := range state.Consumables {
			if err := tx.Save(&state.Consumables[i]).Error; err != nil {
				return err
			}
		}
		for i := range state.Shifts {
			if err := tx.Save(&state.Shifts[i]).Error; err != nil {
				return err
			}
		}
		for i := range state.NewMemories {
			if err := tx.Save(&state.NewMemories[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return ds.HandleError(err)
}

// ==================== MEMORIES ====================

func (ds *SqliteService) GetMemories(playerID string) ([]model.Memory, error) {
	var memories []model.Memory
	err := ds.db.Where("player_id = ?", playerID).Order("created_at DESC").Find(&memories).Error
	return memories, ds.HandleError(err)
}

func (ds *SqliteService) GetMemory(playerID, memoryID string) (*model.Memory, error) {
	var memory model.Memory
	err := ds.db.Where("id = ? AND player_id = ?", memoryID, playerID).First(&memory).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &memory, nil
}

func (ds *SqliteService) UpdateMemory(memory *model.Memory) error {
	return ds.HandleError(ds.db.Save(memory).Error)
}

// ==================== SESSIONS & ACCOUNTS ====================

func (ds *SqliteService) GetSessionByDeviceID(deviceID string) (*model.PlayerSession, error) {
	var session model.PlayerSession
	err := ds.db.Where("device_id = ?", deviceID).First(&session).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &session, nil
}

func (ds *SqliteService) CreateSession(session *model.PlayerSession) (*model.PlayerSession, error) {
	err := ds.db.Create(session).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return session, nil
}

func (ds *SqliteService) UpdateSession(session *model.PlayerSession) error {
	return ds.HandleError(ds.db.Save(session).Error)
}

func (ds *SqliteService) GetAccountByUsername(username string) (*model.PlayerAccount, error) {
	var account model.PlayerAccount
	err := ds.db.Where("LOWER(username) = LOWER(?)", username).First(&account).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &account, nil
}

func (ds *SqliteService) GetAccountByPlayerID(playerID string) (*model.PlayerAccount, error) {
	var account model.PlayerAccount
	err := ds.db.Where("player_id = ?", playerID).First(&account).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &account, nil
}

func (ds *SqliteService) CreateAccount(account *model.PlayerAccount) (*model.PlayerAccount, error) {
	err := ds.db.Create(account).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return account, nil
}

func (ds *SqliteService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound // 404
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict // 409
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest // 400
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError // 500
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			statusCode = http.StatusConflict // 409
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "no such table") {
			statusCode = http.StatusInternalServerError // 500
			errorType = "SCHEMA_ERROR"
		} else {
			statusCode = http.StatusInternalServerError // 500
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}
