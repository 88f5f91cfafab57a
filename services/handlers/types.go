package handlers

import (
	"github.com/mjiang-series/petcafe_api/dto"
)

type SessionServiceInterface interface {
	CreateOrGetSession(req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	ClaimAccount(playerID string, req *dto.ClaimAccountRequest) (*dto.LoginResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type PlayerServiceInterface interface {
	GetProfile(playerID string) (*dto.PlayerProfileResponse, error)
	GetCollection(playerID string) (*dto.PetCollectionResponse, error)
	GetInventory(playerID string) (*dto.InventoryResponse, error)
	AddCurrency(playerID string, req *dto.AddCurrencyRequest) (*dto.PlayerProfileResponse, error)
	AddTestPets(playerID string, req *dto.AddTestPetsRequest) (*dto.PetCollectionResponse, error)
}

type GachaServiceInterface interface {
	PullSingleForPlayer(playerID string) (*dto.GachaPullResponse, error)
	PullTenForPlayer(playerID string) (*dto.GachaPullResponse, error)
	PerformTutorialPullForPlayer(playerID string) (*dto.GachaPullResponse, error)
	GetPullHistory(playerID string) (*dto.PullHistoryResponse, error)
}

type ShiftServiceInterface interface {
	StartShiftForPlayer(playerID string, req *dto.StartShiftRequest) (*dto.ShiftResponse, error)
	CompleteShiftForPlayer(playerID, shiftID string, forced bool) (*dto.ShiftRewardsResponse, error)
	GetShifts(playerID string) (*dto.ShiftListResponse, error)
	CompleteAllShifts(playerID string) ([]dto.ShiftRewardsResponse, error)
	SetShiftDuration(playerID, shiftID string, durationMs int64) (*dto.ShiftResponse, error)
}

type BondServiceInterface interface {
	GetBonds(playerID string) (*dto.BondListResponse, error)
}

type MemoryServiceInterface interface {
	ListMemories(playerID string) (*dto.MemoryListResponse, error)
	PublishMemory(playerID, memoryID string) (*dto.MemoryResponse, error)
	AttachImage(playerID, memoryID string, data []byte, contentType string) (*dto.MemoryImageResponse, error)
}
