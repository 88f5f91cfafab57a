package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mjiang-series/petcafe_api/shared"
)

type PlayerHandler struct {
	playerSvc PlayerServiceInterface
}

func NewPlayerHandler(playerSvc PlayerServiceInterface) *PlayerHandler {
	return &PlayerHandler{playerSvc: playerSvc}
}

// @Summary Get player profile
// @Description Returns currencies, level, pity counter and lifetime stats
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=dto.PlayerProfileResponse}
// @Router /api/v1/player [get]
func (h *PlayerHandler) GetProfile(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	profile, err := h.playerSvc.GetProfile(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}

// @Summary Get pet collection
// @Description Returns owned pets with a per-rarity breakdown
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=dto.PetCollectionResponse}
// @Router /api/v1/player/pets [get]
func (h *PlayerHandler) GetCollection(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	collection, err := h.playerSvc.GetCollection(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", collection)
}

// @Summary Get consumable inventory
// @Description Returns consumable stacks with quantities
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=dto.InventoryResponse}
// @Router /api/v1/player/inventory [get]
func (h *PlayerHandler) GetInventory(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	inventory, err := h.playerSvc.GetInventory(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", inventory)
}
