package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mjiang-series/petcafe_api/shared"
)

type BondHandler struct {
	bondSvc BondServiceInterface
}

func NewBondHandler(bondSvc BondServiceInterface) *BondHandler {
	return &BondHandler{bondSvc: bondSvc}
}

// @Summary List NPC bonds
// @Description Returns bond level and progress for every NPC the player has met
// @Tags bond
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=dto.BondListResponse}
// @Router /api/v1/bonds [get]
func (h *BondHandler) List(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	bonds, err := h.bondSvc.GetBonds(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", bonds)
}
