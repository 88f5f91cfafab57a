package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/shared"
)

type ShiftHandler struct {
	shiftSvc ShiftServiceInterface
}

func NewShiftHandler(shiftSvc ShiftServiceInterface) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// @Summary List active shifts
// @Description Returns the player's running and uncollected shifts
// @Tags shift
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=dto.ShiftListResponse}
// @Router /api/v1/shifts [get]
func (h *ShiftHandler) List(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	resp, err := h.shiftSvc.GetShifts(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Start a shift
// @Description Starts an activity with an optional pet party and consumables
// @Tags shift
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param startRequest body dto.StartShiftRequest true "Activity, party and items"
// @Success 200 {object} shared.Response{data=dto.ShiftResponse}
// @Router /api/v1/shifts [post]
func (h *ShiftHandler) Start(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	var req dto.StartShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	resp, err := h.shiftSvc.StartShiftForPlayer(playerID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Complete a shift
// @Description Collects a finished shift's rewards. A forced completion before the timer lapses spends an instant finish item.
// @Tags shift
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param shiftId path string true "Shift ID"
// @Param completeRequest body dto.CompleteShiftRequest false "Completion options"
// @Success 200 {object} shared.Response{data=dto.ShiftRewardsResponse}
// @Router /api/v1/shifts/{shiftId}/complete [post]
func (h *ShiftHandler) Complete(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)
	shiftID := c.Params("shiftId")

	var req dto.CompleteShiftRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return shared.NewBadRequestError(err, "Invalid request")
		}
	}

	resp, err := h.shiftSvc.CompleteShiftForPlayer(playerID, shiftID, req.Forced)
	if err != nil {
		return err
	}
	if resp == nil {
		return shared.ResponseJSON(c, fiber.StatusOK, "Already collected", nil)
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
