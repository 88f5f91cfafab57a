package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/shared"
)

// AdminHandler exposes the debug routes used by local and staging builds.
// The routes are only registered when DEBUG_ENDPOINTS is set.
type AdminHandler struct {
	playerSvc PlayerServiceInterface
	shiftSvc  ShiftServiceInterface
}

func NewAdminHandler(playerSvc PlayerServiceInterface, shiftSvc ShiftServiceInterface) *AdminHandler {
	return &AdminHandler{
		playerSvc: playerSvc,
		shiftSvc:  shiftSvc,
	}
}

// @Summary Add currency (debug)
// @Tags debug
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param currencyRequest body dto.AddCurrencyRequest true "Amounts to add"
// @Success 200 {object} shared.Response{data=dto.PlayerProfileResponse}
// @Router /api/v1/debug/currency [post]
func (h *AdminHandler) AddCurrency(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	var req dto.AddCurrencyRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	profile, err := h.playerSvc.AddCurrency(playerID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}

// @Summary Add test pets (debug)
// @Tags debug
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param petsRequest body dto.AddTestPetsRequest true "Pet ids to grant"
// @Success 200 {object} shared.Response{data=dto.PetCollectionResponse}
// @Router /api/v1/debug/pets [post]
func (h *AdminHandler) AddTestPets(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	var req dto.AddTestPetsRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	collection, err := h.playerSvc.AddTestPets(playerID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", collection)
}

// @Summary Complete all running shifts (debug)
// @Tags debug
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=[]dto.ShiftRewardsResponse}
// @Router /api/v1/debug/shifts/complete-all [post]
func (h *AdminHandler) CompleteAllShifts(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	rewards, err := h.shiftSvc.CompleteAllShifts(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", rewards)
}

// @Summary Override a shift's duration (debug)
// @Tags debug
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param shiftId path string true "Shift ID"
// @Param durationRequest body dto.SetShiftDurationRequest true "New duration"
// @Success 200 {object} shared.Response{data=dto.ShiftResponse}
// @Router /api/v1/debug/shifts/{shiftId}/duration [post]
func (h *AdminHandler) SetShiftDuration(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)
	shiftID := c.Params("shiftId")

	var req dto.SetShiftDurationRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	shift, err := h.shiftSvc.SetShiftDuration(playerID, shiftID, req.DurationMs)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", shift)
}
