package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/shared"
)

type GachaHandler struct {
	gachaSvc GachaServiceInterface
}

func NewGachaHandler(gachaSvc GachaServiceInterface) *GachaHandler {
	return &GachaHandler{gachaSvc: gachaSvc}
}

// @Summary Pull the gacha
// @Description Performs a single or ten-pull. Cost is checked before any draw; an unaffordable pull changes nothing.
// @Tags gacha
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param pullRequest body dto.PullRequest true "Pull count (1 or 10)"
// @Success 200 {object} shared.Response{data=dto.GachaPullResponse}
// @Router /api/v1/gacha/pull [post]
func (h *GachaHandler) Pull(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	var req dto.PullRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	var resp *dto.GachaPullResponse
	var err error
	if req.Count == 10 {
		resp, err = h.gachaSvc.PullTenForPlayer(playerID)
	} else {
		resp, err = h.gachaSvc.PullSingleForPlayer(playerID)
	}
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Tutorial pull
// @Description One-time free ten-pull with guaranteed starters and a rare-or-better
// @Tags gacha
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=dto.GachaPullResponse}
// @Router /api/v1/gacha/tutorial [post]
func (h *GachaHandler) TutorialPull(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	resp, err := h.gachaSvc.PerformTutorialPullForPlayer(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Pull history
// @Description Returns the rolling window of recent draws, newest first
// @Tags gacha
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=dto.PullHistoryResponse}
// @Router /api/v1/gacha/history [get]
func (h *GachaHandler) History(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	resp, err := h.gachaSvc.GetPullHistory(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
