package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/shared"
)

type SessionHandler struct {
	sessionSvc SessionServiceInterface
}

func NewSessionHandler(sessionSvc SessionServiceInterface) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// @Summary Create or resume a session
// @Description Binds a device id to a player, creating the player on first contact. A resume includes the offline progression report.
// @Tags session
// @Accept json
// @Produce json
// @Param sessionRequest body dto.CreateSessionRequest true "Device info"
// @Success 200 {object} shared.Response{data=dto.CreateSessionResponse}
// @Router /api/v1/session [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	session, err := h.sessionSvc.CreateOrGetSession(&req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Claim an account
// @Description Attaches a username and password to the calling player
// @Tags session
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param claimRequest body dto.ClaimAccountRequest true "Credentials"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/account/claim [post]
func (h *SessionHandler) ClaimAccount(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	var req dto.ClaimAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	resp, err := h.sessionSvc.ClaimAccount(playerID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Login
// @Description Authenticates a claimed account
// @Tags session
// @Accept json
// @Produce json
// @Param loginRequest body dto.LoginRequest true "Credentials"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/account/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	resp, err := h.sessionSvc.Login(&req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
