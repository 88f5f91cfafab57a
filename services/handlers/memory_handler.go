package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/mjiang-series/petcafe_api/shared"
)

type MemoryHandler struct {
	memorySvc MemoryServiceInterface
}

func NewMemoryHandler(memorySvc MemoryServiceInterface) *MemoryHandler {
	return &MemoryHandler{memorySvc: memorySvc}
}

// @Summary List memories
// @Description Returns the player's memories, newest first
// @Tags memory
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Success 200 {object} shared.Response{data=dto.MemoryListResponse}
// @Router /api/v1/memories [get]
func (h *MemoryHandler) List(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)

	memories, err := h.memorySvc.ListMemories(playerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", memories)
}

// @Summary Publish a memory
// @Description Marks a memory as published to the café feed. Publishing is one-way.
// @Tags memory
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param memoryId path string true "Memory ID"
// @Success 200 {object} shared.Response{data=dto.MemoryResponse}
// @Router /api/v1/memories/{memoryId}/publish [post]
func (h *MemoryHandler) Publish(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)
	memoryID := c.Params("memoryId")

	memory, err := h.memorySvc.PublishMemory(playerID, memoryID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", memory)
}

// @Summary Attach an image to a memory
// @Description Uploads a snapshot for the memory and stores its URL
// @Tags memory
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Player Bearer Token" default(Bearer <token>)
// @Param memoryId path string true "Memory ID"
// @Param image formData file true "Image file"
// @Success 200 {object} shared.Response{data=dto.MemoryImageResponse}
// @Router /api/v1/memories/{memoryId}/image [post]
func (h *MemoryHandler) UploadImage(c *fiber.Ctx) error {
	playerID := c.Locals(shared.PlayerID).(string)
	memoryID := c.Params("memoryId")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return shared.NewBadRequestError(err, "Image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.NewBadRequestError(err, "Failed to open image file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return shared.NewInternalError(err, "Failed to read image file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := h.memorySvc.AttachImage(playerID, memoryID, data, contentType)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
