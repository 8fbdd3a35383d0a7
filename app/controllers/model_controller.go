package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/latpategaurav/blu/app/repository"
)

// HandleListModels returns a page of active models. A ?q= query switches to
// search.
func HandleListModels(c *fiber.Ctx) error {
	if query := c.Query("q"); query != "" {
		list, err := repository.GetGlobalFactory().GetModelRepository().Search(query)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Search failed")
		}
		return c.JSON(fiber.Map{"models": list})
	}

	offset, limit := parsePaging(c)
	list, err := catalogService.GetActiveModels(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load models")
	}
	return c.JSON(fiber.Map{"models": list})
}

// HandleGetModel returns one model profile with its moodboards.
func HandleGetModel(c *fiber.Ctx) error {
	model, err := catalogService.GetModel(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Model not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load model")
	}
	if !model.IsActive {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Model not found")
	}
	return c.JSON(model)
}
