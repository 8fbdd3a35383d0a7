package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/latpategaurav/blu/app/repository"
)

// HandleAdminListSettings returns all global settings.
func HandleAdminListSettings(c *fiber.Ctx) error {
	settings, err := repository.GetGlobalFactory().GetSettingRepository().GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load settings")
	}
	return c.JSON(fiber.Map{"settings": settings})
}

type settingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HandleAdminSetSetting creates or updates a global setting.
func HandleAdminSetSetting(c *fiber.Ctx) error {
	var req settingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Key == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "key is required")
	}

	if err := repository.GetGlobalFactory().GetSettingRepository().SetValue(req.Key, req.Value); err != nil {
		log.Errorf("setting update failed for %s: %v", req.Key, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not save setting")
	}
	return c.JSON(fiber.Map{"success": true})
}
