package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/latpategaurav/blu/app/repository"
	"github.com/latpategaurav/blu/internal/pkg/usercontext"
)

// HandleListNotifications returns the caller's notifications with the unread
// count.
func HandleListNotifications(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePaging(c)
	repo := repository.GetGlobalFactory().GetNotificationRepository()

	list, err := repo.GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load notifications")
	}
	unread, err := repo.CountUnread(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not count notifications")
	}

	return c.JSON(fiber.Map{"notifications": list, "unread": unread})
}

// HandleMarkNotificationRead marks one of the caller's notifications as read.
func HandleMarkNotificationRead(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetNotificationRepository()

	if err := repo.MarkRead(c.Params("id"), userCtx.UserID); err != nil {
		log.Errorf("mark-read failed for notification %s: %v", c.Params("id"), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not update notification")
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleMarkAllNotificationsRead marks every unread notification of the
// caller as read.
func HandleMarkAllNotificationsRead(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetNotificationRepository()

	if err := repo.MarkAllRead(userCtx.UserID); err != nil {
		log.Errorf("mark-all-read failed for user %s: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not update notifications")
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleDeleteNotification removes one of the caller's notifications.
func HandleDeleteNotification(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetNotificationRepository()

	if err := repo.Delete(c.Params("id"), userCtx.UserID); err != nil {
		log.Errorf("delete failed for notification %s: %v", c.Params("id"), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not delete notification")
	}
	return c.JSON(fiber.Map{"success": true})
}
