package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultPageSize = 20
const maxPageSize = 100

// jsonError writes the standard error envelope used by every API handler.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// parsePaging reads ?page and ?limit query params and converts them to an
// offset/limit pair. Pages are 1-based.
func parsePaging(c *fiber.Ctx) (offset, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return (page - 1) * limit, limit
}

// parseDate parses a YYYY-MM-DD query or body value.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
