package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/latpategaurav/blu/internal/pkg/catalog"
)

const similarLimit = 6

// catalogService is swapped in at router setup so handlers share one
// cache-backed instance.
var catalogService *catalog.Service

// SetCatalogService injects the shared catalog read service.
func SetCatalogService(svc *catalog.Service) {
	catalogService = svc
}

// HandleMoodboardCalendar returns the published moodboards for a date window.
// Defaults to the 30 days starting today, matching the challenge grid.
func HandleMoodboardCalendar(c *fiber.Ctx) error {
	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 30)

	if v := c.Query("from"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "to must be YYYY-MM-DD")
		}
		to = parsed
	}
	if to.Before(from) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "to must not be before from")
	}

	list, err := catalogService.GetCalendar(from, to)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load calendar")
	}

	// Group by week number for the grid view.
	weeks := make(map[int][]interface{})
	for _, mb := range list {
		weeks[mb.WeekNumber] = append(weeks[mb.WeekNumber], mb)
	}

	return c.JSON(fiber.Map{"moodboards": list, "weeks": weeks})
}

// HandleListMoodboards returns a page of published moodboards for the
// discover view. A ?q= query switches to search.
func HandleListMoodboards(c *fiber.Ctx) error {
	if query := c.Query("q"); query != "" {
		list, err := catalogService.Search(query)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Search failed")
		}
		return c.JSON(fiber.Map{"moodboards": list})
	}

	offset, limit := parsePaging(c)
	list, err := catalogService.GetPublished(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load moodboards")
	}
	return c.JSON(fiber.Map{"moodboards": list})
}

// HandleGetMoodboard returns one moodboard with its assigned models.
func HandleGetMoodboard(c *fiber.Ctx) error {
	moodboard, err := catalogService.GetMoodboard(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Moodboard not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load moodboard")
	}
	return c.JSON(moodboard)
}

// HandleGetSimilarMoodboards returns the curated similar shoots for a listing.
func HandleGetSimilarMoodboards(c *fiber.Ctx) error {
	list, err := catalogService.GetSimilar(c.Params("id"), similarLimit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load similar moodboards")
	}
	return c.JSON(fiber.Map{"moodboards": list})
}
