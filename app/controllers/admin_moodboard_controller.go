package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/latpategaurav/blu/app/models"
	"github.com/latpategaurav/blu/app/repository"
	"github.com/latpategaurav/blu/internal/pkg/usercontext"
)

type moodboardRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Liner        string   `json:"liner"`
	Date         string   `json:"date"` // YYYY-MM-DD
	DayNumber    int      `json:"day_number"`
	WeekNumber   int      `json:"week_number"`
	MainImage    string   `json:"main_image"`
	Images       []string `json:"images"`
	Tags         []string `json:"tags"`
	Style        string   `json:"style"`
	ColorPalette []string `json:"color_palette"`
	BookingPrice int64    `json:"booking_price"`
}

func (r *moodboardRequest) apply(mb *models.Moodboard) error {
	mb.Title = r.Title
	mb.Description = r.Description
	mb.Liner = r.Liner
	mb.DayNumber = r.DayNumber
	mb.WeekNumber = r.WeekNumber
	mb.MainImage = r.MainImage
	mb.Images = r.Images
	mb.Tags = r.Tags
	mb.Style = r.Style
	mb.ColorPalette = r.ColorPalette
	mb.BookingPrice = r.BookingPrice
	if r.Date != "" {
		parsed, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return err
		}
		mb.Date = &parsed
	}
	return nil
}

// HandleAdminListMoodboards returns all moodboards including drafts.
func HandleAdminListMoodboards(c *fiber.Ctx) error {
	offset, limit := parsePaging(c)
	repos := repository.GetGlobalRepositories()

	list, err := repos.Moodboard.GetAll(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load moodboards")
	}
	total, err := repos.Moodboard.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not count moodboards")
	}
	return c.JSON(fiber.Map{"moodboards": list, "total": total})
}

// HandleAdminCreateMoodboard creates a new draft moodboard.
func HandleAdminCreateMoodboard(c *fiber.Ctx) error {
	var req moodboardRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	mb := &models.Moodboard{
		Status:    models.MoodboardStatusDraft,
		IsActive:  true,
		CreatedBy: usercontext.GetUserID(c),
	}
	if err := req.apply(mb); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
	}
	if err := mb.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetMoodboardRepository().Create(mb); err != nil {
		log.Errorf("moodboard creation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not create moodboard")
	}

	catalogService.Invalidate()
	return c.Status(fiber.StatusCreated).JSON(mb)
}

// HandleAdminUpdateMoodboard updates an existing moodboard.
func HandleAdminUpdateMoodboard(c *fiber.Ctx) error {
	var req moodboardRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetMoodboardRepository()
	mb, err := repo.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Moodboard not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load moodboard")
	}

	if err := req.apply(mb); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
	}
	if err := mb.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(mb); err != nil {
		log.Errorf("moodboard update failed for %s: %v", mb.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not save moodboard")
	}

	catalogService.Invalidate()
	return c.JSON(mb)
}

// HandleAdminSetMoodboardStatus publishes or unpublishes a moodboard.
func HandleAdminSetMoodboardStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Status != models.MoodboardStatusDraft && req.Status != models.MoodboardStatusPublished {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "status must be draft or published")
	}

	repo := repository.GetGlobalFactory().GetMoodboardRepository()
	mb, err := repo.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Moodboard not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load moodboard")
	}

	mb.Status = req.Status
	if err := repo.Update(mb); err != nil {
		log.Errorf("moodboard status change failed for %s: %v", mb.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not save moodboard")
	}

	catalogService.Invalidate()
	return c.JSON(mb)
}

// HandleAdminDeleteMoodboard soft deletes a moodboard.
func HandleAdminDeleteMoodboard(c *fiber.Ctx) error {
	if err := repository.GetGlobalFactory().GetMoodboardRepository().Delete(c.Params("id")); err != nil {
		log.Errorf("moodboard delete failed for %s: %v", c.Params("id"), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not delete moodboard")
	}
	catalogService.Invalidate()
	return c.JSON(fiber.Map{"success": true})
}

type assignModelRequest struct {
	ModelID string `json:"modelId"`
}

// HandleAdminAssignModel links a model to a moodboard.
func HandleAdminAssignModel(c *fiber.Ctx) error {
	var req assignModelRequest
	if err := c.BodyParser(&req); err != nil || req.ModelID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "modelId is required")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Model.GetByID(req.ModelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Model not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load model")
	}

	if err := repos.Moodboard.AssignModel(c.Params("id"), req.ModelID); err != nil {
		log.Errorf("model assignment failed for moodboard %s: %v", c.Params("id"), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not assign model")
	}

	catalogService.Invalidate()
	return c.JSON(fiber.Map{"success": true})
}

// HandleAdminUnassignModel removes a model from a moodboard.
func HandleAdminUnassignModel(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	if err := repos.Moodboard.UnassignModel(c.Params("id"), c.Params("modelId")); err != nil {
		log.Errorf("model unassignment failed for moodboard %s: %v", c.Params("id"), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not unassign model")
	}
	catalogService.Invalidate()
	return c.JSON(fiber.Map{"success": true})
}

type similarLinkRequest struct {
	SimilarMoodboardID string  `json:"similarMoodboardId"`
	Score              float64 `json:"score"`
}

// HandleAdminSetSimilar curates a similar-moodboard link.
func HandleAdminSetSimilar(c *fiber.Ctx) error {
	var req similarLinkRequest
	if err := c.BodyParser(&req); err != nil || req.SimilarMoodboardID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "similarMoodboardId is required")
	}
	if c.Params("id") == req.SimilarMoodboardID {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "A moodboard cannot be similar to itself")
	}
	if req.Score < 0 || req.Score > 1 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "score must be between 0 and 1")
	}

	repo := repository.GetGlobalFactory().GetMoodboardRepository()
	if err := repo.SetSimilar(c.Params("id"), req.SimilarMoodboardID, req.Score); err != nil {
		log.Errorf("similar link failed for moodboard %s: %v", c.Params("id"), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not link moodboards")
	}

	catalogService.Invalidate()
	return c.JSON(fiber.Map{"success": true})
}
