package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/latpategaurav/blu/app/models"
	"github.com/latpategaurav/blu/app/repository"
)

type modelRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Bio             string   `json:"bio"`
	OneLiner        string   `json:"one_liner"`
	Height          string   `json:"height"`
	Bust            string   `json:"bust"`
	Waist           string   `json:"waist"`
	Hips            string   `json:"hips"`
	ShoeSize        string   `json:"shoe_size"`
	HairColor       string   `json:"hair_color"`
	EyeColor        string   `json:"eye_color"`
	ExperienceLevel string   `json:"experience_level"`
	RatePerDay      int64    `json:"rate_per_day"`
	IsActive        *bool    `json:"is_active"`
	ProfileImage    string   `json:"profile_image"`
	PortfolioImages []string `json:"portfolio_images"`
}

func (r *modelRequest) apply(m *models.Model) {
	m.Name = r.Name
	m.Email = r.Email
	m.Phone = r.Phone
	m.Bio = r.Bio
	m.OneLiner = r.OneLiner
	m.Height = r.Height
	m.Bust = r.Bust
	m.Waist = r.Waist
	m.Hips = r.Hips
	m.ShoeSize = r.ShoeSize
	m.HairColor = r.HairColor
	m.EyeColor = r.EyeColor
	m.ExperienceLevel = r.ExperienceLevel
	m.RatePerDay = r.RatePerDay
	m.ProfileImage = r.ProfileImage
	m.PortfolioImages = r.PortfolioImages
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

// HandleAdminListModels returns all models including inactive ones.
func HandleAdminListModels(c *fiber.Ctx) error {
	offset, limit := parsePaging(c)
	repos := repository.GetGlobalRepositories()

	list, err := repos.Model.GetAll(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load models")
	}
	total, err := repos.Model.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not count models")
	}
	return c.JSON(fiber.Map{"models": list, "total": total})
}

// HandleAdminCreateModel creates a new model profile.
func HandleAdminCreateModel(c *fiber.Ctx) error {
	var req modelRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	model := &models.Model{IsActive: true}
	req.apply(model)
	if err := model.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetModelRepository().Create(model); err != nil {
		log.Errorf("model creation failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not create model")
	}

	catalogService.Invalidate()
	return c.Status(fiber.StatusCreated).JSON(model)
}

// HandleAdminUpdateModel updates an existing model profile.
func HandleAdminUpdateModel(c *fiber.Ctx) error {
	var req modelRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetModelRepository()
	model, err := repo.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Model not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load model")
	}

	req.apply(model)
	if err := model.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(model); err != nil {
		log.Errorf("model update failed for %s: %v", model.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not save model")
	}

	catalogService.Invalidate()
	return c.JSON(model)
}

// HandleAdminDeleteModel soft deletes a model profile.
func HandleAdminDeleteModel(c *fiber.Ctx) error {
	if err := repository.GetGlobalFactory().GetModelRepository().Delete(c.Params("id")); err != nil {
		log.Errorf("model delete failed for %s: %v", c.Params("id"), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not delete model")
	}
	catalogService.Invalidate()
	return c.JSON(fiber.Map{"success": true})
}
