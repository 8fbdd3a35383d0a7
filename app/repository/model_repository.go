package repository

import (
	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
)

// modelRepository implements the ModelRepository interface
type modelRepository struct {
	db *gorm.DB
}

// NewModelRepository creates a new model repository instance
func NewModelRepository(db *gorm.DB) ModelRepository {
	return &modelRepository{db: db}
}

// Create creates a new model in the database
func (r *modelRepository) Create(model *models.Model) error {
	return r.db.Create(model).Error
}

// GetByID retrieves a model by its ID including assigned moodboards
func (r *modelRepository) GetByID(id string) (*models.Model, error) {
	var model models.Model
	err := r.db.Preload("Moodboards").First(&model, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// GetActive retrieves active models with pagination
func (r *modelRepository) GetActive(offset, limit int) ([]models.Model, error) {
	var list []models.Model
	err := r.db.Where("is_active = ?", true).
		Offset(offset).Limit(limit).
		Order("name ASC").Find(&list).Error
	return list, err
}

// GetAll retrieves all models with pagination, including inactive ones
func (r *modelRepository) GetAll(offset, limit int) ([]models.Model, error) {
	var list []models.Model
	err := r.db.Offset(offset).Limit(limit).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

// GetByMoodboardID retrieves all models assigned to a moodboard
func (r *modelRepository) GetByMoodboardID(moodboardID string) ([]models.Model, error) {
	var list []models.Model
	err := r.db.Table("models").
		Joins("JOIN moodboard_models ON models.id = moodboard_models.model_id").
		Where("moodboard_models.moodboard_id = ? AND models.deleted_at IS NULL", moodboardID).
		Order("models.name ASC").
		Find(&list).Error
	return list, err
}

// Update updates an existing model in the database
func (r *modelRepository) Update(model *models.Model) error {
	return r.db.Save(model).Error
}

// Delete soft deletes a model by its ID
func (r *modelRepository) Delete(id string) error {
	return r.db.Delete(&models.Model{}, "id = ?", id).Error
}

// Count returns the total number of models
func (r *modelRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Model{}).Count(&count).Error
	return count, err
}

// Search searches models by name or one-liner
func (r *modelRepository) Search(query string) ([]models.Model, error) {
	var list []models.Model
	searchTerm := "%" + query + "%"
	err := r.db.Where("name LIKE ? OR one_liner LIKE ?", searchTerm, searchTerm).
		Order("name ASC").
		Limit(50).
		Find(&list).Error
	return list, err
}
