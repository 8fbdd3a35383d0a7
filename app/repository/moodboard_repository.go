package repository

import (
	"time"

	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// moodboardRepository implements the MoodboardRepository interface
type moodboardRepository struct {
	db *gorm.DB
}

// NewMoodboardRepository creates a new moodboard repository instance
func NewMoodboardRepository(db *gorm.DB) MoodboardRepository {
	return &moodboardRepository{db: db}
}

// Create creates a new moodboard in the database
func (r *moodboardRepository) Create(moodboard *models.Moodboard) error {
	return r.db.Create(moodboard).Error
}

// GetByID retrieves a moodboard by its ID including assigned models
func (r *moodboardRepository) GetByID(id string) (*models.Moodboard, error) {
	var moodboard models.Moodboard
	err := r.db.Preload("Models").First(&moodboard, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &moodboard, nil
}

// GetByDate retrieves the moodboard scheduled for a specific calendar day
func (r *moodboardRepository) GetByDate(date time.Time) (*models.Moodboard, error) {
	var moodboard models.Moodboard
	err := r.db.Preload("Models").
		Where("date = ? AND status = ? AND is_active = ?",
			date.Format("2006-01-02"), models.MoodboardStatusPublished, true).
		First(&moodboard).Error
	if err != nil {
		return nil, err
	}
	return &moodboard, nil
}

// GetByDateRange retrieves published moodboards in a date window, ordered by
// date. Used by the booking calendar.
func (r *moodboardRepository) GetByDateRange(from, to time.Time) ([]models.Moodboard, error) {
	var list []models.Moodboard
	err := r.db.Preload("Models").
		Where("date >= ? AND date <= ? AND status = ? AND is_active = ?",
			from.Format("2006-01-02"), to.Format("2006-01-02"),
			models.MoodboardStatusPublished, true).
		Order("date ASC").
		Find(&list).Error
	return list, err
}

// GetPublished retrieves published active moodboards with pagination
func (r *moodboardRepository) GetPublished(offset, limit int) ([]models.Moodboard, error) {
	var list []models.Moodboard
	err := r.db.Preload("Models").
		Where("status = ? AND is_active = ?", models.MoodboardStatusPublished, true).
		Offset(offset).Limit(limit).
		Order("date ASC").
		Find(&list).Error
	return list, err
}

// GetAll retrieves all moodboards with pagination, drafts included
func (r *moodboardRepository) GetAll(offset, limit int) ([]models.Moodboard, error) {
	var list []models.Moodboard
	err := r.db.Preload("Models").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// GetSimilar retrieves curated similar moodboards ordered by similarity score
func (r *moodboardRepository) GetSimilar(moodboardID string, limit int) ([]models.Moodboard, error) {
	var list []models.Moodboard
	err := r.db.Table("moodboards").
		Joins("JOIN similar_moodboards ON moodboards.id = similar_moodboards.similar_moodboard_id").
		Where("similar_moodboards.moodboard_id = ? AND moodboards.status = ? AND moodboards.is_active = ? AND moodboards.deleted_at IS NULL",
			moodboardID, models.MoodboardStatusPublished, true).
		Order("similar_moodboards.similarity_score DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// Update updates an existing moodboard in the database
func (r *moodboardRepository) Update(moodboard *models.Moodboard) error {
	return r.db.Save(moodboard).Error
}

// Delete soft deletes a moodboard by its ID
func (r *moodboardRepository) Delete(id string) error {
	return r.db.Delete(&models.Moodboard{}, "id = ?", id).Error
}

// SetBooked flips the booked flag on a moodboard
func (r *moodboardRepository) SetBooked(id string, booked bool) error {
	return r.db.Model(&models.Moodboard{}).
		Where("id = ?", id).
		Update("is_booked", booked).Error
}

// AssignModel links a model to a moodboard. Assigning twice is a no-op.
func (r *moodboardRepository) AssignModel(moodboardID, modelID string) error {
	link := models.MoodboardModel{
		MoodboardID: moodboardID,
		ModelID:     modelID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// UnassignModel removes a model from a moodboard
func (r *moodboardRepository) UnassignModel(moodboardID, modelID string) error {
	return r.db.Where("moodboard_id = ? AND model_id = ?", moodboardID, modelID).
		Delete(&models.MoodboardModel{}).Error
}

// SetSimilar curates a similar-moodboard link, updating the score when the
// pair already exists.
func (r *moodboardRepository) SetSimilar(moodboardID, similarID string, score float64) error {
	link := models.SimilarMoodboard{
		MoodboardID:        moodboardID,
		SimilarMoodboardID: similarID,
		SimilarityScore:    score,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "moodboard_id"}, {Name: "similar_moodboard_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"similarity_score"}),
	}).Create(&link).Error
}

// Count returns the total number of moodboards
func (r *moodboardRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Moodboard{}).Count(&count).Error
	return count, err
}

// CountPublished returns the number of published active moodboards
func (r *moodboardRepository) CountPublished() (int64, error) {
	var count int64
	err := r.db.Model(&models.Moodboard{}).
		Where("status = ? AND is_active = ?", models.MoodboardStatusPublished, true).
		Count(&count).Error
	return count, err
}

// Search searches published moodboards by title, liner or style
func (r *moodboardRepository) Search(query string) ([]models.Moodboard, error) {
	var list []models.Moodboard
	searchTerm := "%" + query + "%"
	err := r.db.Preload("Models").
		Where("status = ? AND is_active = ?", models.MoodboardStatusPublished, true).
		Where("title LIKE ? OR liner LIKE ? OR style LIKE ?", searchTerm, searchTerm, searchTerm).
		Order("date ASC").
		Limit(50).
		Find(&list).Error
	return list, err
}
