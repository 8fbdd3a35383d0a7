package repository

import (
	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetAll retrieves all settings ordered by key
func (r *settingRepository) GetAll() ([]models.Setting, error) {
	var settings []models.Setting
	err := r.db.Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

// GetValue retrieves a specific setting value by key
func (r *settingRepository) GetValue(key string) (string, error) {
	var setting models.Setting
	// Column is `setting_key` (see gorm tag in models.Setting)
	err := r.db.Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil // Return empty string for non-existent settings
		}
		return "", err
	}
	return setting.Value, nil
}

// SetValue sets a specific setting value by key
func (r *settingRepository) SetValue(key, value string) error {
	var setting models.Setting
	err := r.db.Where("setting_key = ?", key).First(&setting).Error

	if err == gorm.ErrRecordNotFound {
		setting = models.Setting{
			Key:   key,
			Value: value,
		}
		return r.db.Create(&setting).Error
	} else if err != nil {
		return err
	}

	setting.Value = value
	return r.db.Save(&setting).Error
}
