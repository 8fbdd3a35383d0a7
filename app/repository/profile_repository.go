package repository

import (
	"errors"

	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create creates a new profile in the database
func (r *profileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// GetByID retrieves a profile by its ID
func (r *profileRepository) GetByID(id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByPhone retrieves a profile by its phone number
func (r *profileRepository) GetByPhone(phone string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("phone_number = ?", phone).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByEmail retrieves a profile by its email address
func (r *profileRepository) GetByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("email = ?", email).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreateByPhone loads the profile for a phone number, creating a fresh
// client profile on first sign-in. The boolean reports whether a new profile
// was created.
func (r *profileRepository) GetOrCreateByPhone(phone string) (*models.Profile, bool, error) {
	profile, err := r.GetByPhone(phone)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fresh := &models.Profile{
		PhoneNumber: phone,
		Role:        models.ROLE_CLIENT,
	}
	if err := r.db.Create(fresh).Error; err != nil {
		// A concurrent first sign-in may have won the unique index race.
		if existing, lookupErr := r.GetByPhone(phone); lookupErr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	return fresh, true, nil
}

// Update updates an existing profile in the database
func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// Delete soft deletes a profile by its ID
func (r *profileRepository) Delete(id string) error {
	return r.db.Delete(&models.Profile{}, "id = ?", id).Error
}

// List retrieves profiles with pagination
func (r *profileRepository) List(offset, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Offset(offset).Limit(limit).
		Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

// Count returns the total number of profiles
func (r *profileRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Count(&count).Error
	return count, err
}

// CountByRole returns the number of profiles with a given role
func (r *profileRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// Search searches profiles by name, phone number or email
func (r *profileRepository) Search(query string) ([]models.Profile, error) {
	var profiles []models.Profile
	searchTerm := "%" + query + "%"
	err := r.db.Where("name LIKE ? OR phone_number LIKE ? OR email LIKE ?",
		searchTerm, searchTerm, searchTerm).
		Order("created_at DESC").
		Limit(50).
		Find(&profiles).Error
	return profiles, err
}
