package repository

import (
	"time"

	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile-related database operations
type ProfileRepository interface {
	Create(profile *models.Profile) error
	GetByID(id string) (*models.Profile, error)
	GetByPhone(phone string) (*models.Profile, error)
	GetByEmail(email string) (*models.Profile, error)
	GetOrCreateByPhone(phone string) (*models.Profile, bool, error)
	Update(profile *models.Profile) error
	Delete(id string) error
	List(offset, limit int) ([]models.Profile, error)
	Count() (int64, error)
	CountByRole(role string) (int64, error)
	Search(query string) ([]models.Profile, error)
}

// ModelRepository defines the interface for model-related database operations
type ModelRepository interface {
	Create(model *models.Model) error
	GetByID(id string) (*models.Model, error)
	GetActive(offset, limit int) ([]models.Model, error)
	GetAll(offset, limit int) ([]models.Model, error)
	GetByMoodboardID(moodboardID string) ([]models.Model, error)
	Update(model *models.Model) error
	Delete(id string) error
	Count() (int64, error)
	Search(query string) ([]models.Model, error)
}

// MoodboardRepository defines the interface for moodboard-related database operations
type MoodboardRepository interface {
	Create(moodboard *models.Moodboard) error
	GetByID(id string) (*models.Moodboard, error)
	GetByDate(date time.Time) (*models.Moodboard, error)
	GetByDateRange(from, to time.Time) ([]models.Moodboard, error)
	GetPublished(offset, limit int) ([]models.Moodboard, error)
	GetAll(offset, limit int) ([]models.Moodboard, error)
	GetSimilar(moodboardID string, limit int) ([]models.Moodboard, error)
	Update(moodboard *models.Moodboard) error
	Delete(id string) error
	SetBooked(id string, booked bool) error
	AssignModel(moodboardID, modelID string) error
	UnassignModel(moodboardID, modelID string) error
	SetSimilar(moodboardID, similarID string, score float64) error
	Count() (int64, error)
	CountPublished() (int64, error)
	Search(query string) ([]models.Moodboard, error)
}

// BookingRepository defines the interface for booking-related database operations
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByClientID(clientID string, offset, limit int) ([]models.Booking, error)
	GetAll(offset, limit int) ([]models.Booking, error)
	HasActiveForMoodboard(moodboardID string) (bool, error)
	Update(booking *models.Booking) error
	Cancel(id string) error
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	GetDailyStats(startDate, endDate time.Time) ([]BookingDailyStats, error)
}

// PaymentRepository defines the interface for payment-related database operations
type PaymentRepository interface {
	GetByID(id string) (*models.Payment, error)
	GetByBookingID(bookingID string) ([]models.Payment, error)
	GetRecent(offset, limit int) ([]models.Payment, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	SumCompleted() (int64, error)
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByUserID(userID string, offset, limit int) ([]models.Notification, error)
	CountUnread(userID string) (int64, error)
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error
	Delete(id, userID string) error
}

// SettingRepository defines the interface for application settings
type SettingRepository interface {
	GetAll() ([]models.Setting, error)
	GetValue(key string) (string, error)
	SetValue(key, value string) error
}

// CacheRepository defines the interface for cache inspection operations
type CacheRepository interface {
	GetAllKeys() ([]string, error)
	GetValue(key string) (string, error)
	GetTTL(key string) (time.Duration, error)
	DeleteKey(key string) (int64, error)
	FindKeysByPatterns(patterns []string) ([]string, error)
	DeleteKeys(keys []string) (int64, error)
}

// BookingDailyStats aggregates bookings and revenue per calendar day for the
// admin dashboard chart.
type BookingDailyStats struct {
	Date     string `json:"date"`
	Bookings int64  `json:"bookings"`
	Revenue  int64  `json:"revenue"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	Profile      ProfileRepository
	Model        ModelRepository
	Moodboard    MoodboardRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	Notification NotificationRepository
	Setting      SettingRepository
	Cache        CacheRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Profile:      NewProfileRepository(db),
		Model:        NewModelRepository(db),
		Moodboard:    NewMoodboardRepository(db),
		Booking:      NewBookingRepository(db),
		Payment:      NewPaymentRepository(db),
		Notification: NewNotificationRepository(db),
		Setting:      NewSettingRepository(db),
		Cache:        NewCacheRepository(),
	}
}
