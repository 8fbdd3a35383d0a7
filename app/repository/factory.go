package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetProfileRepository returns the profile repository instance
func (f *Factory) GetProfileRepository() ProfileRepository {
	return f.GetRepositories().Profile
}

// GetModelRepository returns the model repository instance
func (f *Factory) GetModelRepository() ModelRepository {
	return f.GetRepositories().Model
}

// GetMoodboardRepository returns the moodboard repository instance
func (f *Factory) GetMoodboardRepository() MoodboardRepository {
	return f.GetRepositories().Moodboard
}

// GetBookingRepository returns the booking repository instance
func (f *Factory) GetBookingRepository() BookingRepository {
	return f.GetRepositories().Booking
}

// GetPaymentRepository returns the payment repository instance
func (f *Factory) GetPaymentRepository() PaymentRepository {
	return f.GetRepositories().Payment
}

// GetNotificationRepository returns the notification repository instance
func (f *Factory) GetNotificationRepository() NotificationRepository {
	return f.GetRepositories().Notification
}

// GetSettingRepository returns the setting repository instance
func (f *Factory) GetSettingRepository() SettingRepository {
	return f.GetRepositories().Setting
}

// GetCacheRepository returns the cache repository instance
func (f *Factory) GetCacheRepository() CacheRepository {
	return f.GetRepositories().Cache
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
