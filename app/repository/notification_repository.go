package repository

import (
	"github.com/latpategaurav/blu/app/models"
	"gorm.io/gorm"
)

// notificationRepository implements the NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create creates a new notification in the database
func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetByUserID retrieves a user's notifications, newest first
func (r *notificationRepository) GetByUserID(userID string, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// CountUnread returns the number of unread notifications for a user
func (r *notificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one of the user's notifications as read. The user filter
// stops users flipping other people's notifications.
func (r *notificationRepository) MarkRead(id, userID string) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

// MarkAllRead marks all of a user's notifications as read
func (r *notificationRepository) MarkAllRead(userID string) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// Delete soft deletes one of the user's notifications
func (r *notificationRepository) Delete(id, userID string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{}).Error
}
