package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeBooking = "booking"
	NotificationTypePayment = "payment"
	NotificationTypeSystem  = "system"
)

type Notification struct {
	ID                string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	UserID            string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;index" json:"user_id"`
	User              Profile        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title             string         `gorm:"type:varchar(255)" json:"title"`
	Message           string         `gorm:"type:text" json:"message"`
	Type              string         `gorm:"type:varchar(50)" json:"type" validate:"oneof=booking payment system"`
	IsRead            bool           `gorm:"default:false" json:"is_read"`
	RelatedEntityType string         `gorm:"type:varchar(50)" json:"related_entity_type"`
	RelatedEntityID   string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin" json:"related_entity_id"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// MarkAsRead marks a notification as read.
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}

// CreateNotification inserts a new notification row for a user.
func CreateNotification(db *gorm.DB, userID, notificationType, title, message, relatedEntityType, relatedEntityID string) error {
	notification := Notification{
		UserID:            userID,
		Type:              notificationType,
		Title:             title,
		Message:           message,
		RelatedEntityType: relatedEntityType,
		RelatedEntityID:   relatedEntityID,
		IsRead:            false,
	}

	return db.Create(&notification).Error
}
