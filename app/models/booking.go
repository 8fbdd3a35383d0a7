package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking records a client's intent to book a moodboard+model combination on
// a calendar date. Amounts are whole rupees. A booking is never hard-deleted:
// cancellation is a status transition.
type Booking struct {
	ID            string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	ClientID      string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;not null;index" json:"client_id"`
	Client        Profile        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ModelID       string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;index" json:"model_id"`
	Model         Model          `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	MoodboardID   string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;index" json:"moodboard_id"`
	Moodboard     Moodboard      `gorm:"foreignKey:MoodboardID" json:"moodboard,omitempty"`
	BookingDate   time.Time      `gorm:"type:date;not null;index" json:"booking_date"`
	ProductCount  int            `gorm:"type:int;default:1" json:"product_count" validate:"gte=1"`
	Location      string         `gorm:"type:varchar(255)" json:"location"`
	Requirements  string         `gorm:"type:text" json:"requirements"`
	Status        string         `gorm:"type:varchar(20);default:'pending';index" json:"status" validate:"oneof=pending confirmed completed cancelled"`
	TotalAmount   int64          `gorm:"type:bigint;not null" json:"total_amount" validate:"gt=0"`
	DepositAmount int64          `gorm:"type:bigint;not null" json:"deposit_amount" validate:"gte=0"`
	AmountPaid    int64          `gorm:"type:bigint;default:0" json:"amount_paid"`
	DepositPaid   bool           `gorm:"default:false" json:"deposit_paid"`
	Notes         string         `gorm:"type:text" json:"notes"`
	Payments      []Payment      `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Booking) Validate() error {
	v := validator.New()

	return v.Struct(b)
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// IsPayable reports whether a deposit order may still be created for this
// booking.
func (b *Booking) IsPayable() bool {
	return !b.DepositPaid && b.Status != BookingStatusCancelled
}
