package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"

	PaymentTypeDeposit = "deposit"
	PaymentTypeFull    = "full"
	PaymentTypeRefund  = "refund"
)

// Payment records one payment attempt against a booking, keyed by the
// gateway-assigned order id. A payment transitions pending -> completed or
// pending -> failed exactly once; rows are never deleted.
type Payment struct {
	ID                string     `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	BookingID         string     `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;not null;index" json:"booking_id"`
	Booking           Booking    `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Amount            int64      `gorm:"type:bigint;not null" json:"amount"`
	PaymentType       string     `gorm:"type:varchar(20);default:'deposit'" json:"payment_type"`
	RazorpayOrderID   string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"razorpay_order_id"`
	RazorpayPaymentID string     `gorm:"type:varchar(100)" json:"razorpay_payment_id"`
	RazorpaySignature string     `gorm:"type:varchar(255)" json:"-"`
	TransactionID     string     `gorm:"type:varchar(100)" json:"transaction_id"`
	Status            string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentDate       *time.Time `gorm:"type:timestamp;default:null" json:"payment_date,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// IsTerminal reports whether the payment already reached a final state.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}
