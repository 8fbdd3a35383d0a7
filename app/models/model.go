package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is an individual model available for booking. Models are created and
// managed exclusively by admins.
type Model struct {
	ID              string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	Name            string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email           string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Phone           string         `gorm:"type:varchar(20)" json:"phone"`
	Bio             string         `gorm:"type:text" json:"bio"`
	OneLiner        string         `gorm:"type:varchar(255)" json:"one_liner" validate:"max=255"`
	Height          string         `gorm:"type:varchar(20)" json:"height"`
	Bust            string         `gorm:"type:varchar(20)" json:"bust"`
	Waist           string         `gorm:"type:varchar(20)" json:"waist"`
	Hips            string         `gorm:"type:varchar(20)" json:"hips"`
	ShoeSize        string         `gorm:"type:varchar(20)" json:"shoe_size"`
	HairColor       string         `gorm:"type:varchar(50)" json:"hair_color"`
	EyeColor        string         `gorm:"type:varchar(50)" json:"eye_color"`
	ExperienceLevel string         `gorm:"type:varchar(50)" json:"experience_level"`
	RatePerDay      int64          `gorm:"type:bigint;default:0" json:"rate_per_day" validate:"gte=0"`
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`
	ProfileImage    string         `gorm:"type:varchar(255)" json:"profile_image"`
	PortfolioImages StringList     `gorm:"type:json" json:"portfolio_images"`
	Moodboards      []Moodboard    `gorm:"many2many:moodboard_models;" json:"moodboards,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Model) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
