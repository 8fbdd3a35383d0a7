package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MoodboardStatusDraft     = "draft"
	MoodboardStatusPublished = "published"
)

// Moodboard is a themed photo-shoot listing, bookable for one calendar date.
type Moodboard struct {
	ID           string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=2,max=255"`
	Description  string         `gorm:"type:text" json:"description"`
	Liner        string         `gorm:"type:varchar(255)" json:"liner" validate:"max=255"`
	Date         *time.Time     `gorm:"type:date;index" json:"date"` // the calendar day this shoot runs on
	DayNumber    int            `gorm:"type:int;default:0;index" json:"day_number"`
	WeekNumber   int            `gorm:"type:int;default:0" json:"week_number"`
	IsBooked     bool           `gorm:"default:false" json:"is_booked"`
	MainImage    string         `gorm:"type:varchar(255)" json:"main_image"`
	Images       StringList     `gorm:"type:json" json:"images"`
	Tags         StringList     `gorm:"type:json" json:"tags"`
	Style        string         `gorm:"type:varchar(100)" json:"style"`
	ColorPalette StringList     `gorm:"type:json" json:"color_palette"`
	BookingPrice int64          `gorm:"type:bigint;default:0" json:"booking_price" validate:"gte=0"`
	Status       string         `gorm:"type:varchar(20);default:'draft';index" json:"status" validate:"oneof=draft published"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	CreatedBy    string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;index" json:"created_by"`
	Models       []Model        `gorm:"many2many:moodboard_models;" json:"models,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Moodboard) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

func (m *Moodboard) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// MoodboardModel links moodboards with their bookable models (many-to-many).
type MoodboardModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MoodboardID string    `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;not null;index:ux_moodboard_model,unique,priority:1" json:"moodboard_id"`
	ModelID     string    `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;not null;index:ux_moodboard_model,unique,priority:2" json:"model_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SimilarMoodboard links a moodboard to related moodboards used for the
// "Similar Shoots" section.
type SimilarMoodboard struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	MoodboardID        string    `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;not null;index:ux_similar_moodboard,unique,priority:1" json:"moodboard_id"`
	SimilarMoodboardID string    `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;not null;index:ux_similar_moodboard,unique,priority:2" json:"similar_moodboard_id"`
	SimilarityScore    float64   `gorm:"type:decimal(4,3);default:0" json:"similarity_score"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}
