package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Setting is a global key/value setting managed by admins.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"column:setting_key;size:255;not null;uniqueIndex" json:"key" validate:"required,min=1,max=255"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"type:varchar(500)" json:"description" validate:"max=500"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Setting) Validate() error {
	v := validator.New()

	return v.Struct(s)
}
