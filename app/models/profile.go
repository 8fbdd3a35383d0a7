package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_CLIENT = "client"
	ROLE_ADMIN  = "admin"
)

// Profile stores user data beyond what the identity provider keeps. The ID is
// the opaque authenticated-user-id issued at sign-in and is referenced by
// bookings and notifications.
type Profile struct {
	ID           string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	PhoneNumber  string         `gorm:"type:varchar(20);uniqueIndex" json:"phone_number" validate:"omitempty,e164"`
	Email        string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email,max=200"`
	Name         string         `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	BrandName    string         `gorm:"type:varchar(150)" json:"brand_name" validate:"max=150"`
	Role         string         `gorm:"type:varchar(50);default:'client'" json:"role" validate:"oneof=client admin"`
	PasswordHash string         `gorm:"type:text" json:"-"` // admin accounts only, clients sign in via OTP
	AvatarURL    string         `gorm:"type:varchar(255)" json:"avatar_url" validate:"max=255"`
	Bio          string         `gorm:"type:text" json:"bio" validate:"max=1000"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Profile) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// BeforeCreate assigns an ID when the identity provider did not supply one.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (p *Profile) IsAdmin() bool {
	return p.Role == ROLE_ADMIN
}

// CheckPassword compares a plaintext password against the stored hash.
func (p *Profile) CheckPassword(password string) bool {
	if p.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}
