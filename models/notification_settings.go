package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationSettings holds a user's channel toggles and contact endpoints.
// One row per user.
type NotificationSettings struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Email          string `gorm:"type:text"`
	PhoneNumber    string `gorm:"type:text"`
	WhatsAppNumber string `gorm:"column:whatsapp_number;type:text"`

	// No column default on purpose: with one, gorm omits the zero value
	// from INSERTs and an explicit "email off" row comes back enabled.
	// EnsureDefaultSettings sets the default configuration explicitly.
	EmailEnabled    bool `gorm:"column:email_enabled"`
	SMSEnabled      bool `gorm:"column:sms_enabled"`
	WhatsAppEnabled bool `gorm:"column:whatsapp_enabled"`
	PushEnabled     bool `gorm:"column:push_enabled"`

	gorm.Model
}

func (s *NotificationSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
