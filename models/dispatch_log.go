// models/dispatch_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DispatchLog records one channel-send attempt for a reminder instance,
// success or failure, for operator visibility.
type DispatchLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ReminderID uuid.UUID `gorm:"type:uuid;index;not null"`
	DeadlineID uuid.UUID `gorm:"type:uuid;index;not null"`

	Channel      string `gorm:"type:varchar(20)"` // email, sms, whatsapp, push
	Recipient    string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(20)"` // sent, failed
	ProviderID   string `gorm:"type:text"`
	ErrorKind    string `gorm:"type:varchar(20)"` // config, provider, recipient
	ErrorMessage string `gorm:"type:text"`
	SentAt       time.Time

	gorm.Model
}

func (l *DispatchLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID = uuid.New()
	return
}
