package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fixed catalog of lead-time classes a reminder can fire at.
const (
	Lead1Hour  = "1_hour"
	Lead1Day   = "1_day"
	Lead1Week  = "1_week"
	Lead2Weeks = "2_weeks"
	Lead1Month = "1_month"
)

// LeadTimes lists the catalog in firing order, soonest first.
var LeadTimes = []string{Lead1Hour, Lead1Day, Lead1Week, Lead2Weeks, Lead1Month}

// DefaultLeadTimes are created for a deadline when the caller picks none.
var DefaultLeadTimes = []string{Lead1Hour, Lead1Day}

func ValidLeadTime(lt string) bool {
	for _, known := range LeadTimes {
		if lt == known {
			return true
		}
	}
	return false
}

// ReminderInstance is the unit the scheduler acts on: one row per deadline
// per lead-time class. Only Sent and SentAt ever change after creation, and
// Sent flips false -> true at most once.
type ReminderInstance struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	DeadlineID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_deadline_lead,priority:1"`
	LeadTime   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_deadline_lead,priority:2"`
	Sent       bool      `gorm:"default:false;index"`
	SentAt     *time.Time
	CreatedAt  time.Time
}

func (r *ReminderInstance) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
