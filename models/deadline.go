package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority levels, lowest to highest.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue" // derived, never stored
)

type Deadline struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Title          string    `gorm:"type:varchar(255);not null"`
	Description    string    `gorm:"type:text"`
	DueDate        time.Time `gorm:"not null"`
	Priority       string    `gorm:"type:varchar(50);default:medium"`
	Status         string    `gorm:"type:varchar(50);default:pending"`
	SourceURL      string    `gorm:"type:varchar(500)"`
	Tags           string    `gorm:"type:text"`
	EstimatedHours float64   `gorm:"type:decimal(5,2)"`

	Reminders []ReminderInstance `gorm:"foreignKey:DeadlineID;constraint:OnDelete:CASCADE"`

	gorm.Model
}

func (d *Deadline) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// EffectiveStatus derives "overdue" for uncompleted deadlines whose due date
// has passed. The stored status is never rewritten by the scheduler.
func (d *Deadline) EffectiveStatus(now time.Time) string {
	if d.Status != StatusCompleted && d.DueDate.Before(now) {
		return StatusOverdue
	}
	return d.Status
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
