// Package store is the single write path for reminder state. The sent flag
// only ever flips through MarkSentIfUnsent, a conditional update, so two
// overlapping ticks cannot both claim the same reminder.
package store

import (
	"errors"
	"fmt"
	"time"

	"aicruel-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReminderStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

// DueCandidate is an unsent reminder instance joined to the fields of its
// deadline that dispatch needs.
type DueCandidate struct {
	ID          uuid.UUID
	DeadlineID  uuid.UUID
	LeadTime    string
	UserID      uuid.UUID
	Title       string
	Description string
	DueDate     time.Time
	Priority    string
	SourceURL   string
}

// ListUnsentReminders loads every unsent instance whose deadline is still
// live and still ahead of now. Sent instances, past-due deadlines, and
// completed or deleted deadlines are filtered at the store so the scheduler
// never re-evaluates them.
func (s *ReminderStore) ListUnsentReminders(now time.Time) ([]DueCandidate, error) {
	var candidates []DueCandidate

	err := s.db.Table("reminder_instances").
		Select(`reminder_instances.id, reminder_instances.deadline_id, reminder_instances.lead_time,
			deadlines.user_id, deadlines.title, deadlines.description, deadlines.due_date,
			deadlines.priority, deadlines.source_url`).
		Joins("JOIN deadlines ON deadlines.id = reminder_instances.deadline_id").
		Where("reminder_instances.sent = ?", false).
		Where("deadlines.due_date >= ?", now).
		Where("deadlines.status <> ?", models.StatusCompleted).
		Where("deadlines.deleted_at IS NULL").
		Scan(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("list unsent reminders: %w", err)
	}

	return candidates, nil
}

// CountExpiredUnsent counts unsent instances whose deadline passed inside
// (since, now]. A zero since counts everything expired to date, which covers
// the first tick after a restart.
func (s *ReminderStore) CountExpiredUnsent(since, now time.Time) (int64, error) {
	q := s.db.Table("reminder_instances").
		Joins("JOIN deadlines ON deadlines.id = reminder_instances.deadline_id").
		Where("reminder_instances.sent = ?", false).
		Where("deadlines.due_date < ?", now).
		Where("deadlines.status <> ?", models.StatusCompleted).
		Where("deadlines.deleted_at IS NULL")
	if !since.IsZero() {
		q = q.Where("deadlines.due_date >= ?", since)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count expired reminders: %w", err)
	}
	return count, nil
}

// MarkSentIfUnsent atomically flips sent false -> true. Returns false with a
// nil error when another tick already won the race; the caller treats that
// as a successful no-op.
func (s *ReminderStore) MarkSentIfUnsent(id uuid.UUID, sentAt time.Time) (bool, error) {
	res := s.db.Model(&models.ReminderInstance{}).
		Where("id = ? AND sent = ?", id, false).
		Updates(map[string]interface{}{"sent": true, "sent_at": sentAt})
	if res.Error != nil {
		return false, fmt.Errorf("mark reminder sent: %w", res.Error)
	}

	return res.RowsAffected == 1, nil
}

// GetSettings returns the user's notification settings, or nil when no row
// exists yet.
func (s *ReminderStore) GetSettings(userID uuid.UUID) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notification settings: %w", err)
	}
	return &settings, nil
}

// EnsureDefaultSettings materializes the default configuration (email on,
// address copied from the user record, every other channel off) for a user
// with no settings row. The insert ignores conflicts so concurrent callers
// converge on one row.
func (s *ReminderStore) EnsureDefaultSettings(userID uuid.UUID) (*models.NotificationSettings, error) {
	var user models.User
	if err := s.db.Select("email").Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("load user for default settings: %w", err)
	}

	settings := models.NotificationSettings{
		UserID:       userID,
		Email:        user.Email,
		EmailEnabled: true,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("create default settings: %w", err)
	}

	// Re-read so a conflict loser returns the winner's row.
	existing, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("default settings for user %s missing after insert", userID)
	}
	return existing, nil
}

// LogOutcome persists one channel-send attempt.
func (s *ReminderStore) LogOutcome(entry *models.DispatchLog) error {
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("log dispatch outcome: %w", err)
	}
	return nil
}

// CreateReminders creates one unsent instance per lead class for a deadline.
// Duplicate (deadline, lead class) pairs are ignored.
func (s *ReminderStore) CreateReminders(deadlineID uuid.UUID, leadTimes []string) error {
	for _, lt := range leadTimes {
		if !models.ValidLeadTime(lt) {
			return fmt.Errorf("unknown lead time class %q", lt)
		}
	}

	for _, lt := range leadTimes {
		instance := models.ReminderInstance{DeadlineID: deadlineID, LeadTime: lt}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "deadline_id"}, {Name: "lead_time"}},
			DoNothing: true,
		}).Create(&instance).Error
		if err != nil {
			return fmt.Errorf("create reminder instance: %w", err)
		}
	}
	return nil
}
