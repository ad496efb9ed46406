package services

import (
	"errors"
	"fmt"
	"time"

	"aicruel-backend/models"
)

// ErrUnknownLeadTime is returned for lead classes outside the fixed catalog.
// Evaluation fails closed rather than treating them as never-due.
var ErrUnknownLeadTime = errors.New("unknown lead time class")

var leadDurations = map[string]time.Duration{
	models.Lead1Hour:  time.Hour,
	models.Lead1Day:   24 * time.Hour,
	models.Lead1Week:  7 * 24 * time.Hour,
	models.Lead2Weeks: 14 * 24 * time.Hour,
	models.Lead1Month: 30 * 24 * time.Hour,
}

// LeadDuration maps a lead class to its offset before the due date.
func LeadDuration(leadTime string) (time.Duration, bool) {
	d, ok := leadDurations[leadTime]
	return d, ok
}

// WindowEvaluator decides whether a reminder has entered its firing window.
// Tolerance must be at least the polling interval so a reminder cannot fall
// between two consecutive ticks.
type WindowEvaluator struct {
	Tolerance time.Duration
}

func NewWindowEvaluator(tolerance time.Duration) *WindowEvaluator {
	return &WindowEvaluator{Tolerance: tolerance}
}

// IsDue reports whether a reminder with the given lead class should fire
// now for a deadline due at dueAt. A deadline already in the past is never
// due: the negative remaining time could otherwise land inside the
// tolerance band of a short lead class.
func (w *WindowEvaluator) IsDue(now, dueAt time.Time, leadTime string) (bool, error) {
	lead, ok := leadDurations[leadTime]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownLeadTime, leadTime)
	}

	until := dueAt.Sub(now)
	if until < 0 {
		return false, nil
	}

	diff := until - lead
	if diff < 0 {
		diff = -diff
	}
	return diff <= w.Tolerance, nil
}
