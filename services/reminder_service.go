// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"aicruel-backend/models"
	"aicruel-backend/notify"
	"aicruel-backend/store"
)

// ReminderService runs the dispatch loop: each tick it loads unsent
// reminders, filters them through the window evaluator, fans out to the
// user's enabled channels, and commits the sent flag only after at least
// one channel succeeded.
type ReminderService struct {
	store           *store.ReminderStore
	window          *WindowEvaluator
	notifiers       map[notify.Channel]notify.Notifier
	workers         int
	dispatchTimeout time.Duration

	mu sync.Mutex
	// lastExpiryScan marks how far expiry reporting has advanced, so each
	// missed deadline is reported once, not on every subsequent tick.
	lastExpiryScan time.Time
}

func NewReminderService(st *store.ReminderStore, window *WindowEvaluator, notifiers []notify.Notifier, workers int, dispatchTimeout time.Duration) *ReminderService {
	byChannel := make(map[notify.Channel]notify.Notifier, len(notifiers))
	for _, n := range notifiers {
		byChannel[n.Channel()] = n
	}
	if workers < 1 {
		workers = 1
	}
	if dispatchTimeout <= 0 {
		dispatchTimeout = 10 * time.Second
	}
	return &ReminderService{
		store:           st,
		window:          window,
		notifiers:       byChannel,
		workers:         workers,
		dispatchTimeout: dispatchTimeout,
	}
}

// TickReport summarizes one polling tick.
type TickReport struct {
	Evaluated int
	Due       int
	Sent      int
	Failed    int
	Skipped   int
	Expired   int
}

type candidateResult int

const (
	resultSent candidateResult = iota
	resultSkipped
	resultFailed
)

// RunTick executes one bounded unit of scheduling work. A store read
// failure aborts the whole tick before any write; dispatch failures are
// recorded per instance and never escape.
func (s *ReminderService) RunTick(ctx context.Context, now time.Time) (TickReport, error) {
	var report TickReport

	candidates, err := s.store.ListUnsentReminders(now)
	if err != nil {
		return report, fmt.Errorf("run tick: %w", err)
	}
	report.Evaluated = len(candidates)

	s.mu.Lock()
	since := s.lastExpiryScan
	s.mu.Unlock()

	expired, err := s.store.CountExpiredUnsent(since, now)
	if err != nil {
		return report, fmt.Errorf("run tick: %w", err)
	}
	// Advance the scan position only after a successful count so a
	// transient store error cannot swallow a miss.
	s.mu.Lock()
	if now.After(s.lastExpiryScan) {
		s.lastExpiryScan = now
	}
	s.mu.Unlock()
	report.Expired = int(expired)
	if expired > 0 {
		log.Printf("ALERT: %d reminder(s) missed their deadline without any channel firing", expired)
	}

	var due []store.DueCandidate
	for _, c := range candidates {
		isDue, err := s.window.IsDue(now, c.DueDate, c.LeadTime)
		if err != nil {
			report.Failed++
			log.Printf("Reminder %s rejected: %v", c.ID, err)
			continue
		}
		if isDue {
			due = append(due, c)
		}
	}
	report.Due = len(due)

	// Instances are independent; dispatch them on a bounded pool. The
	// conditional sent-flag update keeps overlap safe regardless.
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.workers)
	)
	for _, c := range due {
		wg.Add(1)
		sem <- struct{}{}
		go func(c store.DueCandidate) {
			defer wg.Done()
			defer func() { <-sem }()

			result := s.processCandidate(ctx, now, c)

			mu.Lock()
			switch result {
			case resultSent:
				report.Sent++
			case resultSkipped:
				report.Skipped++
			case resultFailed:
				report.Failed++
			}
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	return report, nil
}

func (s *ReminderService) processCandidate(ctx context.Context, now time.Time, c store.DueCandidate) candidateResult {
	settings, err := s.store.GetSettings(c.UserID)
	if err != nil {
		log.Printf("Reminder %s: failed to resolve settings: %v", c.ID, err)
		return resultFailed
	}
	if settings == nil {
		settings, err = s.store.EnsureDefaultSettings(c.UserID)
		if err != nil {
			log.Printf("Reminder %s: failed to materialize default settings: %v", c.ID, err)
			return resultFailed
		}
	}

	targets := enabledTargets(settings)
	if len(targets) == 0 {
		log.Printf("Reminder %s: no channels enabled for user %s, skipping", c.ID, c.UserID)
		return resultSkipped
	}

	payload := notify.Payload{
		Title:       c.Title,
		Description: c.Description,
		DueAt:       c.DueDate,
		TimeUntil:   c.DueDate.Sub(now),
		Priority:    c.Priority,
		SourceURL:   c.SourceURL,
	}

	anySuccess := false
	for _, t := range targets {
		notifier, ok := s.notifiers[t.channel]
		if !ok {
			log.Printf("Reminder %s: no dispatcher registered for channel %s", c.ID, t.channel)
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
		outcome := notifier.Send(callCtx, t.recipient, payload)
		cancel()

		s.recordOutcome(now, c, outcome)

		if outcome.Success {
			anySuccess = true
		} else {
			log.Printf("Reminder %s: %s dispatch to %s failed (%s): %s",
				c.ID, outcome.Channel, outcome.Recipient, outcome.ErrorKind, outcome.ErrorMessage)
		}
	}

	if !anySuccess {
		// Remains unsent; the next tick retries, which bounds retry
		// frequency to the polling interval.
		return resultFailed
	}

	won, err := s.store.MarkSentIfUnsent(c.ID, now)
	if err != nil {
		log.Printf("Reminder %s: dispatched but sent flag not committed: %v", c.ID, err)
		return resultFailed
	}
	if !won {
		// A concurrent tick already marked it. Successful no-op.
		log.Printf("Reminder %s: already marked sent by a concurrent tick", c.ID)
		return resultSkipped
	}
	return resultSent
}

type dispatchTarget struct {
	channel   notify.Channel
	recipient string
}

// enabledTargets expands settings into (channel, recipient) pairs. An
// enabled channel with a blank endpoint still yields a target; the
// dispatcher reports the malformed recipient as a failed outcome.
func enabledTargets(settings *models.NotificationSettings) []dispatchTarget {
	var targets []dispatchTarget
	if settings.EmailEnabled {
		targets = append(targets, dispatchTarget{notify.ChannelEmail, settings.Email})
	}
	if settings.SMSEnabled {
		targets = append(targets, dispatchTarget{notify.ChannelSMS, settings.PhoneNumber})
	}
	if settings.WhatsAppEnabled {
		number := settings.WhatsAppNumber
		if number == "" {
			number = settings.PhoneNumber
		}
		targets = append(targets, dispatchTarget{notify.ChannelWhatsApp, number})
	}
	if settings.PushEnabled {
		targets = append(targets, dispatchTarget{notify.ChannelPush, settings.UserID.String()})
	}
	return targets
}

// recordOutcome persists one attempt, stamped with the tick clock so logs
// stay deterministic under an injected clock.
func (s *ReminderService) recordOutcome(now time.Time, c store.DueCandidate, outcome notify.Outcome) {
	status := "failed"
	if outcome.Success {
		status = "sent"
	}
	entry := &models.DispatchLog{
		ReminderID:   c.ID,
		DeadlineID:   c.DeadlineID,
		Channel:      string(outcome.Channel),
		Recipient:    outcome.Recipient,
		Status:       status,
		ProviderID:   outcome.ProviderID,
		ErrorKind:    string(outcome.ErrorKind),
		ErrorMessage: outcome.ErrorMessage,
		SentAt:       now,
	}
	if err := s.store.LogOutcome(entry); err != nil {
		log.Printf("Reminder %s: failed to log %s outcome: %v", c.ID, outcome.Channel, err)
	}
}
