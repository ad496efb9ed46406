// Package notify contains one dispatcher per outbound channel. Every
// dispatcher takes the same payload and normalizes its provider's result
// into an Outcome; the scheduler never sees provider-specific errors.
package notify

import (
	"context"
	"strings"
	"time"

	"aicruel-backend/utils"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPush     Channel = "push"
)

// ErrorKind classifies a failed dispatch so the scheduler can tell a bad
// recipient (never retry) from a provider hiccup (retry next tick) from
// missing credentials (channel is down this tick).
type ErrorKind string

const (
	ErrorKindConfig    ErrorKind = "config"
	ErrorKindProvider  ErrorKind = "provider"
	ErrorKindRecipient ErrorKind = "recipient"
)

// Payload is the rendered reminder content shared by all channels.
type Payload struct {
	Title       string
	Description string
	DueAt       time.Time
	TimeUntil   time.Duration
	Priority    string
	SourceURL   string
}

// TimeStr phrases the remaining time ("in 3 days", "in 2 hours", "soon").
func (p Payload) TimeStr() string {
	return utils.HumanizeTimeUntil(p.TimeUntil)
}

// PriorityStr renders priority upper-case for message bodies.
func (p Payload) PriorityStr() string {
	return strings.ToUpper(p.Priority)
}

// Outcome summarizes a single channel-send attempt. It carries no clock
// reading of its own; the tick that triggered the send owns the timestamp.
type Outcome struct {
	Channel      Channel
	Recipient    string
	Success      bool
	ProviderID   string
	ErrorKind    ErrorKind
	ErrorMessage string
}

// Notifier is implemented once per channel.
type Notifier interface {
	Channel() Channel
	Send(ctx context.Context, recipient string, payload Payload) Outcome
}

func success(ch Channel, recipient, providerID string) Outcome {
	return Outcome{
		Channel:    ch,
		Recipient:  recipient,
		Success:    true,
		ProviderID: providerID,
	}
}

func failure(ch Channel, recipient string, kind ErrorKind, msg string) Outcome {
	return Outcome{
		Channel:      ch,
		Recipient:    recipient,
		ErrorKind:    kind,
		ErrorMessage: msg,
	}
}
