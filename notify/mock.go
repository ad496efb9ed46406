package notify

import (
	"context"
	"sync"
)

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	mu sync.Mutex

	channel Channel

	// FailKind, when set, makes every Send return a failed outcome of that kind.
	FailKind ErrorKind
	FailMsg  string

	Sent []MockSend
}

// MockSend records one Send call made against a MockNotifier
type MockSend struct {
	Recipient string
	Payload   Payload
}

func NewMockNotifier(channel Channel) *MockNotifier {
	return &MockNotifier{channel: channel}
}

func (m *MockNotifier) Channel() Channel { return m.channel }

func (m *MockNotifier) Send(ctx context.Context, recipient string, p Payload) Outcome {
	m.mu.Lock()
	m.Sent = append(m.Sent, MockSend{Recipient: recipient, Payload: p})
	m.mu.Unlock()

	if m.FailKind != "" {
		msg := m.FailMsg
		if msg == "" {
			msg = "mock failure"
		}
		return failure(m.channel, recipient, m.FailKind, msg)
	}
	return success(m.channel, recipient, "mock-id")
}

// SentCount returns how many sends were attempted (for testing)
func (m *MockNotifier) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Clear resets recorded sends (for testing)
func (m *MockNotifier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = nil
}
