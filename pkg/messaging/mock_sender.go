package messaging

import (
	"context"
	"sync"
)

// MockMessageSender records messages instead of sending them. For testing.
type MockMessageSender struct {
	mu   sync.Mutex
	sent []*DoneMessage
}

// NewMockMessageSender creates a new MockMessageSender.
func NewMockMessageSender() *MockMessageSender {
	return &MockMessageSender{}
}

// SendDoneMessage records the message.
func (m *MockMessageSender) SendDoneMessage(_ context.Context, done *DoneMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, done)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockMessageSender) Sent() []*DoneMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*DoneMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Close does nothing.
func (m *MockMessageSender) Close() error {
	return nil
}

// Ensure MockMessageSender implements MessageSender
var _ MessageSender = (*MockMessageSender)(nil)
