package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/abgdnv/mangahaven/pkg/messaging/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAckableMsg struct {
	mock.Mock
}

func (m *mockAckableMsg) Data() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *mockAckableMsg) Subject() string {
	return "orders.confirmed"
}

func (m *mockAckableMsg) Ack() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAckableMsg) Nak() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAckableMsg) Term() error {
	args := m.Called()
	return args.Error(0)
}

// recordingSender keeps every notice it is given.
type recordingSender struct {
	mu      sync.Mutex
	notices []Notice
	err     error
}

func (s *recordingSender) Send(_ context.Context, n Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.notices = append(s.notices, n)
	return nil
}

func (s *recordingSender) sent() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notice(nil), s.notices...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func validPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := events.OrderConfirmedEvent{
		OrderID:      "1000",
		OrderNumber:  "MH-1000",
		Email:        "ann@example.com",
		CustomerName: "Ann Lee",
		ItemCount:    2,
		Total:        "64.78",
	}.Payload()
	require.NoError(t, err)
	return payload
}

func Test_handleMessage(t *testing.T) {
	tests := []struct {
		name       string
		payload    func(t *testing.T) []byte
		sendErr    error
		setupMock  func(m *mockAckableMsg)
		wantNotice bool
	}{
		{
			name:    "valid payload is acked",
			payload: validPayload,
			setupMock: func(m *mockAckableMsg) {
				m.On("Ack").Return(nil).Once()
			},
			wantNotice: true,
		},
		{
			name:    "invalid payload is terminated",
			payload: func(*testing.T) []byte { return []byte("invalid payload") },
			setupMock: func(m *mockAckableMsg) {
				m.On("Term").Return(nil).Once()
			},
		},
		{
			name:    "term failure is only logged",
			payload: func(*testing.T) []byte { return []byte("{") },
			setupMock: func(m *mockAckableMsg) {
				m.On("Term").Return(errors.New("nats: connection closed")).Once()
			},
		},
		{
			name:    "send failure is nacked",
			payload: validPayload,
			sendErr: errors.New("smtp: connection refused"),
			setupMock: func(m *mockAckableMsg) {
				m.On("Nak").Return(nil).Once()
			},
		},
		{
			name:    "ack failure is only logged",
			payload: validPayload,
			setupMock: func(m *mockAckableMsg) {
				m.On("Ack").Return(errors.New("nats: connection closed")).Once()
			},
			wantNotice: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			msg := new(mockAckableMsg)
			msg.On("Data").Return(tt.payload(t))
			tt.setupMock(msg)
			sender := &recordingSender{err: tt.sendErr}

			// when
			handleMessage(context.Background(), msg, sender, discardLogger())

			// then
			msg.AssertExpectations(t)
			if tt.wantNotice {
				require.Len(t, sender.sent(), 1)
				assert.Equal(t, "MH-1000", sender.sent()[0].OrderNumber)
				assert.Equal(t, 2, sender.sent()[0].ItemCount)
			} else {
				assert.Empty(t, sender.sent())
			}
		})
	}
}
