package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type AcknowledgerMock struct {
	mock.Mock
}

func (m *AcknowledgerMock) Ack(tag uint64, multiple bool) error {
	return m.Called(tag, multiple).Error(0)
}

func (m *AcknowledgerMock) Nack(tag uint64, multiple, requeue bool) error {
	return m.Called(tag, multiple, requeue).Error(0)
}

func (m *AcknowledgerMock) Reject(tag uint64, requeue bool) error {
	return m.Called(tag, requeue).Error(0)
}

func TestNotificationQueues(t *testing.T) {
	queues := NotificationQueues()
	require.NotEmpty(t, queues)

	seen := map[string]bool{}
	for _, q := range queues {
		assert.Falsef(t, seen[q.QueueName], "duplicate queue name: %s", q.QueueName)
		seen[q.QueueName] = true
	}
	assert.Equal(t, RoutingExpiring, queues[0].RoutingKey)
}

func TestSettle(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		handlerErr error
		setup      func(a *AcknowledgerMock)
	}{
		{
			name:  "success acks",
			setup: func(a *AcknowledgerMock) { a.On("Ack", uint64(7), false).Return(nil).Once() },
		},
		{
			name:       "transient failure requeues",
			handlerErr: errors.New("smtp timeout"),
			setup:      func(a *AcknowledgerMock) { a.On("Nack", uint64(7), false, true).Return(nil).Once() },
		},
		{
			name:       "rejected message is dropped",
			handlerErr: fmt.Errorf("decode notice: %w", ErrReject),
			setup:      func(a *AcknowledgerMock) { a.On("Nack", uint64(7), false, false).Return(nil).Once() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := new(AcknowledgerMock)
			tt.setup(ack)

			var got []byte
			d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte(`{"id":1}`)}
			settle(context.Background(), d, log, func(_ context.Context, body []byte) error {
				got = body
				return tt.handlerErr
			})

			assert.Equal(t, d.Body, got)
			ack.AssertExpectations(t)
		})
	}
}
