package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestConsumer(handler JobHandler) *Consumer {
	return &Consumer{handler: handler, logger: zap.NewNop()}
}

func TestConsumer_Process(t *testing.T) {
	var seen []int
	ok := newTestConsumer(func(ctx context.Context, job *LifetimeValueJob) error {
		seen = append(seen, job.CustomerID)
		return nil
	})

	assert.Equal(t, outcomeAck, ok.process(context.Background(), []byte(`{"customer_id":12}`)))
	assert.Equal(t, []int{12}, seen)

	assert.Equal(t, outcomeDrop, ok.process(context.Background(), []byte(`not json`)))
	assert.Equal(t, outcomeDrop, ok.process(context.Background(), []byte(`{"customer_id":0}`)))
	assert.Equal(t, []int{12}, seen)

	failing := newTestConsumer(func(ctx context.Context, job *LifetimeValueJob) error {
		return errors.New("database unavailable")
	})
	assert.Equal(t, outcomeRetry, failing.process(context.Background(), []byte(`{"customer_id":3}`)))
}

func TestNewConsumer_Validation(t *testing.T) {
	handler := func(ctx context.Context, job *LifetimeValueJob) error { return nil }

	_, err := NewConsumer(nil, "q", handler, nil)
	assert.Error(t, err)

	_, err = NewConsumer(&Connection{}, "", handler, nil)
	assert.Error(t, err)

	_, err = NewConsumer(&Connection{}, "q", nil, nil)
	assert.Error(t, err)
}

func TestNewPublisher_Validation(t *testing.T) {
	_, err := NewPublisher(nil, "q")
	assert.Error(t, err)

	_, err = NewPublisher(&Connection{}, "")
	assert.Error(t, err)
}

func TestNewConnection_EmptyURL(t *testing.T) {
	_, err := NewConnection("", nil)
	assert.Error(t, err)
}
