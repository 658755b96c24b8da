package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikkim/storefront/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	calls atomic.Int32
	err   error
}

func (s *stubCounter) UnreadCount(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 2, s.err
}

func TestRefreshScheduler_RunOnce(t *testing.T) {
	bus := events.NewBus()
	var payloads []interface{}
	bus.Subscribe(events.CartUpdated, func(ev events.Event) {
		payloads = append(payloads, ev.Payload)
	})
	counter := &stubCounter{}

	NewRefreshScheduler("", bus, counter).RunOnce()

	require.Len(t, payloads, 1)
	assert.Nil(t, payloads[0], "subscribers re-fetch the cart")
	assert.Equal(t, int32(1), counter.calls.Load())
}

func TestRefreshScheduler_RunOnce_CountFailure(t *testing.T) {
	bus := events.NewBus()
	counter := &stubCounter{err: errors.New("offline")}

	assert.NotPanics(t, func() {
		NewRefreshScheduler("", bus, counter).RunOnce()
	})
}

func TestRefreshScheduler_RunOnce_NoNotifications(t *testing.T) {
	bus := events.NewBus()
	fired := 0
	bus.Subscribe(events.CartUpdated, func(events.Event) { fired++ })

	NewRefreshScheduler("", bus, nil).RunOnce()
	assert.Equal(t, 1, fired)
}

func TestRefreshScheduler_Start(t *testing.T) {
	bus := events.NewBus()
	counter := &stubCounter{}
	s := NewRefreshScheduler("@every 1s", bus, counter)

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return counter.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestRefreshScheduler_Start_BadSchedule(t *testing.T) {
	s := NewRefreshScheduler("every minute", events.NewBus(), nil)
	assert.Error(t, s.Start())
}
