package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(CartUpdated, func(Event) { got = append(got, "badge") })
	bus.Subscribe(CartUpdated, func(Event) { got = append(got, "gate") })
	bus.Subscribe(UnreadCountChanged, func(Event) { got = append(got, "other") })

	bus.Publish(CartUpdated, nil)

	assert.Equal(t, []string{"badge", "gate"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0

	unsubscribe := bus.Subscribe(CartUpdated, func(Event) { calls++ })
	bus.Publish(CartUpdated, nil)
	unsubscribe()
	unsubscribe()
	bus.Publish(CartUpdated, nil)

	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.Subscribers(CartUpdated))
}

func TestBus_PanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()
	delivered := false

	bus.Subscribe(CartUpdated, func(Event) { panic("boom") })
	bus.Subscribe(CartUpdated, func(ev Event) {
		delivered = true
		assert.Equal(t, 3, ev.Payload)
	})

	assert.NotPanics(t, func() { bus.Publish(CartUpdated, 3) })
	assert.True(t, delivered)
}

func TestBus_SubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	inner := 0

	bus.Subscribe(CartUpdated, func(Event) {
		bus.Subscribe(CartUpdated, func(Event) { inner++ })
	})

	bus.Publish(CartUpdated, nil)
	assert.Zero(t, inner)

	bus.Publish(CartUpdated, nil)
	assert.Equal(t, 1, inner)
}
