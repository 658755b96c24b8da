package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return hub, srv
}

func TestNewListener_MapsScheme(t *testing.T) {
	l, err := NewListener("https://shop.example.com/", "/ws/notifications", "", func(storefront.PushMessage) {})
	require.NoError(t, err)
	assert.Equal(t, "wss://shop.example.com/ws/notifications", l.URL())

	l, err = NewListener("http://localhost:5000", "/ws/notifications", "", func(storefront.PushMessage) {})
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:5000/ws/notifications", l.URL())
}

func TestListener_ReceivesBroadcast(t *testing.T) {
	hub, srv := startHub(t)

	received := make(chan storefront.PushMessage, 4)
	l, err := NewListener(srv.URL, "/", "", func(msg storefront.PushMessage) {
		received <- msg
	})
	require.NoError(t, err)
	l.ReconnectDelay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(storefront.PushMessage{UnreadCount: 3}))

	select {
	case msg := <-received:
		assert.Equal(t, 3, msg.UnreadCount)
	case <-time.After(2 * time.Second):
		t.Fatal("push message not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestListener_ReconnectsAfterServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	l, err := NewListener(srv.URL, "/ws", "", func(storefront.PushMessage) {})
	require.NoError(t, err)
	l.ReconnectDelay = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = l.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
