package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

const defaultReconnectDelay = 3 * time.Second

// Listener subscribes to the notification push channel and hands every
// decoded message to a handler. It reconnects until its context ends.
type Listener struct {
	url            string
	header         http.Header
	dialer         *websocket.Dialer
	handler        func(storefront.PushMessage)
	ReconnectDelay time.Duration
}

// NewListener builds a listener for the push endpoint at path under baseURL.
// http(s) schemes are mapped to ws(s).
func NewListener(baseURL, path, sessionCookie string, handler func(storefront.PushMessage)) (*Listener, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u = u.JoinPath(path)

	header := http.Header{}
	if sessionCookie != "" {
		header.Set("Cookie", sessionCookie)
	}

	return &Listener{
		url:            u.String(),
		header:         header,
		dialer:         websocket.DefaultDialer,
		handler:        handler,
		ReconnectDelay: defaultReconnectDelay,
	}, nil
}

// URL returns the resolved push endpoint
func (l *Listener) URL() string {
	return l.url
}

// Run blocks until ctx is done
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("Push channel disconnected", map[string]interface{}{
				"url":   l.url,
				"error": err.Error(),
			})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.ReconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.url, l.header)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("Push channel connected", map[string]interface{}{
		"url": l.url,
	})

	// unblock ReadMessage when the context ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			conn.Close()
		case <-done:
		}
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg storefront.PushMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("Ignoring malformed push message", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		l.handler(msg)
	}
}
