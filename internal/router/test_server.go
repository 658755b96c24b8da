package router

import (
	"context"
	"fmt"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/fakestore"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/websocket"
	"github.com/ikkim/storefront/pkg/storefront"
)

// TestCSRFToken is the anti-forgery token the test server expects
const TestCSRFToken = "test-csrf-token"

// TestServer is a seeded fake storefront listening on a local port
type TestServer struct {
	*httptest.Server
	Store *fakestore.Store
	Hub   *websocket.Hub

	cancel context.CancelFunc
}

// SetupTestServer starts a fake storefront seeded with the default catalog
func SetupTestServer() *TestServer {
	store := fakestore.NewStore()
	fakestore.Seed(store, fakestore.DefaultCatalog())
	return SetupTestServerWithStore(store)
}

// SetupTestServerWithStore starts a fake storefront around an existing store
func SetupTestServerWithStore(store *fakestore.Store) *TestServer {
	ctx, cancel := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(ctx)

	r := NewRouter(
		fakestore.NewHandler(store, hub),
		middleware.NewCSRFMiddleware(TestCSRFToken),
		gin.TestMode,
		"",
	)

	return &TestServer{
		Server: httptest.NewServer(r.Setup()),
		Store:  store,
		Hub:    hub,
		cancel: cancel,
	}
}

// NewClient returns a storefront client pointed at the server with a valid token
func (s *TestServer) NewClient() (*storefront.Client, error) {
	return s.NewClientWithToken(storefront.StaticToken(TestCSRFToken))
}

// NewClientWithToken returns a client using tokens as its token source
func (s *TestServer) NewClientWithToken(tokens storefront.TokenSource) (*storefront.Client, error) {
	c, err := storefront.NewClient(storefront.Config{BaseURL: s.URL}, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create test client: %w", err)
	}
	return c, nil
}

// Close stops the server and its push hub
func (s *TestServer) Close() {
	s.Server.Close()
	s.cancel()
}
