package fakestore

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/websocket"
	"github.com/ikkim/storefront/pkg/storefront"
)

// Handler serves the storefront API from a Store
type Handler struct {
	store *Store
	hub   *websocket.Hub
}

// NewHandler creates the handlers. hub may be nil, in which case unread
// counts are not pushed.
func NewHandler(store *Store, hub *websocket.Hub) *Handler {
	return &Handler{
		store: store,
		hub:   hub,
	}
}

// Store returns the backing state
func (h *Handler) Store() *Store {
	return h.store
}

// Faults answers with an injected fault when one is registered for the route
func (h *Handler) Faults() gin.HandlerFunc {
	return func(c *gin.Context) {
		fault, ok := h.store.takeFault(c.Request.Method, c.FullPath())
		if !ok {
			c.Next()
			return
		}

		log := middleware.GetLoggerFromContext(c)
		log.Debug("Serving injected fault", map[string]interface{}{
			"route":  c.FullPath(),
			"status": fault.Status,
		})

		contentType := fault.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(fault.Status, contentType, []byte(fault.Body))
		c.Abort()
	}
}

// PushNotifications upgrades to the notification push channel
// GET /ws/notifications
func (h *Handler) PushNotifications(c *gin.Context) {
	if h.hub == nil {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Push channel is not available")
		return
	}
	h.hub.ServeWS(c.Writer, c.Request)
}

func (h *Handler) pushUnread(count int) {
	if h.hub == nil {
		return
	}
	_ = h.hub.Broadcast(storefront.PushMessage{UnreadCount: count})
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Fake storefront is running",
	})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
