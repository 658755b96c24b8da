package controller

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/internal/websocket"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

const msgNotificationsFailed = "Failed to load notifications"

// NotificationController is the header bell: unread badge plus dropdown. The
// count follows the push channel; the list reloads on push while open.
type NotificationController struct {
	service service.NotificationService
	bus     *events.Bus
	notices *ui.NoticeBoard

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	panel       model.NotificationPanel
	unsubscribe func()
	onChange    func(model.NotificationPanel)
}

func NewNotificationController(service service.NotificationService, bus *events.Bus, notices *ui.NoticeBoard) *NotificationController {
	ctx, cancel := context.WithCancel(context.Background())
	return &NotificationController{
		service: service,
		bus:     bus,
		notices: notices,
		ctx:     ctx,
		cancel:  cancel,
		panel:   model.NotificationPanel{BadgeHidden: true},
	}
}

// Start loads the unread count and follows count changes
func (ctrl *NotificationController) Start(ctx context.Context) error {
	ctrl.mu.Lock()
	if ctrl.unsubscribe == nil && ctrl.bus != nil {
		ctrl.unsubscribe = ctrl.bus.Subscribe(events.UnreadCountChanged, func(ev events.Event) {
			if count, ok := ev.Payload.(int); ok {
				ctrl.setCount(count)
			}
		})
	}
	ctrl.mu.Unlock()

	count, err := ctrl.service.UnreadCount(ctx)
	if err != nil {
		logger.Warn("Failed to load unread count", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	ctrl.setCount(count)
	return nil
}

// ConnectPush listens on the push channel until Close
func (ctrl *NotificationController) ConnectPush(baseURL, path, sessionCookie string) (*websocket.Listener, error) {
	listener, err := websocket.NewListener(baseURL, path, sessionCookie, ctrl.Push)
	if err != nil {
		return nil, err
	}

	ctrl.wg.Add(1)
	go func() {
		defer ctrl.wg.Done()
		listener.Run(ctrl.ctx)
	}()
	return listener, nil
}

// Push applies a count delivered by the server
func (ctrl *NotificationController) Push(msg storefront.PushMessage) {
	ctrl.service.Pushed(msg.UnreadCount)
	ctrl.setCount(msg.UnreadCount)

	if ctrl.Panel().Open {
		if err := ctrl.reload(ctrl.ctx); err != nil {
			logger.Warn("Notification list reload after push failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// Open shows the dropdown and loads the list
func (ctrl *NotificationController) Open(ctx context.Context) (model.NotificationPanel, error) {
	ctrl.mu.Lock()
	ctrl.panel.Open = true
	ctrl.mu.Unlock()

	if err := ctrl.reload(ctx); err != nil {
		ctrl.notices.Error(err, msgNotificationsFailed)
		return ctrl.Panel(), err
	}
	return ctrl.Panel(), nil
}

// Hide closes the dropdown
func (ctrl *NotificationController) Hide() {
	ctrl.mu.Lock()
	ctrl.panel.Open = false
	ctrl.mu.Unlock()
	ctrl.changed()
}

// MarkRead marks one notification read and refreshes the count
func (ctrl *NotificationController) MarkRead(ctx context.Context, id int64) error {
	count, err := ctrl.service.MarkRead(ctx, id)
	if err != nil {
		ctrl.notices.Error(err, "")
		return err
	}
	ctrl.setCount(count)
	if ctrl.Panel().Open {
		return ctrl.reload(ctx)
	}
	return nil
}

func (ctrl *NotificationController) reload(ctx context.Context) error {
	items, err := ctrl.service.List(ctx)
	if err != nil {
		return err
	}
	ctrl.mu.Lock()
	ctrl.panel.Items = items
	ctrl.panel.Empty = len(items) == 0
	ctrl.mu.Unlock()
	ctrl.changed()
	return nil
}

func (ctrl *NotificationController) setCount(count int) {
	ctrl.mu.Lock()
	ctrl.panel.UnreadCount = count
	ctrl.panel.BadgeHidden = count <= 0
	ctrl.mu.Unlock()
	ctrl.changed()
}

// OnChange registers fn to receive every panel update
func (ctrl *NotificationController) OnChange(fn func(model.NotificationPanel)) {
	ctrl.mu.Lock()
	ctrl.onChange = fn
	ctrl.mu.Unlock()
}

func (ctrl *NotificationController) changed() {
	ctrl.mu.Lock()
	fn := ctrl.onChange
	panel := ctrl.panel
	ctrl.mu.Unlock()
	if fn != nil {
		fn(panel)
	}
}

func (ctrl *NotificationController) Panel() model.NotificationPanel {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	panel := ctrl.panel
	panel.Items = append([]model.NotificationItem(nil), ctrl.panel.Items...)
	return panel
}

// Close stops the push listener and the count subscription
func (ctrl *NotificationController) Close() {
	ctrl.cancel()
	ctrl.wg.Wait()

	ctrl.mu.Lock()
	unsubscribe := ctrl.unsubscribe
	ctrl.unsubscribe = nil
	ctrl.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
