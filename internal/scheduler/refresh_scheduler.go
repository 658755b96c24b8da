package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule refreshes once a minute
const DefaultSchedule = "@every 1m"

// UnreadCounter refreshes the notification count. Implementations publish
// the new count themselves.
type UnreadCounter interface {
	UnreadCount(ctx context.Context) (int, error)
}

// RefreshScheduler keeps a long-running session in sync with changes made
// elsewhere, such as another tab or an admin editing stock.
type RefreshScheduler struct {
	cron          *cron.Cron
	schedule      string
	bus           *events.Bus
	notifications UnreadCounter
	timeout       time.Duration
}

// NewRefreshScheduler creates a scheduler. An empty schedule uses
// DefaultSchedule. notifications may be nil.
func NewRefreshScheduler(schedule string, bus *events.Bus, notifications UnreadCounter) *RefreshScheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &RefreshScheduler{
		cron:          cron.New(),
		schedule:      schedule,
		bus:           bus,
		notifications: notifications,
		timeout:       10 * time.Second,
	}
}

// Start registers the refresh job and starts the cron runner
func (s *RefreshScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for background refresh", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Refresh scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce asks cart views to re-fetch and reloads the unread count
func (s *RefreshScheduler) RunOnce() {
	logger.Debug("Running scheduled refresh", nil)

	// A nil payload tells subscribers to fetch the cart themselves
	s.bus.Publish(events.CartUpdated, nil)

	if s.notifications == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.notifications.UnreadCount(ctx); err != nil {
		logger.Warn("Scheduled unread count refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Stop stops the runner and waits for a running job to finish
func (s *RefreshScheduler) Stop() {
	logger.Info("Stopping refresh scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Refresh scheduler stopped", nil)
}
