package ui

import (
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
)

// NoticeBoard holds the transient toasts. Each notice dismisses itself after
// its kind's TTL.
type NoticeBoard struct {
	mu       sync.Mutex
	notices  []model.Notice
	timers   map[string]*time.Timer
	onChange func([]model.Notice)
	now      func() time.Time
	ttl      func(model.NoticeKind) time.Duration
	closed   bool
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{
		timers: make(map[string]*time.Timer),
		now:    time.Now,
		ttl:    model.NoticeKind.TTL,
	}
}

// OnChange registers fn to receive the active notices whenever they change.
// fn runs without the board's lock held.
func (b *NoticeBoard) OnChange(fn func([]model.Notice)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

func (b *NoticeBoard) Success(message string) model.Notice {
	return b.show(model.NoticeSuccess, "", message)
}

func (b *NoticeBoard) Info(message string) model.Notice {
	return b.show(model.NoticeInfo, "", message)
}

// Error shows the user message for err, or fallback when the error carries
// no text of its own
func (b *NoticeBoard) Error(err error, fallback string) model.Notice {
	info := apperrors.UserMessage(err, fallback)
	if err != nil {
		logger.Warn("Showing error notice", map[string]interface{}{
			"code":  info.Code,
			"error": err.Error(),
		})
	}
	return b.show(model.NoticeError, info.Code, info.Message)
}

func (b *NoticeBoard) show(kind model.NoticeKind, code, message string) model.Notice {
	now := b.now()
	ttl := b.ttl(kind)
	n := model.Notice{
		ID:        uuid.New().String(),
		Kind:      kind,
		Code:      code,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return n
	}
	b.notices = append(b.notices, n)
	b.timers[n.ID] = time.AfterFunc(ttl, func() { b.Dismiss(n.ID) })
	b.mu.Unlock()

	b.changed()
	return n
}

// Dismiss removes a notice early. It reports whether the notice was showing.
func (b *NoticeBoard) Dismiss(id string) bool {
	b.mu.Lock()
	idx := -1
	for i, n := range b.notices {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return false
	}
	b.notices = append(b.notices[:idx:idx], b.notices[idx+1:]...)
	if t, ok := b.timers[id]; ok {
		t.Stop()
		delete(b.timers, id)
	}
	b.mu.Unlock()

	b.changed()
	return true
}

// Active returns the notices currently showing, oldest first
func (b *NoticeBoard) Active() []model.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Notice, len(b.notices))
	copy(out, b.notices)
	return out
}

// Last returns the newest showing notice
func (b *NoticeBoard) Last() (model.Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) == 0 {
		return model.Notice{}, false
	}
	return b.notices[len(b.notices)-1], true
}

// Close stops every pending dismissal. Later notices are dropped.
func (b *NoticeBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.closed = true
}

func (b *NoticeBoard) changed() {
	b.mu.Lock()
	fn := b.onChange
	snapshot := make([]model.Notice, len(b.notices))
	copy(snapshot, b.notices)
	b.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
