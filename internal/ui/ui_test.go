package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/pkg/money"
	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticeBoard_Kinds(t *testing.T) {
	board := NewNoticeBoard()
	defer board.Close()

	ok := board.Success("Item added to cart successfully!")
	assert.Equal(t, model.NoticeSuccess, ok.Kind)
	assert.Equal(t, model.SuccessNoticeTTL, ok.ExpiresAt.Sub(ok.CreatedAt))
	assert.NotEmpty(t, ok.ID)

	failed := board.Error(&storefront.APIError{StatusCode: 200, Message: "Out of stock"}, "Error updating cart")
	assert.Equal(t, model.NoticeError, failed.Kind)
	assert.Equal(t, "Out of stock", failed.Message)
	assert.Equal(t, apperrors.ServerRejected, failed.Code)
	assert.Equal(t, model.ErrorNoticeTTL, failed.ExpiresAt.Sub(failed.CreatedAt))

	fallback := board.Error(errors.New("boom"), "Error updating cart")
	assert.Equal(t, "Error updating cart", fallback.Message)

	assert.Len(t, board.Active(), 3)
	last, found := board.Last()
	require.True(t, found)
	assert.Equal(t, fallback.ID, last.ID)
}

func TestNoticeBoard_AutoDismiss(t *testing.T) {
	board := NewNoticeBoard()
	defer board.Close()
	board.ttl = func(model.NoticeKind) time.Duration { return 10 * time.Millisecond }

	changes := make(chan []model.Notice, 4)
	board.OnChange(func(n []model.Notice) { changes <- n })

	board.Info("Searching")
	assert.Len(t, <-changes, 1)

	select {
	case active := <-changes:
		assert.Empty(t, active)
	case <-time.After(time.Second):
		t.Fatal("notice was not dismissed")
	}
}

func TestNoticeBoard_Dismiss(t *testing.T) {
	board := NewNoticeBoard()
	defer board.Close()

	n := board.Success("done")
	assert.True(t, board.Dismiss(n.ID))
	assert.False(t, board.Dismiss(n.ID))
	assert.Empty(t, board.Active())

	_, found := board.Last()
	assert.False(t, found)
}

func TestNoticeBoard_Closed(t *testing.T) {
	board := NewNoticeBoard()
	board.Close()

	board.Success("ignored")
	assert.Empty(t, board.Active())
}

func TestRecordingNavigator(t *testing.T) {
	nav := NewRecordingNavigator()
	assert.Equal(t, "", nav.Last())

	nav.Navigate("/orders/1")
	nav.Navigate("/cart")

	select {
	case <-nav.Navigated():
	default:
		t.Fatal("first navigation not signalled")
	}
	assert.Equal(t, []string{"/orders/1", "/cart"}, nav.Visits())
	assert.Equal(t, "/cart", nav.Last())
}

func TestWriterNavigator(t *testing.T) {
	var buf bytes.Buffer
	nav := NewWriterNavigator(&buf, "http://localhost:5000/")

	nav.Navigate("/orders/7")
	nav.Navigate("https://pay.example/checkout")
	assert.Equal(t, "→ http://localhost:5000/orders/7\n→ https://pay.example/checkout\n", buf.String())
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		markup Markup
		want   string
	}{
		{
			name:   "escapes before formatting",
			in:     "<b>**Sale**</b>",
			markup: HTMLMarkup,
			want:   "&lt;b&gt;<strong>Sale</strong>&lt;/b&gt;",
		},
		{
			name:   "link",
			in:     "[Áo thun](http://shop/product/1)",
			markup: HTMLMarkup,
			want:   `<a href="http://shop/product/1" class="text-blue-600 hover:underline">Áo thun</a>`,
		},
		{
			name:   "strike and bullet",
			in:     "- ~~200000đ~~ 100000đ",
			markup: PlainMarkup,
			want:   "- 200k đ 100k đ",
		},
		{
			name:   "millions",
			in:     "1500000đ",
			markup: PlainMarkup,
			want:   "1.5tr đ",
		},
		{
			name:   "terminal bold",
			in:     "**hot**",
			markup: ANSIMarkup,
			want:   "\x1b[1mhot\x1b[22m",
		},
		{
			name:   "terminal bullets",
			in:     "Top:\n- one\n- two",
			markup: ANSIMarkup,
			want:   "Top:\n  • one\n  • two",
		},
		{
			name:   "control characters dropped",
			in:     "a\x1b[2Jb",
			markup: PlainMarkup,
			want:   "a[2Jb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMessage(tt.in, tt.markup))
		})
	}
}

func TestRenderer_Cart(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, "vi", PlainMarkup)

	r.Cart(model.CartView{
		Lines: []model.CartLine{{
			ItemID:         1,
			Name:           "Áo thun",
			Size:           "M",
			Quantity:       2,
			UnitPrice:      money.New(200000),
			FinalUnitPrice: money.New(200000),
			Subtotal:       money.New(400000),
		}},
		ItemCount:    2,
		Subtotal:     money.New(400000),
		Total:        money.New(430000),
		FreeShipping: model.FreeShipping{Message: "Add 600.000₫ more to get free shipping!"},
	})

	out := buf.String()
	assert.Contains(t, out, "Áo thun")
	assert.Contains(t, out, "size M")
	assert.Contains(t, out, "400.000₫")
	assert.Contains(t, out, "Total:    430.000₫")
	assert.Contains(t, out, "Add 600.000₫ more")
}

func TestRenderer_EmptyCartAndHeader(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, "vi", PlainMarkup)

	r.Cart(model.CartView{Subtotal: money.Zero, Total: money.Zero})
	r.Header(model.Badge{Hidden: true}, model.GateState{Tooltip: "Your cart is empty"})

	out := buf.String()
	assert.Contains(t, out, "Your cart is empty")
	assert.Contains(t, out, "Cart badge: hidden | Checkout: disabled (Your cart is empty)")
}

func TestRenderer_Transcript(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, "vi", PlainMarkup)

	r.Transcript(nil)
	assert.Contains(t, buf.String(), model.Greeting)

	buf.Reset()
	r.Transcript([]model.ChatMessage{
		{From: model.FromUser, Message: "áo dưới 200k"},
		{From: model.FromBot, Message: "**Áo thun** 100000đ"},
	})
	assert.Equal(t, "user> áo dưới 200k\nbot> Áo thun 100k đ\n", buf.String())
}

func TestRenderer_Notifications(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, "vi", PlainMarkup)

	r.Notifications(model.NotificationPanel{UnreadCount: 2, Open: true, Items: []model.NotificationItem{
		{ID: 1, Message: "Order shipped", Unread: true},
	}})
	out := buf.String()
	assert.Contains(t, out, "2 unread")
	assert.Contains(t, out, "Order shipped")

	buf.Reset()
	r.Notifications(model.NotificationPanel{BadgeHidden: true, Open: true, Empty: true})
	assert.Contains(t, buf.String(), "No notifications")
}
