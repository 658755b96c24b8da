package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/money"
)

// Renderer writes page state to a terminal
type Renderer struct {
	w      io.Writer
	format *money.Formatter
	markup Markup
}

func NewRenderer(w io.Writer, locale string, markup Markup) *Renderer {
	return &Renderer{
		w:      w,
		format: money.NewFormatter(locale),
		markup: markup,
	}
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
}

func (r *Renderer) Cart(view model.CartView) {
	if view.IsEmpty() {
		fmt.Fprintln(r.w, "Your cart is empty")
	} else {
		tw := r.table()
		fmt.Fprintln(tw, "ID\tPRODUCT\tVARIANT\tQTY\tPRICE\tSUBTOTAL")
		for _, l := range view.Lines {
			price := r.format.Format(l.FinalUnitPrice)
			if l.Discounted() {
				price = fmt.Sprintf("%s (was %s, -%s%%)", price, r.format.Format(l.UnitPrice), l.DiscountPercent.String())
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
				l.ItemID, l.Name, variant(l), l.Quantity, price, r.format.Format(l.Subtotal))
		}
		tw.Flush()
	}

	fmt.Fprintf(r.w, "\nItems:    %d\n", view.ItemCount)
	fmt.Fprintf(r.w, "Subtotal: %s\n", r.format.Format(view.Subtotal))
	if view.ShippingCost != nil {
		fmt.Fprintf(r.w, "Shipping: %s\n", r.format.Format(*view.ShippingCost))
	}
	fmt.Fprintf(r.w, "Total:    %s\n", r.format.Format(view.Total))
	fmt.Fprintln(r.w, view.FreeShipping.Message)
}

func variant(l model.CartLine) string {
	parts := make([]string, 0, 2)
	if l.Size != "" {
		parts = append(parts, "size "+l.Size)
	}
	if l.ColorID != nil {
		parts = append(parts, "color "+strconv.FormatInt(*l.ColorID, 10))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// Header renders the cart badge and checkout button
func (r *Renderer) Header(badge model.Badge, gate model.GateState) {
	count := "hidden"
	if !badge.Hidden {
		count = strconv.Itoa(badge.Count)
	}
	checkout := "enabled"
	if !gate.Enabled {
		checkout = "disabled (" + gate.Tooltip + ")"
	}
	fmt.Fprintf(r.w, "Cart badge: %s | Checkout: %s\n", count, checkout)
}

func (r *Renderer) Notices(notices []model.Notice) {
	for _, n := range notices {
		fmt.Fprintf(r.w, "[%s] %s\n", strings.ToUpper(string(n.Kind)), n.Message)
	}
}

func (r *Renderer) Checkout(result *model.CheckoutResult) {
	fmt.Fprintf(r.w, "Checkout %s\n", result.State)
	if result.Message != "" {
		fmt.Fprintln(r.w, result.Message)
	}
}

func (r *Renderer) Search(results *model.SearchResults) {
	if results == nil || results.Hidden {
		return
	}
	if results.Loading {
		fmt.Fprintln(r.w, "Searching...")
		return
	}
	if len(results.Items) == 0 {
		fmt.Fprintln(r.w, results.Message)
		return
	}
	tw := r.table()
	for _, item := range results.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Name, item.PriceText, item.URL)
	}
	tw.Flush()
}

func (r *Renderer) Catalog(page *model.CatalogPage) {
	if page.Empty {
		fmt.Fprintln(r.w, "No products found")
		return
	}
	tw := r.table()
	fmt.Fprintln(tw, "ID\tPRODUCT\tPRICE\tDISCOUNT\tSTOCK")
	for _, p := range page.Products {
		price := p.PriceText
		if p.OriginalText != "" {
			price += " (was " + p.OriginalText + ")"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, price, p.DiscountText, p.Stock)
	}
	tw.Flush()
	fmt.Fprintf(r.w, "%d products\n", page.Total)
	r.Pagination(page.Pagination)
}

func (r *Renderer) Pagination(p model.Pagination) {
	if len(p.Pages) == 0 {
		return
	}
	parts := make([]string, 0, len(p.Pages)+2)
	if p.Previous != nil {
		parts = append(parts, "« prev")
	}
	for _, link := range p.Pages {
		if link.Current {
			parts = append(parts, "["+strconv.Itoa(link.Page)+"]")
		} else {
			parts = append(parts, strconv.Itoa(link.Page))
		}
	}
	if p.Next != nil {
		parts = append(parts, "next »")
	}
	fmt.Fprintln(r.w, strings.Join(parts, " "))
}

func (r *Renderer) AdminTable(table *model.AdminTable) {
	tw := r.table()
	fmt.Fprintln(tw, "ID\tNAME\tSKU\tCATEGORY\tPRICE\tSTOCK\tSTATUS")
	for _, row := range table.Rows {
		stock := strconv.Itoa(row.Stock)
		if row.LowStock {
			stock += " (low)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Name, row.SKU, row.Category, row.PriceText, stock, row.Status)
	}
	tw.Flush()
	fmt.Fprintf(r.w, "Page %d of %d, %d products\n", table.Page, table.Pages, table.Total)
	r.Pagination(table.Pagination)
}

// Transcript renders the chat history, greeting first when it is empty
func (r *Renderer) Transcript(messages []model.ChatMessage) {
	if len(messages) == 0 {
		fmt.Fprintf(r.w, "bot> %s\n", model.Greeting)
		return
	}
	for _, m := range messages {
		r.ChatMessage(m)
	}
}

func (r *Renderer) ChatMessage(m model.ChatMessage) {
	text := m.Message
	if m.From == model.FromBot {
		text = FormatMessage(text, r.markup)
	} else if r.markup.Escape != nil {
		text = r.markup.Escape(text)
	}
	fmt.Fprintf(r.w, "%s> %s\n", m.From, text)
}

func (r *Renderer) Notifications(panel model.NotificationPanel) {
	if panel.BadgeHidden {
		fmt.Fprintln(r.w, "Notifications: none unread")
	} else {
		fmt.Fprintf(r.w, "Notifications: %d unread\n", panel.UnreadCount)
	}
	if !panel.Open {
		return
	}
	if panel.Empty {
		fmt.Fprintln(r.w, "No notifications")
		return
	}
	tw := r.table()
	for _, n := range panel.Items {
		marker := " "
		if n.Unread {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", marker, n.ID, n.Message, n.Link, n.CreatedAt)
	}
	tw.Flush()
}

func (r *Renderer) CardForm(form model.CardForm) {
	if form.Provider == model.ProviderZaloPay {
		fmt.Fprintf(r.w, "ZaloPay phone: %s\n", form.WalletPhone)
		return
	}
	fmt.Fprintf(r.w, "Card:   %s\n", form.CardNumber)
	fmt.Fprintf(r.w, "Expiry: %s\n", form.Expiry)
	fmt.Fprintf(r.w, "Name:   %s\n", form.CardholderName)
	if form.CardType != "" {
		fmt.Fprintf(r.w, "Type:   %s\n", form.CardType)
	}
	if form.ValidationMessage != "" {
		mark := "✗"
		if form.ValidationOK {
			mark = "✓"
		}
		fmt.Fprintf(r.w, "%s %s\n", mark, form.ValidationMessage)
	}
}

// Line writes a single message
func (r *Renderer) Line(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format+"\n", args...)
}
