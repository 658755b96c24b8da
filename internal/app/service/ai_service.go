package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ikkim/storefront/pkg/gemini"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

// TextGenerator produces a reply for a single prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// AIService answers shopper questions through the generative API, adding
// store context picked by keywords in the question.
type AIService interface {
	Reply(ctx context.Context, message string) (string, error)
	BuildContext(ctx context.Context, message string) string
}

type aiService struct {
	generator TextGenerator
	products  ProductService
	calc      *PriceCalculator
	linkBase  string
}

const (
	contextProductLimit = 5
	contextCatalogSize  = 100

	systemPrompt = `Bạn là trợ lý mua sắm của cửa hàng trực tuyến.
- Trả lời ngắn gọn, thân thiện, bằng ngôn ngữ của khách.
- Khi gợi ý sản phẩm, luôn dùng giá sau giảm và kèm link sản phẩm dạng [Xem sản phẩm](link).
- Với sản phẩm giảm giá, ghi giá gốc dạng ~~giá gốc~~ và giá mới in đậm.
- Nếu chưa rõ nhu cầu, hỏi lại khách muốn tìm sản phẩm gì và ngân sách bao nhiêu.
- Đổi mật khẩu: "Tài khoản của tôi" -> "Đổi mật khẩu". Hủy đơn: "Lịch sử đơn hàng" -> chọn đơn -> "Yêu cầu hủy".`

	passwordGuide = "Hướng dẫn đổi mật khẩu:\n1. Đăng nhập vào tài khoản\n2. Vào mục 'Tài khoản của tôi'\n3. Chọn 'Đổi mật khẩu'\n4. Nhập mật khẩu cũ và mật khẩu mới\n"
	cancelGuide   = "Hướng dẫn hủy đơn hàng:\n1. Đăng nhập vào tài khoản\n2. Vào mục 'Lịch sử đơn hàng'\n3. Tìm đơn hàng cần hủy\n4. Nhấn 'Yêu cầu hủy'\n"

	noDiscountText       = "Hiện tại chưa có sản phẩm nào đang giảm giá. Bạn có thể quay lại sau nhé!"
	discountHeader       = "Các sản phẩm đang giảm giá nhiều nhất:"
	discountFetchFailed  = "Xin lỗi, hiện tại không thể lấy thông tin sản phẩm giảm giá. Vui lòng thử lại sau.\n"
	suggestionHeader     = "Một số sản phẩm phù hợp với yêu cầu:"
	suggestionFetchError = "Xin lỗi, hiện tại không thể lấy thông tin sản phẩm. Vui lòng thử lại sau.\n"
)

var priceBoundPattern = regexp.MustCompile(`(?i)(dưới|trên)\s*(\d+)\s*(k|nghìn|triệu|tr)`)

// NewAIService builds the chat assistant. generator may be nil when no API
// key is configured; Reply then fails with gemini.ErrAPIKeyMissing.
func NewAIService(generator TextGenerator, products ProductService, calc *PriceCalculator, linkBase string) AIService {
	return &aiService{
		generator: generator,
		products:  products,
		calc:      calc,
		linkBase:  strings.TrimRight(linkBase, "/"),
	}
}

func (s *aiService) Reply(ctx context.Context, message string) (string, error) {
	if s.generator == nil {
		return "", gemini.ErrAPIKeyMissing
	}

	prompt := s.buildPrompt(message, s.BuildContext(ctx, message))
	reply, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		logger.Error("Generative API call failed", err, map[string]interface{}{
			"prompt_length": len(prompt),
		})
		return "", err
	}
	return reply, nil
}

func (s *aiService) buildPrompt(message, contextData string) string {
	var prompt strings.Builder
	prompt.WriteString(systemPrompt)
	prompt.WriteString("\n\n")
	if contextData != "" {
		prompt.WriteString("Context:\n")
		prompt.WriteString(contextData)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("User: ")
	prompt.WriteString(message)
	return prompt.String()
}

// BuildContext picks store data relevant to the question. The first
// matching topic wins: password, cancellation, discounts, then products.
func (s *aiService) BuildContext(ctx context.Context, message string) string {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, "đổi mật khẩu", "password"):
		return passwordGuide
	case containsAny(lower, "hủy đơn", "cancel"):
		return cancelGuide
	case containsAny(lower, "giảm giá", "khuyến mãi", "sale"):
		return s.discountContext(ctx)
	case containsAny(lower, "sản phẩm", "mua", "giá"):
		return s.productContext(ctx, message)
	}
	return ""
}

func (s *aiService) discountContext(ctx context.Context) string {
	products, err := s.catalog(ctx)
	if err != nil {
		return discountFetchFailed
	}

	var discounted []storefront.Product
	for _, p := range products {
		if p.Discount.IsPositive() && p.Price.Valid() {
			discounted = append(discounted, p)
		}
	}
	if len(discounted) == 0 {
		return noDiscountText
	}

	sort.SliceStable(discounted, func(i, j int) bool {
		return discounted[i].Discount.Cmp(discounted[j].Discount) > 0
	})
	if len(discounted) > contextProductLimit {
		discounted = discounted[:contextProductLimit]
	}

	entries := make([]string, 0, len(discounted))
	for _, p := range discounted {
		final := p.Price.Discount(p.Discount.Decimal())
		entries = append(entries, fmt.Sprintf("- **%s** – Giảm %s%%\n  ~~%s~~ ➡️ **%s**\n  [Xem sản phẩm](%s)",
			p.Name, p.Discount.Decimal().String(), s.calc.Format(p.Price), s.calc.Format(final), s.productLink(p.ID)))
	}
	return discountHeader + "\n\n" + strings.Join(entries, "\n\n")
}

func (s *aiService) productContext(ctx context.Context, message string) string {
	products, err := s.catalog(ctx)
	if err != nil {
		return suggestionFetchError
	}

	lower := strings.ToLower(message)
	if min, max, ok := ParsePriceBound(message); ok {
		kept := products[:0:0]
		for _, p := range products {
			price := p.Price.Decimal().IntPart()
			if price >= min && (max == 0 || price <= max) {
				kept = append(kept, p)
			}
		}
		products = kept
	}

	switch {
	case containsAny(lower, "rẻ", "giá thấp"):
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.Cmp(products[j].Price) < 0 })
	case containsAny(lower, "đắt", "cao cấp"):
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.Cmp(products[j].Price) > 0 })
	}
	if len(products) > contextProductLimit {
		products = products[:contextProductLimit]
	}

	var b strings.Builder
	b.WriteString(suggestionHeader)
	b.WriteString("\n")
	for _, p := range products {
		if p.Discount.IsPositive() {
			final := p.Price.Discount(p.Discount.Decimal())
			fmt.Fprintf(&b, "- **%s** - ~~%s~~ ➡️ **%s** (-%s%%)\n", p.Name, s.calc.Format(p.Price), s.calc.Format(final), p.Discount.Decimal().String())
		} else {
			fmt.Fprintf(&b, "- **%s** - %s\n", p.Name, s.calc.Format(p.Price))
		}
		fmt.Fprintf(&b, "  [Xem chi tiết](%s)\n", s.productLink(p.ID))
		if p.Description != "" {
			fmt.Fprintf(&b, "  %s\n", p.Description)
		}
	}
	return b.String()
}

func (s *aiService) catalog(ctx context.Context) ([]storefront.Product, error) {
	products, err := s.products.Products(ctx, storefront.ProductQuery{PerPage: contextCatalogSize})
	if err != nil {
		logger.Warn("Could not load products for chat context", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return products, nil
}

func (s *aiService) productLink(id int64) string {
	return fmt.Sprintf("%s/product/%d", s.linkBase, id)
}

// ParsePriceBound reads "dưới 200k" or "trên 1 triệu" style budgets. max is
// zero when there is no upper bound.
func ParsePriceBound(message string) (min, max int64, ok bool) {
	m := priceBoundPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, 0, false
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}

	unit := int64(1000)
	switch strings.ToLower(m[3]) {
	case "tr", "triệu":
		unit = 1000000
	}
	amount := n * unit

	if strings.ToLower(m[1]) == "dưới" {
		return 0, amount, true
	}
	return amount, 0, true
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
