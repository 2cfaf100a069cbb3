package application

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
)

// DisplayLine is one rendered cart row.
type DisplayLine struct {
	Name               string `json:"name"`
	UnitPriceFormatted string `json:"unitPrice"`
	Quantity           int    `json:"quantity"`
	LineIndex          int    `json:"lineIndex"`
}

// DisplayModel is the presentation-agnostic projection of a cart. Empty
// carts map to the designated empty model, distinct from any rendered
// line list.
type DisplayModel struct {
	Lines          []DisplayLine `json:"lines"`
	TotalFormatted string        `json:"total"`
	Empty          bool          `json:"empty"`
}

var prices = message.NewPrinter(language.English)

// FormatPrice renders an LKR amount with thousands grouping,
// e.g. "LKR 12,500".
func FormatPrice(amount int64) string {
	return prices.Sprintf("LKR %d", amount)
}

// Render projects a cart into its display model. Pure: no side effects,
// same cart state always yields the same model.
func Render(cart *domain.Cart) DisplayModel {
	if cart == nil || cart.IsEmpty() {
		return DisplayModel{Empty: true, TotalFormatted: FormatPrice(0)}
	}
	items := cart.Items()
	lines := make([]DisplayLine, 0, len(items))
	for i, item := range items {
		lines = append(lines, DisplayLine{
			Name:               item.Name,
			UnitPriceFormatted: FormatPrice(item.UnitPrice),
			Quantity:           item.Quantity,
			LineIndex:          i,
		})
	}
	return DisplayModel{Lines: lines, TotalFormatted: FormatPrice(cart.Total())}
}
