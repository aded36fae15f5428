package view

import (
	"github.com/existflow/ironlist/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the label prefixed to formatted amounts
const DefaultCurrency = "KSh"

// CartLine is one row of the cart view
type CartLine struct {
	ID        model.ProductID `json:"id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Price     string          `json:"price"`
	LineTotal string          `json:"lineTotal"`
}

// CartView is what a renderer receives after every cart mutation
type CartView struct {
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"itemCount"`
	Total     string     `json:"total"`
	Empty     bool       `json:"empty"`
	Notice    string     `json:"notice,omitempty"`

	// TotalAmount is the unrounded total
	TotalAmount decimal.Decimal `json:"-"`
}

// ProjectCart aggregates the line-items. Totals are summed at full precision
// and rounded to two decimals only when formatted.
func ProjectCart(items []model.LineItem, currency string) CartView {
	if currency == "" {
		currency = DefaultCurrency
	}

	lines := make([]CartLine, 0, len(items))
	total := decimal.Zero
	count := 0
	for _, it := range items {
		lt := it.LineTotal()
		total = total.Add(lt)
		count += it.Quantity
		lines = append(lines, CartLine{
			ID:        it.ID,
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  it.Quantity,
			Price:     FormatMoney(currency, it.Price),
			LineTotal: FormatMoney(currency, lt),
		})
	}

	return CartView{
		Items:       lines,
		ItemCount:   count,
		Total:       FormatMoney(currency, total),
		Empty:       len(items) == 0,
		TotalAmount: total,
	}
}

// FormatMoney renders an amount with two decimals, e.g. "KSh 250.50"
func FormatMoney(currency string, amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}
