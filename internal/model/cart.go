package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductID identifies a catalog product. Catalog files may encode it as
// a JSON number or a string; both decode to the same value.
type ProductID string

// ParseProductID trims s and writes numeric ids in canonical form, so
// `1`, `1.0` and `"01"` all name the same product
func ParseProductID(s string) ProductID {
	s = strings.TrimSpace(s)
	if d, err := decimal.NewFromString(s); err == nil {
		return ProductID(d.String())
	}
	return ProductID(s)
}

// UnmarshalJSON accepts both `1` and `"1"`
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParseProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid product id %s: %w", string(data), err)
	}
	*id = ParseProductID(n.String())
	return nil
}

// Product is a read-only catalog entry
type Product struct {
	ID          ProductID       `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}

// LineItem is one distinct product in the cart with its accumulated quantity
type LineItem struct {
	ID       ProductID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// NewLineItem copies the display fields of p at the time of add
func NewLineItem(p Product) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	}
}

// LineTotal returns price * quantity at full precision
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
