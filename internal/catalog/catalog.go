// Package catalog loads the read-only product catalog.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/existflow/ironlist/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Validate decimals as numbers so gte/lte tags work on prices.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// Catalog is immutable after construction
type Catalog struct {
	products []model.Product
	byID     map[model.ProductID]int
}

// New validates products and indexes them by id
func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]model.Product, 0, len(products)),
		byID:     make(map[model.ProductID]int, len(products)),
	}
	for i, p := range products {
		p.ID = model.ParseProductID(string(p.ID))
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid product at index %d: %w", i, describe(err))
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Load reads a JSON array of products. A missing file yields an empty
// catalog and found=false.
func Load(path string) (c *Catalog, found bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		empty, _ := New(nil)
		return empty, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err = Parse(data)
	if err != nil {
		return nil, true, err
	}
	return c, true, nil
}

// Parse decodes and validates a JSON catalog
func Parse(data []byte) (*Catalog, error) {
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(products)
}

// Lookup returns the product for id
func (c *Catalog) Lookup(id model.ProductID) (model.Product, error) {
	i, ok := c.byID[model.ParseProductID(string(id))]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: %s", model.ErrUnknownProduct, id)
	}
	return c.products[i], nil
}

// All returns every product in catalog order
func (c *Catalog) All() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByCategory returns products in category; "all" or "" returns everything
func (c *Catalog) ByCategory(category string) []model.Product {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return c.All()
	}
	var out []model.Product
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range c.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// describe flattens validator errors into one readable message
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", strings.ToLower(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, ", "))
}
