package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/existflow/ironlist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
	{"id": 1, "name": "Velvet Sofa", "description": "Three seater", "price": 45000, "image": "sofa.jpg", "category": "living"},
	{"id": 2, "name": "Oak Table", "description": "Dining table", "price": 25000.5, "image": "table.jpg", "category": "dining"},
	{"id": "3", "name": "Floor Lamp", "description": "Brass", "price": "3500.00", "image": "lamp.jpg", "category": "living"}
]`

func TestParseAndLookup(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	p, err := c.Lookup("2")
	require.NoError(t, err)
	assert.Equal(t, "Oak Table", p.Name)
	assert.Equal(t, "25000.5", p.Price.String())

	p, err = c.Lookup(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, "Floor Lamp", p.Name)

	_, err = c.Lookup("99")
	assert.ErrorIs(t, err, model.ErrUnknownProduct)
	assert.ErrorIs(t, err, model.ErrCatalogLookup)
}

func TestByCategory(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Len(t, c.ByCategory("all"), 3)
	assert.Len(t, c.ByCategory(""), 3)
	assert.Len(t, c.ByCategory("Living"), 2)
	assert.Empty(t, c.ByCategory("garden"))
	assert.Equal(t, []string{"dining", "living"}, c.Categories())
}

func TestNewRejectsInvalidProducts(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{name: "missing name", json: `[{"id": 1, "price": 1}]`, wantErr: "name is required"},
		{name: "missing id", json: `[{"name": "x", "price": 1}]`, wantErr: "id is required"},
		{name: "negative price", json: `[{"id": 1, "name": "x", "price": -0.01}]`, wantErr: "price must be >= 0"},
		{name: "duplicate id", json: `[{"id": 1, "name": "x", "price": 1}, {"id": "1", "name": "y", "price": 2}]`, wantErr: "duplicate product id 1"},
		{name: "not json", json: `{`, wantErr: "failed to parse catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	all := c.All()
	all[0].Name = "changed"

	p, _ := c.Lookup("1")
	assert.Equal(t, "Velvet Sofa", p.Name)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, found, err := Load(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())

	path := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))
	c, found, err = Load(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, c.Len())
}

func TestLookupNormalizesNumericIDs(t *testing.T) {
	c, err := Parse([]byte(`[
		{"id": 1.0, "name": "Velvet Sofa", "price": 45000},
		{"id": "sku-7", "name": "Rug", "price": 900}
	]`))
	require.NoError(t, err)

	for _, ref := range []model.ProductID{"1", "1.0", " 01 ", "1e0"} {
		p, err := c.Lookup(ref)
		require.NoError(t, err, ref)
		assert.Equal(t, "Velvet Sofa", p.Name)
		assert.Equal(t, model.ProductID("1"), p.ID)
	}

	p, err := c.Lookup("sku-7")
	require.NoError(t, err)
	assert.Equal(t, "Rug", p.Name)

	_, err = c.Lookup("2")
	assert.ErrorIs(t, err, model.ErrCatalogLookup)
}

func TestNewRejectsDuplicateAfterNormalizing(t *testing.T) {
	_, err := Parse([]byte(`[
		{"id": 1, "name": "Velvet Sofa", "price": 1},
		{"id": "1.00", "name": "Oak Table", "price": 2}
	]`))
	assert.ErrorContains(t, err, "duplicate product id 1")
}
