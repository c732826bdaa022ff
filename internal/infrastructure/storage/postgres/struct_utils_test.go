package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tienda/internal/core/entity"
)

type mockCatalog struct {
	entity.Catalog
	SKU    string `db:"sku" json:"sku"`
	Hidden string `db:"-" json:"-"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "created_at", "modified_at", "name", "description", "version", "sku",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.NewCatalog("Test Name", "test description"),
		SKU:     "TEST-1",
		Hidden:  "should not appear",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, "Test Name", m["name"])
	assert.Equal(t, "test description", m["description"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, "TEST-1", m["sku"])
	assert.NotContains(t, m, "Hidden")
}

func TestStructToMap_Pointer(t *testing.T) {
	cat := &mockCatalog{
		Catalog: entity.NewCatalog("Pointer", ""),
	}

	m := StructToMap(cat)
	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, "Pointer", m["name"])
}
