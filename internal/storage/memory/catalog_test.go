package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/shopfront/internal/models"
)

var testItems = []models.Item{
	{ID: "ELC12", Name: "Wireless Keyboard", Category: "Electronics", Price: 49.99},
	{ID: "ELC13", Name: "Optical Mouse", Category: "Electronics", Price: 19.99},
	{ID: "HOM01", Name: "Coffee Mug", Category: "Home", Price: 8.50},
}

func TestCatalog_GetIsStable(t *testing.T) {
	c := NewCatalog(testItems)

	for _, want := range testItems {
		for i := 0; i < 3; i++ {
			got, ok := c.Get(want.ID)
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
	}

	_, ok := c.Get("NOPE")
	assert.False(t, ok)
}

func TestCatalog_ListReturnsCopy(t *testing.T) {
	c := NewCatalog(testItems)

	list := c.List()
	list[0].Price = 0

	got, _ := c.Get("ELC12")
	assert.Equal(t, 49.99, got.Price)
	assert.Equal(t, testItems, c.List())
}

func TestCatalog_InputIsCopied(t *testing.T) {
	items := append([]models.Item(nil), testItems...)
	c := NewCatalog(items)
	items[0].Name = "Changed"

	got, _ := c.Get("ELC12")
	assert.Equal(t, "Wireless Keyboard", got.Name)
}

func TestCatalog_DuplicateIDsKeepFirst(t *testing.T) {
	c := NewCatalog([]models.Item{
		{ID: "A", Name: "First"},
		{ID: "A", Name: "Second"},
	})
	assert.Equal(t, 1, c.Len())
	got, _ := c.Get("A")
	assert.Equal(t, "First", got.Name)
}

func TestCatalog_Search(t *testing.T) {
	c := NewCatalog(testItems)

	tests := []struct {
		q    string
		want []string
	}{
		{"keyboard", []string{"ELC12"}},
		{"ELECTRONICS", []string{"ELC12", "ELC13"}},
		{"mug", []string{"HOM01"}},
		{"", []string{"ELC12", "ELC13", "HOM01"}},
		{"nothing-matches", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got := c.Search(tt.q)
			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCatalog_GetByName(t *testing.T) {
	c := NewCatalog(testItems)

	got, ok := c.GetByName("optical mouse")
	require.True(t, ok)
	assert.Equal(t, "ELC13", got.ID)

	_, ok = c.GetByName("Mouse")
	assert.False(t, ok)
}
