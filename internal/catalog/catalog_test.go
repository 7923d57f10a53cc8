package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlights_ReturnsCopies(t *testing.T) {
	first := Flights()
	require.Len(t, first, 2)

	first[0].Classes[0].PriceCents = 1
	first[0].Classes[0].Features[0] = "changed"

	second := Flights()
	assert.Equal(t, int64(29900), second[0].Classes[0].PriceCents)
	assert.Equal(t, "Standard seat", second[0].Classes[0].Features[0])
}

func TestMenuItem(t *testing.T) {
	item, ok := MenuItem("fries")
	assert.True(t, ok)
	assert.Equal(t, int64(599), item.PriceCents)

	_, ok = MenuItem("caviar")
	assert.False(t, ok)
}

func TestCategoryLabels_CoverAllCategories(t *testing.T) {
	for _, c := range Categories {
		assert.NotEmpty(t, CategoryLabels[c])
	}
}
