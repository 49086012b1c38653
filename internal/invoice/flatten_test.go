package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/pkg/models"
)

func TestFlattenItemsPadsToFixedWidth(t *testing.T) {
	items := []models.InvoiceLineItem{
		{Index: 1, Service: "Development", Period: "Jan", Quantity: "80", Rate: "50", Amount: "4000"},
		{Index: 2, Service: "Support", Period: "Jan", Quantity: "5", Rate: "60", Amount: "300"},
	}

	cells := FlattenItems(items)
	require.Len(t, cells, flatCellCount)

	assert.Equal(t, []string{"1", "Development", "Jan", "80", "50", "4000"}, cells[:6])
	assert.Equal(t, []string{"2", "Support", "Jan", "5", "60", "300"}, cells[6:12])
	for _, cell := range cells[12:] {
		assert.Empty(t, cell)
	}
}

func TestFlattenItemsFullCapacity(t *testing.T) {
	items := make([]models.InvoiceLineItem, models.MaxLineItems)
	for i := range items {
		items[i] = models.InvoiceLineItem{Index: i + 1, Service: "svc"}
	}

	cells := FlattenItems(items)
	require.Len(t, cells, flatCellCount)
	// Exactly 20 items fill every slot; the last slot is not blank.
	assert.Equal(t, "20", cells[flatCellCount-6])
	assert.Equal(t, "svc", cells[flatCellCount-5])
}

func TestUnflattenItemsSkipsBlankSlots(t *testing.T) {
	cells := make([]string, flatCellCount)
	copy(cells, []string{"1", "Development", "Jan", "80", "50", "4000"})
	// Slot 2 left blank, slot 3 occupied.
	copy(cells[12:], []string{"3", "Support", "Feb", "5", "60", "300"})

	items := UnflattenItems(cells)
	require.Len(t, items, 2)
	assert.Equal(t, "Development", items[0].Service)
	assert.Equal(t, 3, items[1].Index)
	assert.Equal(t, "Support", items[1].Service)
}

func TestFlattenRoundTrip(t *testing.T) {
	items := []models.InvoiceLineItem{
		{Index: 1, Service: "Development", Period: "Jan", Quantity: "80", Rate: "50", Amount: "4000"},
		{Index: 2, Service: "Support", Period: "Feb", Quantity: "", Rate: "", Amount: ""},
	}

	assert.Equal(t, items, UnflattenItems(FlattenItems(items)))
}
