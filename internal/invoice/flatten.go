package invoice

import (
	"strconv"
	"strings"

	"invoicer/pkg/models"
)

// flatCellCount is the fixed width of the item block in a persisted row:
// 20 slots of 6 cells each, blank-padded regardless of how many items the
// invoice actually has.
const flatCellCount = models.MaxLineItems * models.ItemCellCount

// FlattenItems lays the items out into the fixed flat cell block, in order.
// Unused slots stay blank.
func FlattenItems(items []models.InvoiceLineItem) []string {
	cells := make([]string, flatCellCount)
	for i, item := range items {
		if i >= models.MaxLineItems {
			break
		}
		base := i * models.ItemCellCount
		cells[base] = strconv.Itoa(item.Index)
		cells[base+1] = item.Service
		cells[base+2] = item.Period
		cells[base+3] = item.Quantity
		cells[base+4] = item.Rate
		cells[base+5] = item.Amount
	}
	return cells
}

// UnflattenItems reconstructs the item list from a row's flat cell block.
// Slots whose cells are all blank are skipped.
func UnflattenItems(cells []string) []models.InvoiceLineItem {
	var items []models.InvoiceLineItem
	for i := 0; i < models.MaxLineItems; i++ {
		base := i * models.ItemCellCount
		if base >= len(cells) {
			break
		}
		slot := make([]string, models.ItemCellCount)
		for j := 0; j < models.ItemCellCount && base+j < len(cells); j++ {
			slot[j] = strings.TrimSpace(cells[base+j])
		}
		if isBlankSlot(slot) {
			continue
		}
		index, _ := strconv.Atoi(slot[0])
		items = append(items, models.InvoiceLineItem{
			Index:    index,
			Service:  slot[1],
			Period:   slot[2],
			Quantity: slot[3],
			Rate:     slot[4],
			Amount:   slot[5],
		})
	}
	return items
}

func isBlankSlot(slot []string) bool {
	for _, cell := range slot {
		if cell != "" {
			return false
		}
	}
	return true
}
