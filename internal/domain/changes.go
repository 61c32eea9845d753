package domain

import (
	"sort"
	"strings"
)

// Change type tags, used for filtering and CSV category columns.
const (
	ChangeStockDown = "stock_down"
	ChangeStockUp   = "stock_up"
	ChangePriceUp   = "price_up"
	ChangePriceDown = "price_down"
	ChangeNew       = "new"
	ChangeRemoved   = "removed"
)

var changeCategories = map[string]string{
	ChangeStockDown: "Hot Seller",
	ChangeStockUp:   "Stock Increase",
	ChangePriceUp:   "Price Increase",
	ChangePriceDown: "Price Decrease",
	ChangeNew:       "New Product",
	ChangeRemoved:   "Removed Product",
}

// ChangeRow is one entry of the flattened change list consumed by display and
// export. OldPrice/OldQuantity always carry a displayable value: the recorded
// old value for the changed attribute, the current value for the unchanged
// one, and zero for new/removed rows.
type ChangeRow struct {
	Product
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	OldPrice    float64 `json:"oldPrice"`
	OldQuantity int     `json:"oldQuantity"`
	Change      float64 `json:"change"`
}

// ChangeQuery selects and orders rows of the flattened list.
type ChangeQuery struct {
	Type       string // exact match on a change type tag, empty matches all
	Search     string // substring on name (case-insensitive) or sku
	SortKey    string // sku, name, category, price, quantity, change
	Descending bool
}

// FlattenChanges concatenates all six categories into a single list. Row
// order within a category follows the comparison's document order, and the
// category order matches the display convention (fast sellers first).
func FlattenChanges(c Comparison) []ChangeRow {
	rows := make([]ChangeRow, 0, c.Summary.TotalChanges)

	for _, p := range c.Changes.QuantityDecreased {
		rows = append(rows, stockRow(p, ChangeStockDown))
	}
	for _, p := range c.Changes.QuantityIncreased {
		rows = append(rows, stockRow(p, ChangeStockUp))
	}
	for _, p := range c.Changes.PriceIncreased {
		rows = append(rows, priceRow(p, ChangePriceUp))
	}
	for _, p := range c.Changes.PriceDecreased {
		rows = append(rows, priceRow(p, ChangePriceDown))
	}
	for _, p := range c.Changes.NewProducts {
		rows = append(rows, ChangeRow{Product: p, Type: ChangeNew, Category: changeCategories[ChangeNew]})
	}
	for _, p := range c.Changes.RemovedProducts {
		rows = append(rows, ChangeRow{Product: p, Type: ChangeRemoved, Category: changeCategories[ChangeRemoved]})
	}

	return rows
}

func stockRow(p ProductChange, typ string) ChangeRow {
	row := ChangeRow{
		Product:     p.Product,
		Type:        typ,
		Category:    changeCategories[typ],
		OldPrice:    p.Price,
		OldQuantity: p.Quantity,
		Change:      p.Change,
	}
	if p.OldQuantity != nil {
		row.OldQuantity = *p.OldQuantity
	}
	return row
}

func priceRow(p ProductChange, typ string) ChangeRow {
	row := ChangeRow{
		Product:     p.Product,
		Type:        typ,
		Category:    changeCategories[typ],
		OldPrice:    p.Price,
		OldQuantity: p.Quantity,
		Change:      p.Change,
	}
	if p.OldPrice != nil {
		row.OldPrice = *p.OldPrice
	}
	return row
}

// QueryChanges filters and sorts a flattened list according to the query.
// The input slice is not modified. Sorting is stable: ties keep flatten
// order, which consumers rely on for deterministic export output.
func QueryChanges(rows []ChangeRow, q ChangeQuery) []ChangeRow {
	filtered := make([]ChangeRow, 0, len(rows))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, row := range rows {
		if q.Type != "" && row.Type != q.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(row.Name), search) &&
			!strings.Contains(row.SKU, strings.TrimSpace(q.Search)) {
			continue
		}
		filtered = append(filtered, row)
	}

	if q.SortKey != "" {
		less := changeLess(q.SortKey)
		sort.SliceStable(filtered, func(i, j int) bool {
			if q.Descending {
				return less(filtered[j], filtered[i])
			}
			return less(filtered[i], filtered[j])
		})
	}

	return filtered
}

func changeLess(key string) func(a, b ChangeRow) bool {
	switch key {
	case "name":
		return func(a, b ChangeRow) bool { return a.Name < b.Name }
	case "category":
		return func(a, b ChangeRow) bool { return a.Category < b.Category }
	case "price":
		return func(a, b ChangeRow) bool { return a.Price < b.Price }
	case "quantity":
		return func(a, b ChangeRow) bool { return a.Quantity < b.Quantity }
	case "change":
		return func(a, b ChangeRow) bool { return a.Change < b.Change }
	default:
		return func(a, b ChangeRow) bool { return a.SKU < b.SKU }
	}
}
