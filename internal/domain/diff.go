package domain

// ProductChange is a product that moved between two snapshots. It carries the
// new snapshot's fields plus the old value for whichever attribute changed and
// the positive magnitude of the move.
type ProductChange struct {
	Product
	OldPrice    *float64 `json:"oldPrice,omitempty"`
	OldQuantity *int     `json:"oldQuantity,omitempty"`
	Change      float64  `json:"change"`
}

// Changes groups every categorized difference between two snapshots. A sku in
// priceIncreased/priceDecreased/quantityIncreased/quantityDecreased exists in
// both snapshots; newProducts and removedProducts hold skus present in only
// one of them.
type Changes struct {
	PriceIncreased    []ProductChange `json:"priceIncreased"`
	PriceDecreased    []ProductChange `json:"priceDecreased"`
	QuantityIncreased []ProductChange `json:"quantityIncreased"`
	QuantityDecreased []ProductChange `json:"quantityDecreased"`
	NewProducts       []Product       `json:"newProducts"`
	RemovedProducts   []Product       `json:"removedProducts"`
}

// Summary holds the category counts. TotalChanges is always the sum of the
// six category lengths.
type Summary struct {
	TotalChanges    int `json:"totalChanges"`
	PriceChanges    int `json:"priceChanges"`
	QuantityChanges int `json:"quantityChanges"`
}

// Comparison is the result of diffing two snapshots. Pure computation result;
// never mutated after creation.
type Comparison struct {
	Changes Changes `json:"changes"`
	Summary Summary `json:"summary"`
}

// Compare diffs two snapshots keyed by sku. Products are visited in the new
// snapshot's document order; duplicate skus in the old snapshot resolve
// last-write-wins. Equal price or quantity produces no entry at all, which is
// what keeps totalChanges meaningful.
func Compare(old, newer Snapshot) Comparison {
	oldBySKU := make(map[string]Product, len(old.Products))
	for _, p := range old.Products {
		oldBySKU[p.SKU] = p
	}

	changes := Changes{
		PriceIncreased:    []ProductChange{},
		PriceDecreased:    []ProductChange{},
		QuantityIncreased: []ProductChange{},
		QuantityDecreased: []ProductChange{},
		NewProducts:       []Product{},
		RemovedProducts:   []Product{},
	}

	for _, newP := range newer.Products {
		oldP, ok := oldBySKU[newP.SKU]
		if !ok {
			changes.NewProducts = append(changes.NewProducts, newP)
			continue
		}

		if newP.Price > oldP.Price {
			prev := oldP.Price
			changes.PriceIncreased = append(changes.PriceIncreased, ProductChange{
				Product: newP, OldPrice: &prev, Change: newP.Price - oldP.Price,
			})
		} else if newP.Price < oldP.Price {
			prev := oldP.Price
			changes.PriceDecreased = append(changes.PriceDecreased, ProductChange{
				Product: newP, OldPrice: &prev, Change: oldP.Price - newP.Price,
			})
		}

		if newP.Quantity > oldP.Quantity {
			prev := oldP.Quantity
			changes.QuantityIncreased = append(changes.QuantityIncreased, ProductChange{
				Product: newP, OldQuantity: &prev, Change: float64(newP.Quantity - oldP.Quantity),
			})
		} else if newP.Quantity < oldP.Quantity {
			prev := oldP.Quantity
			changes.QuantityDecreased = append(changes.QuantityDecreased, ProductChange{
				Product: newP, OldQuantity: &prev, Change: float64(oldP.Quantity - newP.Quantity),
			})
		}
	}

	for _, oldP := range old.Products {
		exists := false
		for _, newP := range newer.Products {
			if newP.SKU == oldP.SKU {
				exists = true
				break
			}
		}
		if !exists {
			changes.RemovedProducts = append(changes.RemovedProducts, oldP)
		}
	}

	return Comparison{
		Changes: changes,
		Summary: Summary{
			TotalChanges: len(changes.PriceIncreased) + len(changes.PriceDecreased) +
				len(changes.QuantityIncreased) + len(changes.QuantityDecreased) +
				len(changes.NewProducts) + len(changes.RemovedProducts),
			PriceChanges:    len(changes.PriceIncreased) + len(changes.PriceDecreased),
			QuantityChanges: len(changes.QuantityIncreased) + len(changes.QuantityDecreased),
		},
	}
}
