package domain

import (
	"reflect"
	"testing"
)

func sampleComparison() Comparison {
	oldPrice := 10.0
	oldQty := 50
	return Compare(
		snapshotOf(
			Product{SKU: "SELL", Name: "Seller", Price: oldPrice, Quantity: oldQty},
			Product{SKU: "RISE", Name: "Riser", Price: 5, Quantity: 2},
			Product{SKU: "GONE", Name: "Dropped", Price: 3, Quantity: 1},
		),
		snapshotOf(
			Product{SKU: "SELL", Name: "Seller", Price: 10, Quantity: 12},
			Product{SKU: "RISE", Name: "Riser", Price: 6.5, Quantity: 2},
			Product{SKU: "NEW1", Name: "Fresh", Price: 4, Quantity: 8},
		),
	)
}

func TestFlattenChangesOrderAndCategories(t *testing.T) {
	rows := FlattenChanges(sampleComparison())

	wantOrder := []struct {
		sku      string
		typ      string
		category string
	}{
		{"SELL", ChangeStockDown, "Hot Seller"},
		{"RISE", ChangePriceUp, "Price Increase"},
		{"NEW1", ChangeNew, "New Product"},
		{"GONE", ChangeRemoved, "Removed Product"},
	}
	if len(rows) != len(wantOrder) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(wantOrder), rows)
	}
	for i, want := range wantOrder {
		if rows[i].SKU != want.sku || rows[i].Type != want.typ || rows[i].Category != want.category {
			t.Errorf("row %d = {%s %s %s}, want %+v", i, rows[i].SKU, rows[i].Type, rows[i].Category, want)
		}
	}
}

func TestFlattenFillsUnchangedOldValues(t *testing.T) {
	rows := FlattenChanges(sampleComparison())

	byType := map[string]ChangeRow{}
	for _, r := range rows {
		byType[r.Type] = r
	}

	// Stock rows keep the recorded old quantity and mirror the current price.
	seller := byType[ChangeStockDown]
	if seller.OldQuantity != 50 || seller.OldPrice != 10 || seller.Change != 38 {
		t.Errorf("stock row = %+v", seller)
	}

	// Price rows keep the recorded old price and mirror the current quantity.
	riser := byType[ChangePriceUp]
	if riser.OldPrice != 5 || riser.OldQuantity != 2 || riser.Change != 1.5 {
		t.Errorf("price row = %+v", riser)
	}

	// New and removed rows carry no old values or delta.
	for _, typ := range []string{ChangeNew, ChangeRemoved} {
		row := byType[typ]
		if row.OldPrice != 0 || row.OldQuantity != 0 || row.Change != 0 {
			t.Errorf("%s row has synthetic values: %+v", typ, row)
		}
	}
}

func TestQueryChangesFilterByType(t *testing.T) {
	rows := FlattenChanges(sampleComparison())

	got := QueryChanges(rows, ChangeQuery{Type: ChangePriceUp})
	if len(got) != 1 || got[0].SKU != "RISE" {
		t.Errorf("type filter = %+v, want single RISE row", got)
	}

	if got := QueryChanges(rows, ChangeQuery{Type: "nonsense"}); len(got) != 0 {
		t.Errorf("unknown type matched rows: %+v", got)
	}
}

func TestQueryChangesSearch(t *testing.T) {
	rows := FlattenChanges(sampleComparison())

	// Name match is case-insensitive.
	got := QueryChanges(rows, ChangeQuery{Search: "seLLer"})
	if len(got) != 1 || got[0].SKU != "SELL" {
		t.Errorf("name search = %+v", got)
	}

	// SKU match is a plain substring.
	got = QueryChanges(rows, ChangeQuery{Search: "NEW"})
	if len(got) != 1 || got[0].SKU != "NEW1" {
		t.Errorf("sku search = %+v", got)
	}

	if got := QueryChanges(rows, ChangeQuery{Search: "zzz"}); len(got) != 0 {
		t.Errorf("miss returned rows: %+v", got)
	}
}

func TestQueryChangesSortKeys(t *testing.T) {
	rows := []ChangeRow{
		{Product: Product{SKU: "B", Name: "beta", Price: 2, Quantity: 20}, Type: ChangeNew, Category: "New Product", Change: 5},
		{Product: Product{SKU: "A", Name: "alpha", Price: 3, Quantity: 10}, Type: ChangeNew, Category: "New Product", Change: 1},
		{Product: Product{SKU: "C", Name: "gamma", Price: 1, Quantity: 30}, Type: ChangeNew, Category: "New Product", Change: 3},
	}

	skus := func(rows []ChangeRow) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.SKU
		}
		return out
	}

	cases := []struct {
		key  string
		desc bool
		want []string
	}{
		{"sku", false, []string{"A", "B", "C"}},
		{"name", false, []string{"A", "B", "C"}},
		{"price", false, []string{"C", "B", "A"}},
		{"quantity", false, []string{"A", "B", "C"}},
		{"change", false, []string{"A", "C", "B"}},
		{"change", true, []string{"B", "C", "A"}},
		{"bogus", false, []string{"A", "B", "C"}}, // unknown keys fall back to sku
	}
	for _, tc := range cases {
		got := QueryChanges(rows, ChangeQuery{SortKey: tc.key, Descending: tc.desc})
		if !reflect.DeepEqual(skus(got), tc.want) {
			t.Errorf("sort %s desc=%v = %v, want %v", tc.key, tc.desc, skus(got), tc.want)
		}
	}
}

func TestQueryChangesStableSortKeepsFlattenOrder(t *testing.T) {
	rows := []ChangeRow{
		{Product: Product{SKU: "FIRST", Name: "same"}, Type: ChangeNew},
		{Product: Product{SKU: "SECOND", Name: "same"}, Type: ChangeNew},
		{Product: Product{SKU: "THIRD", Name: "same"}, Type: ChangeNew},
	}

	got := QueryChanges(rows, ChangeQuery{SortKey: "name"})
	for i, want := range []string{"FIRST", "SECOND", "THIRD"} {
		if got[i].SKU != want {
			t.Fatalf("tie order broken at %d: %v", i, got)
		}
	}
}

func TestQueryChangesDoesNotModifyInput(t *testing.T) {
	rows := []ChangeRow{
		{Product: Product{SKU: "Z"}, Type: ChangeNew},
		{Product: Product{SKU: "A"}, Type: ChangeNew},
	}
	QueryChanges(rows, ChangeQuery{SortKey: "sku"})
	if rows[0].SKU != "Z" {
		t.Errorf("input slice reordered: %+v", rows)
	}
}
