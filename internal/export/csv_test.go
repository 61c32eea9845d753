package export

import (
	"strings"
	"testing"

	"github.com/rpattn/feedtrack/internal/domain"
)

func TestWriteCSVHeaderOnly(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := `"SKU","Product Name","Category","Old Price","New Price","Price Change","Old Stock","New Stock","Stock Change"` + "\n"
	if b.String() != want {
		t.Errorf("output = %q, want %q", b.String(), want)
	}
}

func TestWriteCSVQuotesEveryCell(t *testing.T) {
	rows := []domain.ChangeRow{
		{
			Product:     domain.Product{SKU: "A1", Name: "Widget", Price: 12.5, Quantity: 3},
			Type:        domain.ChangePriceUp,
			Category:    "Price Increase",
			OldPrice:    10,
			OldQuantity: 3,
			Change:      2.5,
		},
	}

	var b strings.Builder
	if err := WriteCSV(&b, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	want := `"A1","Widget","Price Increase","10","12.5","2.50","3","3","0"`
	if lines[1] != want {
		t.Errorf("row = %s\nwant  %s", lines[1], want)
	}
}

func TestWriteCSVEscapesEmbeddedQuotes(t *testing.T) {
	rows := []domain.ChangeRow{
		{
			Product:  domain.Product{SKU: "Q1", Name: `24" Monitor`},
			Type:     domain.ChangeNew,
			Category: "New Product",
		},
	}

	var b strings.Builder
	if err := WriteCSV(&b, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.Contains(b.String(), `"24"" Monitor"`) {
		t.Errorf("quote not doubled:\n%s", b.String())
	}
}

func TestChangeCellsDeltaDirections(t *testing.T) {
	cases := []struct {
		name        string
		row         domain.ChangeRow
		priceChange string
		stockChange string
	}{
		{
			"price up",
			domain.ChangeRow{Type: domain.ChangePriceUp, Change: 2.5},
			"2.50", "0",
		},
		{
			"price down is negative",
			domain.ChangeRow{Type: domain.ChangePriceDown, Change: 3},
			"-3.00", "0",
		},
		{
			"stock up",
			domain.ChangeRow{Type: domain.ChangeStockUp, Change: 7},
			"0", "7",
		},
		{
			"stock down is negative",
			domain.ChangeRow{Type: domain.ChangeStockDown, Change: 38},
			"0", "-38",
		},
		{
			"new product has zero deltas",
			domain.ChangeRow{Type: domain.ChangeNew, Change: 0},
			"0", "0",
		},
		{
			"removed product has zero deltas",
			domain.ChangeRow{Type: domain.ChangeRemoved, Change: 0},
			"0", "0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cells := changeCells(tc.row)
			if cells[5] != tc.priceChange {
				t.Errorf("price change = %q, want %q", cells[5], tc.priceChange)
			}
			if cells[8] != tc.stockChange {
				t.Errorf("stock change = %q, want %q", cells[8], tc.stockChange)
			}
		})
	}
}

func TestFormatPriceTrimsTrailingZeros(t *testing.T) {
	cases := map[float64]string{
		10:     "10",
		10.5:   "10.5",
		1299.5: "1299.5",
		0:      "0",
		19.9:   "19.9",
		3.999:  "3.999",
	}
	for in, want := range cases {
		if got := formatPrice(in); got != want {
			t.Errorf("formatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}
