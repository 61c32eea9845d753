// Package export renders a flattened change list as downloadable documents.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rpattn/feedtrack/internal/domain"
)

// ChangeHeaders is the fixed column set of change exports.
var ChangeHeaders = []string{
	"SKU", "Product Name", "Category", "Old Price", "New Price",
	"Price Change", "Old Stock", "New Stock", "Stock Change",
}

// WriteCSV emits one header row followed by one row per change. Every cell
// is quoted, which encoding/csv cannot be made to do, so rows are rendered
// directly.
func WriteCSV(w io.Writer, rows []domain.ChangeRow) error {
	if err := writeQuotedRow(w, ChangeHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeQuotedRow(w, changeCells(row)); err != nil {
			return err
		}
	}
	return nil
}

func writeQuotedRow(w io.Writer, cells []string) error {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// changeCells renders one change row. Price deltas carry a sign per
// direction and two decimals; stock deltas are signed integers; rows of
// other categories report zero deltas.
func changeCells(row domain.ChangeRow) []string {
	priceChange := "0"
	stockChange := "0"
	switch row.Type {
	case domain.ChangePriceUp:
		priceChange = fmt.Sprintf("%.2f", row.Change)
	case domain.ChangePriceDown:
		priceChange = fmt.Sprintf("%.2f", -row.Change)
	case domain.ChangeStockUp:
		stockChange = strconv.Itoa(int(row.Change))
	case domain.ChangeStockDown:
		stockChange = strconv.Itoa(-int(row.Change))
	}

	return []string{
		row.SKU,
		row.Name,
		row.Category,
		formatPrice(row.OldPrice),
		formatPrice(row.Price),
		priceChange,
		strconv.Itoa(row.OldQuantity),
		strconv.Itoa(row.Quantity),
		stockChange,
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
