package feedxml

// Ordered field-candidate lists. Each canonical attribute is resolved by
// trying these tag names in priority order against an item element; the
// first hit wins. The lists stay separate from the tree-walking mechanism so
// that adding a supplier's pet tag name is a one-line change.
var (
	itemCandidates = []string{"product", "item", "entry", "offer", "listing", "record"}

	skuCandidates = []string{
		"id", "sku", "mpn", "g:id", "product_id", "item_id",
		"uniqueid", "productid", "code", "barcode", "ean", "isbn",
	}

	nameCandidates = []string{
		"title", "name", "g:title", "product_name", "description",
		"productname", "item_name", "g:description", "product_title",
	}

	priceCandidates = []string{
		"price", "g:price", "sale_price", "product_price", "cost",
		"baseprice", "finalprice", "price_with_vat", "price_without_vat",
	}

	quantityCandidates = []string{
		"quantity", "stock", "availability", "qty", "stock_quantity",
		"in_stock", "instock", "available", "g:availability", "stock_status",
	}
)

// Minimum repeat count before structural inference will accept a tag as the
// item element.
const minStructuralItems = 5

// StockTokens is the locale-sensitive vocabulary used to interpret textual
// availability values. Tokens match the whole trimmed, lower-cased text;
// phrases match as substrings.
type StockTokens struct {
	InStockWords      []string
	OutOfStockWords   []string
	InStockPhrases    []string
	OutOfStockPhrases []string
}

// DefaultStockTokens covers the boolean styles and the English and Greek
// availability phrases observed in supplier feeds.
func DefaultStockTokens() StockTokens {
	return StockTokens{
		InStockWords:    []string{"y", "yes", "true", "1"},
		OutOfStockWords: []string{"n", "no", "false", "0", ""},
		InStockPhrases: []string{
			"in stock", "available", "in-stock", "σε απόθεμα", "διαθέσιμο", "instock",
		},
		OutOfStockPhrases: []string{
			"out of stock", "unavailable", "out-of-stock", "εξαντλημένο", "μη διαθέσιμο", "outofstock",
		},
	}
}

// Merge appends another vocabulary, typically extra locales from
// configuration, onto the receiver.
func (s StockTokens) Merge(extra StockTokens) StockTokens {
	s.InStockWords = append(s.InStockWords, extra.InStockWords...)
	s.OutOfStockWords = append(s.OutOfStockWords, extra.OutOfStockWords...)
	s.InStockPhrases = append(s.InStockPhrases, extra.InStockPhrases...)
	s.OutOfStockPhrases = append(s.OutOfStockPhrases, extra.OutOfStockPhrases...)
	return s
}
