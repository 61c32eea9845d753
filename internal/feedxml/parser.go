package feedxml

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rpattn/feedtrack/internal/domain"
)

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.]`)
	nonDigits     = regexp.MustCompile(`[^0-9]`)
)

// DetectionReport records which source tags populated each canonical
// attribute and which repeated tag was treated as the item element. It is
// diagnostic only and never persisted.
type DetectionReport struct {
	RootTag  string `json:"rootTag"`
	ItemTag  string `json:"itemTag"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// Parser turns arbitrary supplier XML into normalized products. Construct
// once and reuse; Parse is pure and safe for concurrent use.
type Parser struct {
	stock StockTokens
}

// Option customizes a Parser.
type Option func(*Parser)

// WithStockTokens appends extra availability vocabulary, typically further
// locales loaded from configuration.
func WithStockTokens(extra StockTokens) Option {
	return func(p *Parser) {
		p.stock = p.stock.Merge(extra)
	}
}

// NewParser creates a parser with the default field-candidate rules and
// stock vocabulary.
func NewParser(opts ...Option) *Parser {
	p := &Parser{stock: DefaultStockTokens()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse sanitizes and parses feed XML, locates the repeating item element,
// and extracts sku/name/price/quantity per item. Items without a resolvable
// sku are dropped silently; the caller decides whether an empty result is an
// error. Feed schemas vary enormously across suppliers, so resolution
// degrades from exact tag names to structural inference instead of requiring
// per-supplier configuration.
func (p *Parser) Parse(input string) ([]domain.Product, DetectionReport, error) {
	clean := Sanitize(input)

	root, err := parseTree(clean)
	if err != nil {
		return nil, DetectionReport{}, err
	}
	if root == nil {
		return nil, DetectionReport{}, &ParseError{Kind: NoRoot}
	}

	report := DetectionReport{RootTag: root.Local}

	if strings.EqualFold(root.Local, "html") {
		return nil, report, &ParseError{Kind: HtmlNotXml, RootTag: root.Local}
	}

	items := findItems(root, &report)
	if len(items) == 0 {
		return nil, report, &ParseError{
			Kind:    NoItemsDetected,
			RootTag: root.Local,
			Tried:   itemCandidates,
		}
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		product := domain.Product{
			SKU:      p.extractSKU(item, &report),
			Name:     p.extractName(item, &report),
			Price:    p.extractPrice(item, &report),
			Quantity: p.extractQuantity(item, &report),
		}
		if product.SKU != "" {
			products = append(products, product)
		}
	}

	return products, report, nil
}

// findItems locates the repeating item element: first by the known item
// names in priority order (the first name with any match wins, matches are
// never merged across names), then by structural inference over the whole
// tree.
func findItems(root *Element, report *DetectionReport) []*Element {
	for _, name := range itemCandidates {
		var matches []*Element
		root.walk(func(e *Element) {
			if e.Local == name {
				matches = append(matches, e)
			}
		})
		if len(matches) > 0 {
			report.ItemTag = name
			return matches
		}
	}
	return inferItems(root, report)
}

// inferItems guesses the item element when no standard name matches: the tag
// whose elements most often carry at least two child elements, provided it
// repeats enough times to look like a listing.
func inferItems(root *Element, report *DetectionReport) []*Element {
	counts := map[string]int{}
	var order []string
	root.walk(func(e *Element) {
		if len(e.Children) < 2 {
			return
		}
		if _, seen := counts[e.Local]; !seen {
			order = append(order, e.Local)
		}
		counts[e.Local]++
	})

	best := ""
	bestCount := 0
	for _, tag := range order {
		if counts[tag] > bestCount && counts[tag] >= minStructuralItems {
			best = tag
			bestCount = counts[tag]
		}
	}
	if best == "" {
		return nil
	}

	var matches []*Element
	root.walk(func(e *Element) {
		if e.Local == best {
			matches = append(matches, e)
		}
	})
	report.ItemTag = best
	return matches
}

func (p *Parser) extractSKU(item *Element, report *DetectionReport) string {
	for _, tag := range skuCandidates {
		if elem := item.firstDescendant(tag); elem != nil {
			if report.SKU == "" {
				report.SKU = tag
			}
			return elem.Text()
		}
	}
	return ""
}

func (p *Parser) extractName(item *Element, report *DetectionReport) string {
	for _, tag := range nameCandidates {
		if elem := item.firstDescendant(tag); elem != nil {
			if report.Name == "" {
				report.Name = tag
			}
			return elem.Text()
		}
	}
	return "Unknown Product"
}

func (p *Parser) extractPrice(item *Element, report *DetectionReport) float64 {
	for _, tag := range priceCandidates {
		elem := item.firstDescendant(tag)
		if elem == nil {
			continue
		}
		stripped := nonPriceChars.ReplaceAllString(elem.Text(), "")
		price, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			continue
		}
		if report.Price == "" {
			report.Price = tag
		}
		return price
	}
	return 0
}

func (p *Parser) extractQuantity(item *Element, report *DetectionReport) int {
	for _, tag := range quantityCandidates {
		elem := item.firstDescendant(tag)
		if elem == nil {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(elem.Text()))

		if containsWord(p.stock.InStockWords, text) {
			recordQuantity(report, tag+" (Y/N format)")
			return domain.InStockSentinel
		}
		if containsWord(p.stock.OutOfStockWords, text) {
			recordQuantity(report, tag+" (Y/N format)")
			return 0
		}

		if containsPhrase(p.stock.InStockPhrases, text) {
			recordQuantity(report, tag+` (text: "`+text+`")`)
			return domain.InStockSentinel
		}
		if containsPhrase(p.stock.OutOfStockPhrases, text) {
			recordQuantity(report, tag+` (text: "`+text+`")`)
			return 0
		}

		if strings.ContainsAny(text, "0123456789") {
			qty, err := strconv.Atoi(nonDigits.ReplaceAllString(text, ""))
			if err == nil {
				recordQuantity(report, tag+" (numeric)")
				return qty
			}
		}
	}

	recordQuantity(report, "not found (assuming in stock)")
	return domain.InStockSentinel
}

func recordQuantity(report *DetectionReport, detail string) {
	if report.Quantity == "" {
		report.Quantity = detail
	}
}

func containsWord(words []string, text string) bool {
	for _, w := range words {
		if text == w {
			return true
		}
	}
	return false
}

func containsPhrase(phrases []string, text string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}
