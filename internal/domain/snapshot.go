package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// InStockSentinel is the quantity recorded when a feed reports availability
// without an explicit count ("in stock", "Y", ...).
const InStockSentinel = 999

// SourceType identifies where a snapshot's feed text came from.
type SourceType string

const (
	SourceFile   SourceType = "file"
	SourceURL    SourceType = "url"
	SourceManual SourceType = "manual"
)

// Product is one normalized feed item. SKU is the identity key; the parser
// never emits a product without one.
type Product struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Snapshot is a point-in-time extraction of a feed. Immutable once created;
// callers own its lifetime (it is persisted as a standalone JSON document,
// never stored server side).
type Snapshot struct {
	Timestamp     string     `json:"timestamp"`
	Date          string     `json:"date"`
	Source        string     `json:"source"`
	SourceType    SourceType `json:"sourceType"`
	Products      []Product  `json:"products"`
	TotalProducts int        `json:"totalProducts"`
}

// ErrSnapshotFormat reports a persisted snapshot document that does not
// deserialize into the canonical shape.
var ErrSnapshotFormat = errors.New("snapshot document is missing a products list")

// NewSnapshot stamps a snapshot from parsed products. The date field uses
// day-first formatting to match the display convention of exported documents.
func NewSnapshot(source string, sourceType SourceType, products []Product, now time.Time) Snapshot {
	return Snapshot{
		Timestamp:     now.UTC().Format(time.RFC3339),
		Date:          now.Format("02/01/2006"),
		Source:        source,
		SourceType:    sourceType,
		Products:      products,
		TotalProducts: len(products),
	}
}

// MarshalSnapshot renders the canonical indented JSON document.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot parses a persisted snapshot document and validates the
// canonical shape. A document without a products sequence is rejected with
// ErrSnapshotFormat before it can reach the comparison engine.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var probe struct {
		Products *[]Product `json:"products"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Snapshot{}, err
	}
	if probe.Products == nil {
		return Snapshot{}, ErrSnapshotFormat
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	if s.TotalProducts == 0 {
		s.TotalProducts = len(s.Products)
	}
	return s, nil
}
