package feedxml

import (
	"fmt"
	"strings"
)

// ParseErrorKind classifies why a feed could not be parsed.
type ParseErrorKind string

const (
	// Malformed means the XML itself failed to parse.
	Malformed ParseErrorKind = "malformed"
	// NoRoot means the document contains no root element.
	NoRoot ParseErrorKind = "no_root"
	// HtmlNotXml means the document is an HTML page, typically an error or
	// redirect page returned in place of the feed.
	HtmlNotXml ParseErrorKind = "html_not_xml"
	// NoItemsDetected means no repeating item element could be located.
	NoItemsDetected ParseErrorKind = "no_items_detected"
)

// ParseError carries enough context for a human to fix the input: the line
// number when the XML parser reported one, the root tag, and the item names
// that were tried.
type ParseError struct {
	Kind    ParseErrorKind
	Line    int
	RootTag string
	Tried   []string
	Err     error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case Malformed:
		if e.Line > 0 {
			return fmt.Sprintf("xml parsing failed at line %d: %v", e.Line, e.Err)
		}
		return fmt.Sprintf("xml parsing failed: %v", e.Err)
	case NoRoot:
		return "invalid xml: no root element found"
	case HtmlNotXml:
		return "got html instead of xml: the source returned a web page, not a feed"
	case NoItemsDetected:
		return fmt.Sprintf("no product items found: root <%s>, tried %s; cannot detect product structure automatically",
			e.RootTag, strings.Join(e.Tried, ", "))
	default:
		return fmt.Sprintf("feed parse error: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
