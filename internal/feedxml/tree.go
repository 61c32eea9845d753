package feedxml

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Element is one node of a parsed document. The tree keeps only what field
// inference needs: local names, namespace presence, character data, and
// child elements in document order.
type Element struct {
	Local    string
	Space    string
	Children []*Element
	text     strings.Builder
}

// Text returns the concatenated character data of the element and all of its
// descendants, in document order.
func (e *Element) Text() string {
	var b strings.Builder
	e.writeText(&b)
	return b.String()
}

func (e *Element) writeText(b *strings.Builder) {
	b.WriteString(e.text.String())
	for _, child := range e.Children {
		child.writeText(b)
	}
}

// matchesTag reports whether the element answers to a field candidate name.
// A plain candidate matches on the local name regardless of namespace; a
// prefixed candidate such as "g:id" matches the local part only when the
// element itself is namespaced.
func (e *Element) matchesTag(candidate string) bool {
	if i := strings.IndexByte(candidate, ':'); i >= 0 {
		return e.Space != "" && e.Local == candidate[i+1:]
	}
	return e.Local == candidate
}

// firstDescendant returns the first descendant (depth-first, document order)
// matching the candidate tag name, or nil.
func (e *Element) firstDescendant(candidate string) *Element {
	for _, child := range e.Children {
		if child.matchesTag(candidate) {
			return child
		}
		if found := child.firstDescendant(candidate); found != nil {
			return found
		}
	}
	return nil
}

// walk visits the element and every descendant in document order.
func (e *Element) walk(visit func(*Element)) {
	visit(e)
	for _, child := range e.Children {
		child.walk(visit)
	}
}

// parseTree decodes a document into an element tree. The returned error is a
// ParseError of kind Malformed carrying the parser's line number when the
// decoder reports one.
func parseTree(input string) (*Element, error) {
	decoder := xml.NewDecoder(strings.NewReader(input))
	decoder.Strict = true

	var root *Element
	stack := []*Element{}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			var syntaxErr *xml.SyntaxError
			line := 0
			if errors.As(err, &syntaxErr) {
				line = syntaxErr.Line
			}
			return nil, &ParseError{Kind: Malformed, Line: line, Err: err}
		}

		switch t := token.(type) {
		case xml.StartElement:
			elem := &Element{Local: t.Name.Local, Space: t.Name.Space}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Kind: Malformed, Err: errors.New("multiple root elements")}
				}
				root = elem
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, elem)
			}
			stack = append(stack, elem)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	return root, nil
}
