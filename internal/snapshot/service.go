// Package snapshot orchestrates feed parsing into persisted snapshot
// documents and the comparison of two such documents.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rpattn/feedtrack/internal/domain"
	"github.com/rpattn/feedtrack/internal/feedxml"
)

var (
	// ErrNoSource means the caller supplied neither a file, a url, nor
	// pasted feed content.
	ErrNoSource = errors.New("no xml source provided: upload a file, give a feed url, or paste xml content")

	// ErrEmptyResult means parsing succeeded structurally but no item
	// carried a resolvable sku.
	ErrEmptyResult = errors.New("no products found in xml: check the feed format")

	sourceNameChars = regexp.MustCompile(`[^a-zA-Z0-9-_]`)
)

// EventRecorder receives fire-and-forget analytics notifications. Recording
// must never block or fail the calling operation.
type EventRecorder interface {
	Record(event string, properties map[string]any)
}

// Fetcher retrieves remote feed text. Satisfied by *fetch.Client.
type Fetcher interface {
	FetchXML(ctx context.Context, url string) (string, error)
}

// Service builds snapshots from feed sources and compares persisted
// snapshot documents.
type Service struct {
	parser  *feedxml.Parser
	fetcher Fetcher
	events  EventRecorder
	now     func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithEventRecorder attaches an analytics recorder. Without one, operations
// simply go unrecorded.
func WithEventRecorder(r EventRecorder) ServiceOption {
	return func(s *Service) { s.events = r }
}

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the parser and fetch collaborators into a snapshot
// service.
func NewService(parser *feedxml.Parser, fetcher Fetcher, opts ...ServiceOption) *Service {
	s := &Service{
		parser:  parser,
		fetcher: fetcher,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest carries the possible feed inputs. When several are supplied
// the service applies the fixed priority file > url > manual paste.
type CreateRequest struct {
	FileName    string
	FileContent string
	URL         string
	Manual      string
}

// Result is a created snapshot plus its diagnostics and the suggested
// filename for the persisted document.
type Result struct {
	Snapshot  domain.Snapshot         `json:"snapshot"`
	Detection feedxml.DetectionReport `json:"detection"`
	Filename  string                  `json:"filename"`
}

// Create parses one feed input into an immutable snapshot. The feed text is
// read fully before parsing starts; parsing itself is CPU-bound and never
// awaits external state.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Result, error) {
	xmlText, source, sourceType, err := s.resolveSource(ctx, req)
	if err != nil {
		s.recordError("snapshot_creation", err)
		return Result{}, err
	}

	products, detection, err := s.parser.Parse(xmlText)
	if err != nil {
		s.recordError("snapshot_creation", err)
		return Result{}, err
	}
	if len(products) == 0 {
		s.recordError("snapshot_creation", ErrEmptyResult)
		return Result{}, ErrEmptyResult
	}

	now := s.now()
	snap := domain.NewSnapshot(source, sourceType, products, now)

	if s.events != nil {
		s.events.Record("snapshot_created", map[string]any{
			"source":       string(sourceType),
			"productCount": len(products),
		})
	}

	return Result{
		Snapshot:  snap,
		Detection: detection,
		Filename:  fmt.Sprintf("snapshot-%s-%s.json", source, now.UTC().Format("2006-01-02")),
	}, nil
}

// Compare deserializes two persisted snapshot documents and diffs them.
// Both documents must already be fully read; comparison runs only once both
// are in hand.
func (s *Service) Compare(oldDoc, newDoc []byte) (domain.Comparison, error) {
	oldSnap, err := domain.UnmarshalSnapshot(oldDoc)
	if err != nil {
		s.recordError("comparison", err)
		return domain.Comparison{}, fmt.Errorf("old snapshot: %w", err)
	}
	newSnap, err := domain.UnmarshalSnapshot(newDoc)
	if err != nil {
		s.recordError("comparison", err)
		return domain.Comparison{}, fmt.Errorf("new snapshot: %w", err)
	}

	comparison := domain.Compare(oldSnap, newSnap)

	if s.events != nil {
		s.events.Record("comparison_made", map[string]any{
			"totalChanges":    comparison.Summary.TotalChanges,
			"newProducts":     len(comparison.Changes.NewProducts),
			"removedProducts": len(comparison.Changes.RemovedProducts),
		})
	}

	return comparison, nil
}

func (s *Service) resolveSource(ctx context.Context, req CreateRequest) (xmlText, source string, sourceType domain.SourceType, err error) {
	switch {
	case req.FileContent != "":
		return req.FileContent, fileSourceName(req.FileName), domain.SourceFile, nil
	case strings.TrimSpace(req.URL) != "":
		feedURL := strings.TrimSpace(req.URL)
		text, fetchErr := s.fetcher.FetchXML(ctx, feedURL)
		if fetchErr != nil {
			return "", "", "", fetchErr
		}
		return text, urlSourceName(feedURL), domain.SourceURL, nil
	case strings.TrimSpace(req.Manual) != "":
		return req.Manual, "manual", domain.SourceManual, nil
	default:
		return "", "", "", ErrNoSource
	}
}

func (s *Service) recordError(operation string, err error) {
	if s.events == nil {
		return
	}
	s.events.Record("error", map[string]any{
		"errorType":    operation,
		"errorMessage": err.Error(),
	})
}

// fileSourceName derives the supplier label from an uploaded filename:
// extension dropped, anything outside [a-zA-Z0-9-_] collapsed to '-',
// lower-cased.
func fileSourceName(name string) string {
	base := strings.TrimSuffix(name, ".xml")
	base = strings.TrimSuffix(base, ".XML")
	base = sourceNameChars.ReplaceAllString(base, "-")
	base = strings.ToLower(base)
	if base == "" {
		return "file"
	}
	return base
}

// urlSourceName derives the supplier label from a feed url's host name.
func urlSourceName(feedURL string) string {
	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Hostname() == "" {
		return "supplier"
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}
	if host == "" {
		return "supplier"
	}
	return host
}
