// Package fetch retrieves remote feed documents. It is the only part of the
// system that touches the network; parsing never does.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotXML reports a response body that is not an XML document, typically an
// HTML error page served where a feed was expected.
var ErrNotXML = errors.New("response is not xml: the url may be blocked or returning a web page")

// SourceError wraps a failure to read from a feed source (network error,
// timeout, bad status). The underlying reason is preserved for errors.Is/As.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to read source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Client fetches feed XML over HTTP with a bounded wait.
type Client struct {
	http *http.Client
}

// NewClient creates a client. A non-positive timeout falls back to the
// 30-second bound expected of feed fetches.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// FetchXML downloads the document at url and verifies it plausibly is XML:
// the body must start with '<' after trimming whitespace. Transport failures,
// timeouts, and non-2xx statuses come back as *SourceError; a non-XML body
// comes back as ErrNotXML wrapped in *SourceError.
func (c *Client) FetchXML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &SourceError{Source: url, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &SourceError{Source: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SourceError{Source: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SourceError{Source: url, Err: err}
	}

	text := string(body)
	if !strings.HasPrefix(strings.TrimSpace(text), "<") {
		return "", &SourceError{Source: url, Err: ErrNotXML}
	}

	return text, nil
}
