// Package fetch is a thin HTTP client for the schedule sources. It applies
// a fixed timeout, retries transient failures with exponential backoff, and
// reports failures as typed Timeout/Connection/HTTP errors.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const UserAgent = "soccer-cal/1.0 (github.com/pfrederiksen/soccer-cal)"

// TimeoutError indicates the request exceeded the client timeout.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %s", e.URL)
}

// ConnectionError indicates the request never produced an HTTP response.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// HTTPError indicates a non-2xx response status.
type HTTPError struct {
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.URL)
}

// Client fetches raw schedule documents.
type Client struct {
	httpClient *http.Client
	maxRetries uint64
}

// NewClient creates a client with the given per-request timeout and number
// of retries for transient failures.
func NewClient(timeout time.Duration, retries int) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: uint64(retries),
	}
}

// Get fetches the document at rawURL and returns its body. Connection
// failures and 5xx responses are retried; other failures are returned
// immediately as typed errors.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return classifyTransportError(rawURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			httpErr := &HTTPError{URL: rawURL, Status: resp.StatusCode}
			if resp.StatusCode >= 500 {
				return httpErr
			}
			return backoff.Permanent(httpErr)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &ConnectionError{URL: rawURL, Err: err}
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

// classifyTransportError maps a transport failure to a typed error.
// Timeouts are permanent: the per-id budget is a single timeout window,
// not timeout-times-retries.
func classifyTransportError(rawURL string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return backoff.Permanent(&TimeoutError{URL: rawURL})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return backoff.Permanent(&TimeoutError{URL: rawURL})
	}
	if errors.Is(err, context.Canceled) {
		return backoff.Permanent(err)
	}
	return &ConnectionError{URL: rawURL, Err: err}
}
