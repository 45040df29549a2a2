package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

// Fetcher retrieves single documents politely: custom user agent, request
// timeout, rate limiting, and bounded retries on transient statuses.
type Fetcher struct {
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	transport http.RoundTripper
	retries   int
}

// FetchError is any network or HTTP failure while retrieving a document.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	if e.Status == 0 {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Option tunes a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithTransport injects a round tripper, used by tests to stub the network.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

func NewFetcher(userAgent string, opts ...Option) *Fetcher {
	if userAgent == "" {
		userAgent = "fsf-api/1.0"
	}
	f := &Fetcher{
		userAgent: userAgent,
		timeout:   15 * time.Second,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 2),
		retries:   3,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchBytes GETs rawURL and returns the response body. Transient statuses
// (429, 5xx) are retried with backoff; anything else fails on the first
// attempt. All failures come back as *FetchError.
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	var (
		body    []byte
		status  int
		lastErr error
	)
	for attempt := 0; attempt < f.retries; attempt++ {
		if ctx.Err() != nil {
			return nil, &FetchError{URL: target, Err: ctx.Err()}
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: target, Err: err}
		}

		body, status, lastErr = f.fetchOnce(ctx, target)
		if lastErr == nil {
			return body, nil
		}
		if !shouldRetry(status) || attempt == f.retries-1 {
			break
		}
		backoff := time.Duration(500*(1<<attempt)) * time.Millisecond
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, &FetchError{URL: target, Status: status, Err: ctx.Err()}
		}
	}
	return nil, &FetchError{URL: target, Status: status, Err: lastErr}
}

func (f *Fetcher) fetchOnce(ctx context.Context, target string) ([]byte, int, error) {
	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.SetRequestTimeout(f.timeout)
	if f.transport != nil {
		c.WithTransport(f.transport)
	}

	var (
		body   []byte
		status int
		reqErr error
	)
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	if err := c.Visit(target); err != nil {
		return nil, status, err
	}
	if reqErr != nil {
		return nil, status, reqErr
	}
	if status >= 400 {
		return nil, status, fmt.Errorf("status %d", status)
	}
	return body, status, nil
}

func normalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String(), nil
}

func shouldRetry(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}
