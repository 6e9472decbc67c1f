package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Retry bounds transient-failure handling for adapter requests. Rate-limit
// responses (429), server errors, and transport errors are retried with a
// fixed backoff; other client errors fail immediately.
type Retry struct {
	MaxAttempts int
	Backoff     time.Duration
	MinInterval time.Duration // local pacing between requests
}

// DefaultRetry matches the upstream services' documented tolerances.
func DefaultRetry() Retry {
	return Retry{MaxAttempts: 3, Backoff: 5 * time.Second, MinInterval: 500 * time.Millisecond}
}

func (r Retry) attempts() int {
	if r.MaxAttempts < 1 {
		return 1
	}
	return r.MaxAttempts
}

// caller is the shared HTTP core for all adapters: pacing, bounded retry,
// JSON decoding.
type caller struct {
	hc     *http.Client
	retry  Retry
	logger *slog.Logger
	last   time.Time
}

func newCaller(hc *http.Client, retry Retry, logger *slog.Logger) *caller {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &caller{hc: hc, retry: retry, logger: logger}
}

// getJSON performs a paced, retried GET and decodes the body into out.
// decorate applies per-source auth headers to the request.
func (c *caller) getJSON(ctx context.Context, url string, query map[string]string, decorate func(*http.Request), out any) error {
	return c.doJSON(ctx, http.MethodGet, url, query, "", decorate, out)
}

// doJSON takes the body as a string so every retry attempt sends a fresh
// reader.
func (c *caller) doJSON(ctx context.Context, method, url string, query map[string]string, body string, decorate func(*http.Request), out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.retry.attempts(); attempt++ {
		if err := c.pace(ctx); err != nil {
			return err
		}
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
		if decorate != nil {
			decorate(req)
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
		} else {
			lastErr = c.consume(resp, out)
			if lastErr == nil {
				return nil
			}
			if !retryable(resp.StatusCode) {
				return lastErr
			}
		}

		if attempt < c.retry.attempts() {
			c.logger.Warn("request failed, retrying",
				"url", url, "attempt", attempt, "error", lastErr)
			if err := sleepCtx(ctx, c.retry.Backoff); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%s %s: %w", method, url, lastErr)
}

func (c *caller) consume(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *caller) pace(ctx context.Context) error {
	if c.retry.MinInterval <= 0 {
		return nil
	}
	if wait := c.retry.MinInterval - time.Since(c.last); wait > 0 {
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
	c.last = time.Now()
	return nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
