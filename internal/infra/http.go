package infra

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// DefaultUserAgent is the browser user agent sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ErrHTTP wraps a non-2xx HTTP response.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Transient reports whether the failure is worth retrying: 5xx responses
// are transient, everything else (4xx, malformed) is permanent.
func (e *ErrHTTP) Transient() bool { return e.StatusCode >= 500 }

// HTTPOptions tunes the retrying GET helper.
type HTTPOptions struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	MaxRetries     int
	Backoff        time.Duration // base delay, doubled on each retry
	Headers        map[string]string
	Client         *http.Client // optional; built from timeouts when nil
	sleep          func(time.Duration)
}

// DefaultHTTPOptions returns conservative defaults: 10s connect, 60s read,
// 3 attempts with a 5s exponential backoff base.
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    60 * time.Second,
		MaxRetries:     3,
		Backoff:        5 * time.Second,
	}
}

// GetWithRetry performs a GET with bounded retries and exponential backoff.
// Only transient failures are retried: network errors and 5xx responses.
// 4xx responses propagate immediately as *ErrHTTP without a retry.
func GetWithRetry(ctx context.Context, url, name string, opts HTTPOptions) ([]byte, error) {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.ConnectTimeout + opts.ReadTimeout}
	}
	sleep := opts.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		body, err := getOnce(ctx, client, url, opts.Headers)
		if err == nil {
			return body, nil
		}

		if httpErr, ok := err.(*ErrHTTP); ok && !httpErr.Transient() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}

		lastErr = err
		if attempt < opts.MaxRetries {
			wait := opts.Backoff * (1 << (attempt - 1))
			log.Printf("[%s] attempt %d/%d failed: %v — retrying in %s", name, attempt, opts.MaxRetries, err, wait)
			sleep(wait)
		}
	}
	return nil, fmt.Errorf("[%s] all %d attempts failed: %w", name, opts.MaxRetries, lastErr)
}

func getOnce(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json, text/csv, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(snippet),
		}
	}

	return io.ReadAll(resp.Body)
}
