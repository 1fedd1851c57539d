package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	// DefaultProductsURL is the public catalog the original dataset came from.
	DefaultProductsURL = "https://fakestoreapi.com/products"

	externalAttempts = 3
	externalCopies   = 5
	snippetLimit     = 1000
)

// ExternalCatalog fetches products over HTTP. Each failed attempt waits
// attempt x Backoff before the next one.
type ExternalCatalog struct {
	URL     string
	Backoff time.Duration
	Client  *http.Client
	Log     *zap.Logger
}

// NewExternalCatalog returns a catalog for url with a 10s request timeout.
func NewExternalCatalog(url string, backoff time.Duration, log *zap.Logger) *ExternalCatalog {
	if url == "" {
		url = DefaultProductsURL
	}
	return &ExternalCatalog{
		URL:     url,
		Backoff: backoff,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
}

func (c *ExternalCatalog) Name() string { return "Fake Store API" }

// Products fetches the catalog and repeats it five times.
func (c *ExternalCatalog) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	attempt := 0

	backoff := retry.WithMaxRetries(externalAttempts-1, linearBackoff(c.Backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		fetched, err := c.fetch(ctx)
		if err != nil {
			c.Log.Warn("failed to fetch products",
				zap.Int("attempt", attempt),
				zap.String("url", c.URL),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		products = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch products after %d attempts: %w", attempt, err)
	}

	out := make([]Product, 0, len(products)*externalCopies)
	for i := 0; i < externalCopies; i++ {
		out = append(out, products...)
	}
	return out, nil
}

func (c *ExternalCatalog) fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d - content-type=%s - body=%s", resp.StatusCode, contentType, readSnippet(resp.Body, 200))
	}
	if !strings.Contains(contentType, "application/json") {
		return nil, fmt.Errorf("unexpected content-type: %s - body=%s", contentType, readSnippet(resp.Body, 200))
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// ProbeResult describes a single request to the products URL.
type ProbeResult struct {
	OK          bool   `json:"ok"`
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	BodySnippet string `json:"bodySnippet"`
}

// Probe requests the products URL once and reports what came back. Only
// transport failures are returned as errors.
func (c *ExternalCatalog) Probe(ctx context.Context) (*ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &ProbeResult{
		OK:          resp.StatusCode >= 200 && resp.StatusCode <= 299,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if strings.Contains(result.ContentType, "application/json") {
		var v interface{}
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		body, _ = json.Marshal(v)
	}
	result.BodySnippet = truncate(string(body), snippetLimit)
	return result, nil
}

// linearBackoff waits n x base before the n-th retry.
func linearBackoff(base time.Duration) retry.Backoff {
	var n int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		return time.Duration(atomic.AddInt64(&n, 1)) * base, false
	})
}

func readSnippet(r io.Reader, limit int) string {
	b, _ := io.ReadAll(io.LimitReader(r, int64(limit)))
	return string(b)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
