// Package reputation queries an external host reputation service.
//
// The wire format is a JSONP callback wrapping per-host category verdicts,
// as served by WOT-style public APIs. Categories outside the recognized
// table are ignored, and a missing host entry means the host is clear.
package reputation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-link-shortener/cache"
)

// maxResponseSize bounds how much of the reputation response is read.
const maxResponseSize = 1 << 20

// callbackPrefix and callbackSuffix frame the JSONP envelope.
const (
	callbackPrefix = "process("
	callbackSuffix = ")"
)

// Checker reports which threat categories a host is flagged with. An empty
// result means the host is clear. Errors are the caller's signal to fail
// open, never a verdict.
type Checker interface {
	Check(ctx context.Context, host string) ([]string, error)
}

// categoryNames maps the reputation service's numeric category identifiers
// to their display names. Identifiers outside this table are ignored.
var categoryNames = map[string]string{
	"101": "Malware or viruses",
	"103": "Phishing attempts",
	"104": "Scams",
	"105": "Potentially illegal elements",
	"203": "Suspicious elements",
	"204": "Hate, discrimination",
	"205": "Spam",
	"206": "Potentially unwanted programs",
}

// ClientConfig carries the settings for a reputation Client.
type ClientConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	RPS      float64 // outbound request quota toward the reputation API
	Burst    int
	CacheTTL time.Duration
}

// Client checks hosts against a WOT-style JSONP reputation API.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewClient builds a reputation client. verdictCache may be nil, in which
// case every check goes straight to the API.
func NewClient(cfg ClientConfig, verdictCache cache.Cache, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Limit(cfg.RPS)
	burst := cfg.Burst
	if cfg.RPS <= 0 {
		limit = rate.Inf
		burst = 0
	} else if burst <= 0 {
		burst = 1
	}

	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(limit, burst),
		cache:    verdictCache,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
	}
}

// verdict is the cached form of a reputation answer.
type verdict struct {
	Categories []string `json:"categories"`
}

// Check returns the recognized category names host is flagged with. Verdicts
// are served from the cache when possible; cache failures degrade to a
// direct API call.
func (c *Client) Check(ctx context.Context, host string) ([]string, error) {
	key := cacheKey(host)

	if c.cache != nil {
		var v verdict
		err := c.cache.GetJSON(ctx, key, &v)
		if err == nil {
			return v.Categories, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.Debug("Verdict cache read failed", zap.String("host", host), zap.Error(err))
		}
	}

	categories, err := c.query(ctx, host)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, key, verdict{Categories: categories}, c.cacheTTL); err != nil {
			c.logger.Debug("Verdict cache write failed", zap.String("host", host), zap.Error(err))
		}
	}

	return categories, nil
}

func cacheKey(host string) string {
	return "reputation:" + host
}

// query performs one rate-limited API call.
func (c *Client) query(ctx context.Context, host string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("reputation quota: %w", err)
	}

	params := url.Values{}
	params.Set("hosts", host+"/")
	params.Set("callback", "process")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building reputation request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reputation request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading reputation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reputation service returned status %d", resp.StatusCode)
	}

	return parseVerdict(body, host)
}

// parseVerdict unwraps the JSONP envelope and collects the recognized
// category names for host.
func parseVerdict(body []byte, host string) ([]string, error) {
	payload := strings.TrimSpace(string(body))
	if !strings.HasPrefix(payload, callbackPrefix) || !strings.HasSuffix(payload, callbackSuffix) {
		return nil, fmt.Errorf("reputation payload is not a %s...%s callback", callbackPrefix, callbackSuffix)
	}
	payload = strings.TrimSuffix(strings.TrimPrefix(payload, callbackPrefix), callbackSuffix)

	var hosts map[string]struct {
		Categories map[string]json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal([]byte(payload), &hosts); err != nil {
		return nil, fmt.Errorf("decoding reputation payload: %w", err)
	}

	entry, ok := hosts[host]
	if !ok || len(entry.Categories) == 0 {
		return nil, nil
	}

	var names []string
	for id := range entry.Categories {
		if name, known := categoryNames[id]; known {
			names = append(names, name)
		}
	}
	// Stable output regardless of map iteration order.
	sort.Strings(names)
	return names, nil
}
