package admission

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Prober checks whether a candidate URL responds over HTTP and reports the
// status code of the response.
type Prober interface {
	Probe(ctx context.Context, url string) (int, error)
}

// HTTPProber probes candidate URLs with plain GET requests.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber returns a prober whose requests give up after timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{Timeout: timeout},
	}
}

// Probe issues a GET request against url and returns the response status.
// Redirects are followed, so the status reflects the final destination.
func (p *HTTPProber) Probe(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain a bounded amount of the body so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	return resp.StatusCode, nil
}
