package admission

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-link-shortener/metrics"
	"go-link-shortener/reputation"
)

// punctuation holds the ASCII punctuation characters used to locate a scheme
// separator in URLs written without "//" after the colon.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Pipeline runs candidate URLs through normalization and the admission
// checks, in order: schema, reachability, reputation, self-reference.
type Pipeline struct {
	prober     Prober
	checker    reputation.Checker
	selfOrigin string
	logger     *zap.Logger
}

// New assembles a Pipeline. checker may be nil, in which case the reputation
// stage is skipped entirely. selfOrigin is the public base URL of this
// service and is used to refuse re-shortening of already shortened URLs.
func New(prober Prober, checker reputation.Checker, selfOrigin string, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		prober:     prober,
		checker:    checker,
		selfOrigin: selfOrigin,
		logger:     logger,
	}
}

// Admit validates raw and returns its canonical form. A *Rejection error
// means the URL was refused; any other error means a check itself failed.
func (p *Pipeline) Admit(ctx context.Context, raw string) (string, error) {
	admitted, err := p.admit(ctx, raw)

	var rejection *Rejection
	switch {
	case err == nil:
		metrics.AdmissionsTotal.WithLabelValues("admitted").Inc()
	case errors.As(err, &rejection):
		metrics.AdmissionsTotal.WithLabelValues(rejection.Category).Inc()
	default:
		metrics.AdmissionsTotal.WithLabelValues("error").Inc()
	}

	return admitted, err
}

func (p *Pipeline) admit(ctx context.Context, raw string) (string, error) {
	candidate, err := applyScheme(normalize(raw))
	if err != nil {
		return "", err
	}

	if err := p.probe(ctx, candidate); err != nil {
		return "", err
	}

	if err := p.checkReputation(ctx, candidate); err != nil {
		return "", err
	}

	if err := p.checkSelfReference(candidate); err != nil {
		return "", err
	}

	return candidate, nil
}

// normalize trims surrounding whitespace and drops every byte outside the
// printable ASCII range.
func normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)

	var b strings.Builder
	b.Grow(len(trimmed))
	for i := 0; i < len(trimmed); i++ {
		if c := trimmed[i]; c >= 0x20 && c <= 0x7E {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// splitScheme extracts the scheme from candidate. A "://" separator always
// wins; otherwise the text before the first punctuation character counts as
// a scheme only when that character is a colon, which catches inputs like
// "mailto:box@host" and "localhost:8080".
func splitScheme(candidate string) (scheme, rest string, ok bool) {
	if idx := strings.Index(candidate, "://"); idx >= 0 {
		return candidate[:idx], candidate[idx:], true
	}
	if idx := strings.IndexAny(candidate, punctuation); idx >= 0 && candidate[idx] == ':' {
		return candidate[:idx], candidate[idx:], true
	}
	return "", "", false
}

// applyScheme canonicalizes the scheme of candidate. Bare URLs get "http://"
// prepended; explicit schemes are lowercased and must be http or https.
func applyScheme(candidate string) (string, error) {
	scheme, rest, ok := splitScheme(candidate)
	if !ok {
		return "http://" + candidate, nil
	}

	lowered := strings.ToLower(scheme)
	if lowered != "http" && lowered != "https" {
		return "", &Rejection{
			Category: CategoryIllegalSchema,
			Reason:   fmt.Sprintf("Scheme %q is not supported, only http and https URLs can be shortened", lowered),
		}
	}

	return lowered + rest, nil
}

func (p *Pipeline) probe(ctx context.Context, candidate string) error {
	start := time.Now()
	status, err := p.prober.Probe(ctx, candidate)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &Rejection{Category: CategoryNotReachable, Reason: "Could not resolve the URL"}
	}

	if status == http.StatusNotFound {
		return &Rejection{Category: CategoryNotFound, Reason: "The URL responded with 404 Not Found"}
	}

	return nil
}

// checkReputation asks the configured checker about the candidate's host.
// Checker failures are logged and admitted rather than blocking the URL.
func (p *Pipeline) checkReputation(ctx context.Context, candidate string) error {
	if p.checker == nil {
		return nil
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return nil
	}
	host := parsed.Hostname()

	categories, err := p.checker.Check(ctx, host)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.ReputationCheckFailures.Inc()
		p.logger.Warn("Reputation check failed, admitting URL unchecked",
			zap.String("host", host),
			zap.Error(err))
		return nil
	}

	if len(categories) > 0 {
		return &Rejection{Category: CategoryUnsafe, Reason: unsafeReason(categories)}
	}

	return nil
}

func unsafeReason(categories []string) string {
	lowered := make([]string, len(categories))
	for i, category := range categories {
		lowered[i] = strings.ToLower(category)
	}
	return "This page may contain " + strings.Join(lowered, ", ")
}

// checkSelfReference refuses URLs that point back into this service, except
// for the origin itself.
func (p *Pipeline) checkSelfReference(candidate string) error {
	if p.selfOrigin == "" {
		return nil
	}
	if strings.HasPrefix(candidate, p.selfOrigin) && candidate != p.selfOrigin {
		return &Rejection{
			Category: CategorySelfReference,
			Reason:   "Already shortened URLs cannot be shortened again",
		}
	}
	return nil
}
