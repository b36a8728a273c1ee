package llm

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/arkanhakim/catatduit/internal/kv"
)

const (
	// minCooldown is the floor applied to any computed cooldown window.
	minCooldown = 5 * time.Second

	// quotaThreshold marks a model limited once remaining quota drops to
	// this fraction of the limit.
	quotaThreshold = 0.05

	rateLimitKeyPrefix = "ratelimit:"
)

// RateLimitTracker keeps per-model cooldown flags in the cache store. A
// flag's TTL is the cooldown duration, so expiry is temporal and no
// explicit unset is needed.
type RateLimitTracker struct {
	store           kv.Store
	defaultCooldown time.Duration
}

// NewRateLimitTracker creates a tracker backed by the given store.
func NewRateLimitTracker(store kv.Store, defaultCooldown time.Duration) *RateLimitTracker {
	if defaultCooldown <= 0 {
		defaultCooldown = time.Minute
	}
	return &RateLimitTracker{
		store:           store,
		defaultCooldown: defaultCooldown,
	}
}

// IsLimited reports whether the model is currently cooling down.
func (t *RateLimitTracker) IsLimited(model string) bool {
	return t.store.Has(rateLimitKeyPrefix + model)
}

// MarkLimited flags the model for the given cooldown duration.
func (t *RateLimitTracker) MarkLimited(model string, cooldown time.Duration) {
	if cooldown < minCooldown {
		cooldown = minCooldown
	}
	t.store.Put(rateLimitKeyPrefix+model, "1", cooldown)
}

// ObserveHeaders proactively marks a model limited before a 429 occurs,
// based on remaining-quota response headers.
func (t *RateLimitTracker) ObserveHeaders(model string, headers http.Header) {
	if headers == nil {
		return
	}

	checks := []struct {
		remaining string
		limit     string
		reset     string
	}{
		{"x-ratelimit-remaining-requests", "x-ratelimit-limit-requests", "x-ratelimit-reset-requests"},
		{"x-ratelimit-remaining-tokens", "x-ratelimit-limit-tokens", "x-ratelimit-reset-tokens"},
	}

	for _, c := range checks {
		remaining, okR := headerFloat(headers, c.remaining)
		limit, okL := headerFloat(headers, c.limit)
		if !okR || !okL || limit <= 0 {
			continue
		}

		if remaining/limit <= quotaThreshold {
			cooldown := parseResetWindow(headers.Get(c.reset))
			if cooldown <= 0 {
				cooldown = t.defaultCooldown
			}
			t.MarkLimited(model, cooldown)
			return
		}
	}
}

// CooldownFromError extracts a retry-after duration from a provider error
// message, falling back to the tracker default.
func (t *RateLimitTracker) CooldownFromError(err error) time.Duration {
	if err == nil {
		return t.defaultCooldown
	}

	msg := strings.ToLower(err.Error())

	if m := retryAfterSecondsRe.FindStringSubmatch(msg); len(m) == 2 {
		if secs, convErr := strconv.Atoi(m[1]); convErr == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	// Providers also embed "try again in 2m59.56s" style windows.
	if m := tryAgainRe.FindStringSubmatch(msg); len(m) == 2 {
		if d, parseErr := time.ParseDuration(m[1]); parseErr == nil && d > 0 {
			return d
		}
	}

	return t.defaultCooldown
}

var (
	retryAfterSecondsRe = regexp.MustCompile(`retry-after:?\s*(\d+)`)
	tryAgainRe          = regexp.MustCompile(`try again in ([\d.]+m?[\d.]*s)`)
)

// IsRateLimitError classifies an error as rate-limit flavored.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "429")
}

// headerFloat parses a numeric header value.
func headerFloat(headers http.Header, key string) (float64, bool) {
	v := headers.Get(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseResetWindow parses reset windows formatted as Go-style durations,
// e.g. "2m59.56s" or "7.66s". Returns 0 when unparseable.
func parseResetWindow(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
