package transport

import (
	"net/http"
	"time"

	"github.com/dunglas/httpsfv"
)

// RateLimit describes the upstream quota state advertised on a response via
// the structured RateLimit header (draft-ietf-httpapi-ratelimit-headers).
// The CDN in front of the storefront API emits it on throttled routes.
type RateLimit struct {
	// Limit is the quota ceiling for the current window, -1 if not sent.
	Limit int64
	// Remaining is how many requests are left in the window, -1 if not sent.
	Remaining int64
	// Reset is when the window replenishes, if the server said so.
	Reset time.Time
}

// Exhausted reports whether the quota for the current window is spent.
func (r *RateLimit) Exhausted() bool {
	return r != nil && r.Remaining == 0
}

// ParseRateLimit reads the RateLimit structured-field dictionary from h.
// Returns nil when the header is absent or malformed; quota hints are
// advisory and never worth failing a response over.
func ParseRateLimit(h http.Header) *RateLimit {
	raw := h.Values("RateLimit")
	if len(raw) == 0 {
		return nil
	}

	dict, err := httpsfv.UnmarshalDictionary(raw)
	if err != nil {
		return nil
	}

	rl := &RateLimit{Limit: -1, Remaining: -1}
	seen := false

	if v, ok := intMember(dict, "limit"); ok {
		rl.Limit = v
		seen = true
	}
	if v, ok := intMember(dict, "remaining"); ok {
		rl.Remaining = v
		seen = true
	}
	if v, ok := intMember(dict, "reset"); ok {
		// reset is delta-seconds per the draft
		rl.Reset = time.Now().Add(time.Duration(v) * time.Second)
		seen = true
	}

	if !seen {
		return nil
	}
	return rl
}

// intMember extracts an integer item from a structured-field dictionary.
func intMember(dict *httpsfv.Dictionary, key string) (int64, bool) {
	member, ok := dict.Get(key)
	if !ok {
		return 0, false
	}
	item, ok := member.(httpsfv.Item)
	if !ok {
		return 0, false
	}
	v, ok := item.Value.(int64)
	if !ok {
		return 0, false
	}
	return v, true
}
