// Package registry implements the read-only HTTP client for the remote
// connector catalog.
//
// The client exposes four calls (GetServers, GetServerDetails,
// GetCategories, SearchServers) and caches their responses in memory with
// per-resource lifetimes (listings 5m, details 1h, categories 24h). Any
// filter or search parameter bypasses the cache.
//
// # Retry Policy
//
// Network failures, 5xx responses, and 429 responses are retried up to the
// configured attempt count with a fixed delay. A 429's Retry-After header
// (seconds) overrides the delay. Other 4xx responses fail immediately.
//
// # Error Taxonomy
//
// Failures surface as typed errors, each carrying a stable machine-readable
// code via its Code method:
//
//	AuthError       AUTH_001  (401)
//	NotFoundError   RES_001   (404)
//	ValidationError VAL_001   (400 and other 4xx)
//	RateLimitError  RATE_001  (429, carries Retry-After)
//	ServerError     SRV_001   (5xx, carries request id when provided)
//	NetworkError    NET_001   (transport failure)
//
// Use errors.As to inspect them:
//
//	var rateErr *registry.RateLimitError
//	if errors.As(err, &rateErr) {
//	    time.Sleep(rateErr.RetryAfter)
//	}
package registry
