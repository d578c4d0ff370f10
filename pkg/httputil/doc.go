// Package httputil fetches remote resources for exports.
//
// # Overview
//
// Exported diagrams inline the images referenced by items so the SVG is
// self-contained. This package provides the infrastructure:
//
//   - [Fetcher]: resolves data:, file and http(s) references to bytes
//   - [Cache]: file-based caching of fetched resources
//   - [Retry]: automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores entries as JSON files under ~/.cache/supplychain/ with a
// configurable TTL. Keys are hashed, so any string is a valid key; use
// [Cache.Namespace] to keep unrelated entries apart.
//
// # Retry
//
// [Retry] only retries errors wrapped in [RetryableError]. The fetcher
// marks network errors, 5xx responses and 429 responses as retryable:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetchOnce(ctx, url)
//	})
//
// The cache can be cleared via `supplychain cache clear` or by deleting
// the cache directory.
package httputil
