// Package httputil fetches remote component libraries over HTTP.
//
// # Overview
//
//   - [Client]: GET with retry and an on-disk response cache
//   - [Cache]: file-based byte cache with a time-to-live
//   - [Retry]: retry with exponential backoff for transient failures
//
// The CLI uses this for `gridwire lib import <url>`, so a library shared
// on a web server can be imported like a local file:
//
//	client, err := httputil.NewClient("", 24*time.Hour)
//	if err != nil {
//	    return err
//	}
//	data, err := client.Get(ctx, "https://example.com/gates.toml")
//
// Responses with status 429 or 5xx and network errors are retried; other
// non-2xx responses fail immediately. Cached bodies are served until their
// TTL expires.
package httputil
