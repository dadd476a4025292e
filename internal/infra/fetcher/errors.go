package fetcher

import "errors"

// Sentinel errors wrapped inside *entity.FetchError so callers can tell
// failure modes apart with errors.Is.
var (
	// ErrInvalidURL indicates a malformed URL or a scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the host resolves to a loopback, private, or
	// link-local address.
	ErrPrivateIP = errors.New("URL resolves to private IP address")

	// ErrTooManyRedirects indicates the redirect chain exceeded MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded MaxBodySize.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request did not complete within Timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrHTTPStatus indicates a non-2xx response.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrCircuitOpen indicates fetching is suspended after repeated failures.
	ErrCircuitOpen = errors.New("page fetching temporarily suspended")
)
