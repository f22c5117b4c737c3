package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the oracle transport layer. Callers branch with
// errors.Is; the wrapped chain keeps the provider detail.
var (
	// ErrInvalidCredential means the configured API key failed the local
	// pre-flight check. No network call was made.
	ErrInvalidCredential = errors.New("llm: invalid credential")

	// ErrAuthenticationFailed means the provider rejected the API key (401).
	ErrAuthenticationFailed = errors.New("llm: authentication failed")

	// ErrBadRequest means the provider rejected the request itself (400),
	// typically an unknown model identifier.
	ErrBadRequest = errors.New("llm: bad request")

	// ErrRateLimited means the provider throttled the request (429).
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrTransport covers network-level failures and unexpected status codes.
	ErrTransport = errors.New("llm: transport error")

	// ErrMalformedResponse means the provider returned 2xx but the body did
	// not carry choices[0].message.content.
	ErrMalformedResponse = errors.New("llm: malformed response")
)

// statusError maps an HTTP status and provider message to a sentinel error.
func statusError(status int, providerMsg string) error {
	switch status {
	case 401:
		return fmt.Errorf("%w (status 401): %s", ErrAuthenticationFailed, providerMsg)
	case 400:
		return fmt.Errorf("%w (status 400): %s", ErrBadRequest, providerMsg)
	case 429:
		return fmt.Errorf("%w (status 429): %s", ErrRateLimited, providerMsg)
	default:
		return fmt.Errorf("%w (status %d): %s", ErrTransport, status, providerMsg)
	}
}
