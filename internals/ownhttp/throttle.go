package ownhttp

import (
	"net/http"

	"golang.org/x/time/rate"
)

// ThrottleTransport rate limits outgoing requests. Used for APIs that
// are unhappy about a few hundred library lookups per second
type ThrottleTransport struct {
	T       http.RoundTripper
	limiter *rate.Limiter
}

func (tt *ThrottleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	err := tt.limiter.Wait(req.Context())
	if err != nil {
		return nil, err
	}

	return tt.T.RoundTrip(req)
}

// NewThrottleTransport wraps T (or the default transport) with limiter
func NewThrottleTransport(T http.RoundTripper, limiter *rate.Limiter) *ThrottleTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &ThrottleTransport{T, limiter}
}

// NewThrottledClient is a convenience for clients of rate limited APIs
func NewThrottledClient(version string, requestsPerSecond float64, burst int) *http.Client {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	return &http.Client{
		Transport: NewThrottleTransport(NewAddHeaderTransport(nil, version), limiter),
	}
}
