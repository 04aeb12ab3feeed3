package ownhttp

import (
	"fmt"
	"net/http"
)

// New returns a new http.Client with the AddHeaderTransport (setting the User-Agent header)
func New(version string) *http.Client {
	return &http.Client{Transport: NewAddHeaderTransport(nil, version)}
}

// AddHeaderTransport sets our User-Agent on every request
type AddHeaderTransport struct {
	T         http.RoundTripper
	userAgent string
}

func (adt *AddHeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", adt.userAgent)
	return adt.T.RoundTrip(req)
}

// NewAddHeaderTransport wraps T (or the default transport) with the
// User-Agent header
func NewAddHeaderTransport(T http.RoundTripper, version string) *AddHeaderTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &AddHeaderTransport{
		T:         T,
		userAgent: fmt.Sprintf("lodestone/%s (+https://github.com/lodestonemc/lodestone)", version),
	}
}
