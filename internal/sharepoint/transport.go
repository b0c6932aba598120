package sharepoint

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// transport stamps each request with a user agent and correlation id and
// applies the optional client-side rate limit.
type transport struct {
	base      http.RoundTripper
	limiter   *rate.Limiter
	userAgent string
}

func newTransport(base http.RoundTripper, limit rate.Limit, burst int, userAgent string) *transport {
	if burst < 1 {
		burst = 1
	}
	return &transport{
		base:      base,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: userAgent,
	}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return t.base.RoundTrip(req)
}
