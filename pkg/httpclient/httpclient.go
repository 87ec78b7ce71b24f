package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPDoer captures the subset of *http.Client the hafas client relies on.
// Tests inject fake implementations of this interface so they can run
// without talking to an operator.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MaxRedirects is the number of redirects followed before a request fails.
const MaxRedirects = 10

var ErrTooManyRedirects = errors.New("too many redirects")

// CheckRedirect is an http.Client.CheckRedirect policy that follows at most
// MaxRedirects redirects and keeps the original request headers.
func CheckRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= MaxRedirects {
		return fmt.Errorf("stopped after %d redirects: %w", len(via), ErrTooManyRedirects)
	}
	if len(via) > 0 {
		for k, vals := range via[0].Header {
			if _, ok := req.Header[k]; !ok {
				req.Header[k] = append([]string(nil), vals...)
			}
		}
	}
	return nil
}

// New returns an *http.Client with the redirect policy and the given
// transport. A zero timeout means no timeout.
func New(rt http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport:     rt,
		Timeout:       timeout,
		CheckRedirect: CheckRedirect,
	}
}
