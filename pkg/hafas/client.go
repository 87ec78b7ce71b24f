// Package hafas is a client for HAFAS "mgate/rest" trip-planning APIs.
//
// A Client is built from a Profile holding the operator configuration and
// the parser and formatter functions. Operations validate their input
// before any network call, send one request and hand the normalized
// response to the profile's parsers.
package hafas

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/r9s-ai/hafas-rest-client/pkg/httpclient"
)

// Config holds the construction-time settings of a Client that are not part
// of the profile.
type Config struct {
	// HTTPClient sends the requests. Nil means an *http.Client following at
	// most httpclient.MaxRedirects redirects.
	HTTPClient httpclient.HTTPDoer
	// Debug echoes every request URL and response body to DebugOut.
	Debug bool
	// DebugOut defaults to os.Stderr.
	DebugOut io.Writer
	// Random seeds the user agent id. Defaults to crypto/rand.
	Random io.Reader
}

// Client is safe for concurrent use.
type Client struct {
	profile  Profile
	http     httpclient.HTTPDoer
	ua       userAgent
	debugOut io.Writer
}

// New validates p and returns a client bound to a private copy of it.
func New(p Profile, cfg Config) (*Client, error) {
	if missing := p.Missing(); len(missing) > 0 {
		return nil, &MissingCapabilitiesError{Missing: missing}
	}
	ua, err := newUserAgent(p.UserAgent, cfg.Random)
	if err != nil {
		return nil, fmt.Errorf("hafas: user agent id: %w", err)
	}
	doer := cfg.HTTPClient
	if doer == nil {
		doer = httpclient.New(http.DefaultTransport, 0)
	}
	c := &Client{
		profile: p.clone(),
		http:    doer,
		ua:      ua,
	}
	if cfg.Debug {
		c.debugOut = cfg.DebugOut
		if c.debugOut == nil {
			c.debugOut = os.Stderr
		}
	}
	return c, nil
}

// Profile returns a copy of the client's profile.
func (c *Client) Profile() Profile {
	return c.profile.clone()
}
