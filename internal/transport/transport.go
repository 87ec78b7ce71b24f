// Package transport builds the outbound HTTP client used to reach HAFAS
// endpoints.
package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpproxy"
	"golang.org/x/net/proxy"

	"github.com/r9s-ai/hafas-rest-client/pkg/httpclient"
)

// Options configure NewHTTPClient.
type Options struct {
	Timeout time.Duration
	// ProxyURL forces a proxy for every request. http, https and socks5
	// schemes are supported. Empty falls back to HTTP_PROXY, HTTPS_PROXY and
	// NO_PROXY from the environment.
	ProxyURL string
	// Env replaces the process environment lookup, for tests.
	Env func(string) string
}

// NewHTTPClient returns an *http.Client with the redirect policy of
// httpclient.New and the configured proxy.
func NewHTTPClient(opts Options) (*http.Client, error) {
	tr, err := newTransport(opts)
	if err != nil {
		return nil, err
	}
	return httpclient.New(tr, opts.Timeout), nil
}

func newTransport(opts Options) (*http.Transport, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("transport: unexpected default transport %T", http.DefaultTransport)
	}
	tr := base.Clone()

	raw := strings.TrimSpace(opts.ProxyURL)
	if raw == "" {
		proxyFunc := envProxyConfig(opts.Env).ProxyFunc()
		tr.Proxy = func(r *http.Request) (*url.URL, error) { return proxyFunc(r.URL) }
		return tr, nil
	}

	pu, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid proxy url %q: %w", raw, err)
	}
	switch strings.ToLower(pu.Scheme) {
	case "http", "https":
		tr.Proxy = http.ProxyURL(pu)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(pu, &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("transport: socks5 proxy %q: %w", raw, err)
		}
		cd, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("transport: socks5 dialer %T has no context support", dialer)
		}
		tr.Proxy = nil
		tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return cd.DialContext(ctx, network, addr)
		}
	default:
		return nil, fmt.Errorf("transport: unsupported proxy scheme %q", pu.Scheme)
	}
	return tr, nil
}

func envProxyConfig(env func(string) string) *httpproxy.Config {
	if env == nil {
		return httpproxy.FromEnvironment()
	}
	pick := func(upper, lower string) string {
		if v := env(upper); v != "" {
			return v
		}
		return env(lower)
	}
	return &httpproxy.Config{
		HTTPProxy:  pick("HTTP_PROXY", "http_proxy"),
		HTTPSProxy: pick("HTTPS_PROXY", "https_proxy"),
		NoProxy:    pick("NO_PROXY", "no_proxy"),
		CGI:        env("REQUEST_METHOD") != "",
	}
}
