package transport

import (
	"net/http"
	"net/url"
	"testing"
	"time"
)

func proxyFor(t *testing.T, hc *http.Client, rawURL string) *url.URL {
	t.Helper()
	tr, ok := hc.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", hc.Transport)
	}
	if tr.Proxy == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	pu, err := tr.Proxy(&http.Request{URL: u})
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	return pu
}

func TestNewHTTPClient_ExplicitProxy(t *testing.T) {
	hc, err := NewHTTPClient(Options{Timeout: 3 * time.Second, ProxyURL: "http://127.0.0.1:7890"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hc.Timeout != 3*time.Second || hc.CheckRedirect == nil {
		t.Fatalf("client not configured: timeout=%v", hc.Timeout)
	}
	pu := proxyFor(t, hc, "https://fahrinfo.vbb.de/restproxy/location.name")
	if pu == nil || pu.Host != "127.0.0.1:7890" {
		t.Fatalf("unexpected proxy url: %#v", pu)
	}
}

func TestNewHTTPClient_EnvProxyHonoursNoProxy(t *testing.T) {
	env := map[string]string{
		"HTTPS_PROXY": "http://10.0.0.1:3128",
		"no_proxy":    "internal.example",
	}
	hc, err := NewHTTPClient(Options{Env: func(k string) string { return env[k] }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pu := proxyFor(t, hc, "https://www.rmv.de/hapi/trip"); pu == nil || pu.Host != "10.0.0.1:3128" {
		t.Fatalf("expected env proxy, got %#v", pu)
	}
	if pu := proxyFor(t, hc, "https://internal.example/hapi/trip"); pu != nil {
		t.Fatalf("no_proxy host must bypass the proxy, got %#v", pu)
	}
}

func TestNewHTTPClient_SOCKS5(t *testing.T) {
	hc, err := NewHTTPClient(Options{ProxyURL: "socks5://127.0.0.1:1080"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := hc.Transport.(*http.Transport)
	if tr.DialContext == nil || tr.Proxy != nil {
		t.Fatalf("socks5 must use a dialer, not a proxy func")
	}
}

func TestNewHTTPClient_InvalidScheme(t *testing.T) {
	if _, err := NewHTTPClient(Options{ProxyURL: "socks4://127.0.0.1:1080"}); err == nil {
		t.Fatalf("expected error")
	}
}
