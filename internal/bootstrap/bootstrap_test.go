package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/r9s-ai/hafas-rest-client/internal/config"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/httpclient/httpclienttest"
)

func TestNewClient_UsesOperatorAndOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Operator = "rmv"
	cfg.Client.AccessID = "secret"
	cfg.Client.Language = "fr"

	reg, res, err := LoadRegistry(cfg)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(res.Loaded) != 2 {
		t.Fatalf("loaded=%v", res.Loaded)
	}

	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(200, `{"stopLocationOrCoordLocation":[]}`))
	c, err := NewClient(cfg, reg, Options{HTTP: doer})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Locations(context.Background(), "Frankfurt", hafas.LocationsOptions{}); err != nil {
		t.Fatalf("Locations: %v", err)
	}
	req := doer.LastRequest()
	if !strings.HasPrefix(req.URL.String(), "https://www.rmv.de/hapi/location.name?") {
		t.Fatalf("url=%s", req.URL)
	}
	q := req.URL.Query()
	if q.Get("accessId") != "secret" || q.Get("lang") != "fr" {
		t.Fatalf("query=%v", q)
	}
	if !strings.HasPrefix(req.Header.Get("User-Agent"), "hafas") {
		t.Fatalf("user agent=%q", req.Header.Get("User-Agent"))
	}
}

func TestNewClient_MissingAccessID(t *testing.T) {
	cfg := config.Default()
	reg, _, err := LoadRegistry(cfg)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	_, err = NewClient(cfg, reg, Options{HTTP: httpclienttest.NewFakeDoer(t)})
	if !errors.Is(err, hafas.ErrConstruction) {
		t.Fatalf("expected construction error, got %v", err)
	}
	if !strings.Contains(err.Error(), "accessId") {
		t.Fatalf("error should name the missing capability: %v", err)
	}
}

func TestNewClient_BadProxy(t *testing.T) {
	cfg := config.Default()
	cfg.Client.AccessID = "k"
	cfg.Client.ProxyURL = "ftp://proxy.example"
	reg, _, _ := LoadRegistry(cfg)
	if _, err := NewClient(cfg, reg, Options{}); err == nil {
		t.Fatalf("expected proxy error")
	}
}
