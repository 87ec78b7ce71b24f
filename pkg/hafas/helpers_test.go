package hafas_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas/errcodes"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas/parse"
	"github.com/r9s-ai/hafas-rest-client/pkg/httpclient"
)

const (
	testEndpoint = "https://hafas.example/restproxy/"
	testAccessID = "secret-key"
	testUA       = "hafas-rest-client-test"
	testUAID     = "010203040506"
)

var cet = time.FixedZone("CET", 3600)

func operatorLayer() hafas.Profile {
	return hafas.Profile{
		Endpoint:  testEndpoint,
		AccessID:  testAccessID,
		UserAgent: testUA,
		Language:  "de",
		Timezone:  cet,
		Products: []hafas.ProductDef{
			{ID: "express", Mode: "train", Name: "ICE", Bitmasks: []int{1}, Default: true},
			{ID: "regional", Mode: "train", Name: "RE/RB", Bitmasks: []int{4, 8}, Default: true},
			{ID: "bus", Mode: "bus", Name: "Bus", Bitmasks: []int{32}, Default: true},
			{ID: "taxi", Mode: "taxi", Name: "AST", Bitmasks: []int{512}},
		},
		ErrorCodes: errcodes.Default(),
	}
}

func newClient(t *testing.T, doer httpclient.HTTPDoer) *hafas.Client {
	t.Helper()
	return newClientWith(t, hafas.Config{HTTPClient: doer}, hafas.Profile{})
}

func newClientWith(t *testing.T, cfg hafas.Config, overrides hafas.Profile) *hafas.Client {
	t.Helper()
	p, err := hafas.Compose(operatorLayer(), parse.Functions(), overrides)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if cfg.Random == nil {
		cfg.Random = bytes.NewReader([]byte{1, 2, 3, 4, 5, 6})
	}
	c, err := hafas.New(p, cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func cetTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation("2006-01-02 15:04:05", s, cet)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return v
}
