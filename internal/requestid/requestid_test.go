package requestid

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenFormat(t *testing.T) {
	id := Gen()
	if ok, _ := regexp.MatchString(`^[0-9]{28}$`, id); !ok {
		t.Fatalf("unexpected id format: %q", id)
	}
	at := GenAt(time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.UTC))
	if !strings.HasPrefix(at, "20260304050607890000") {
		t.Fatalf("unexpected time prefix: %q", at)
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		" abc-1 ":                "abc-1",
		"":                       "",
		"with space":             "",
		"tab\tid":                "",
		strings.Repeat("x", 129): "",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q)=%q want %q", in, got, want)
		}
	}
}

func TestResolveHeaderKey(t *testing.T) {
	if ResolveHeaderKey("  ") != DefaultHeaderKey {
		t.Fatalf("expected default")
	}
	if ResolveHeaderKey("X-Trace") != "X-Trace" {
		t.Fatalf("expected override")
	}
	if got := randomDigits(0); got != "" {
		t.Fatalf("randomDigits(0)=%q", got)
	}
}
