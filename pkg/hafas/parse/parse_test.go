package parse

import (
	"strings"
	"testing"
	"time"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

func testContext(opt hafas.Options) *hafas.RequestContext {
	p := hafas.Merge(hafas.DefaultProfile(), Functions(), hafas.Profile{
		Timezone: time.FixedZone("CET", 3600),
		Products: []hafas.ProductDef{
			{ID: "train", Mode: "train", Bitmasks: []int{1, 2}, Default: true},
			{ID: "bus", Mode: "bus", Bitmasks: []int{8}, Default: true},
			{ID: "ferry", Mode: "watercraft", Bitmasks: []int{16}},
		},
	})
	return hafas.NewRequestContext(&p, opt, nil)
}

func TestFunctions_CompleteLayer(t *testing.T) {
	p := hafas.Merge(Functions(), hafas.Profile{Endpoint: "e", AccessID: "k", UserAgent: "ua"})
	if missing := p.Missing(); len(missing) != 0 {
		t.Fatalf("missing capabilities: %v", missing)
	}
}

func TestFormatLocationFilter(t *testing.T) {
	cases := []struct {
		s, a, p bool
		want    string
	}{
		{true, true, true, "ALL"},
		{false, false, false, "ALL"},
		{true, false, false, "S"},
		{true, true, false, "SA"},
		{true, false, true, "SP"},
		{false, true, true, "AP"},
		{false, false, true, "P"},
	}
	for _, tc := range cases {
		if got := FormatLocationFilter(tc.s, tc.a, tc.p); got != tc.want {
			t.Fatalf("FormatLocationFilter(%v,%v,%v)=%q want %q", tc.s, tc.a, tc.p, got, tc.want)
		}
	}
}

func TestFormatProductsBitmask(t *testing.T) {
	rc := testContext(hafas.Options{})
	cases := []struct {
		products map[string]bool
		want     int
	}{
		{nil, 11},
		{map[string]bool{}, 11},
		{map[string]bool{"bus": false}, 3},
		{map[string]bool{"ferry": true}, 27},
		{map[string]bool{"train": false, "bus": false}, 0},
	}
	for _, tc := range cases {
		got, err := FormatProductsBitmask(rc, tc.products)
		if err != nil {
			t.Fatalf("%v: %v", tc.products, err)
		}
		if got != tc.want {
			t.Fatalf("%v: got %d want %d", tc.products, got, tc.want)
		}
	}
	if _, err := FormatProductsBitmask(rc, map[string]bool{"zeppelin": true, "bus": true}); err == nil || !strings.Contains(err.Error(), "zeppelin") {
		t.Fatalf("expected unknown product error, got %v", err)
	}
}

func TestFormatDateTimeUsesProfileTimezone(t *testing.T) {
	rc := testContext(hafas.Options{})
	at := time.Date(2019, 12, 31, 23, 30, 0, 0, time.UTC)
	if got := FormatDate(rc, at); got != "2020-01-01" {
		t.Fatalf("date=%q", got)
	}
	if got := FormatTime(rc, at); got != "00:30:00" {
		t.Fatalf("time=%q", got)
	}
}

func TestFormatLocation(t *testing.T) {
	q, err := FormatLocation(nil, hafas.ByID("8000105"), hafas.RoleOrigin)
	if err != nil || q.Get("originId") != "8000105" {
		t.Fatalf("stop: %v %v", q, err)
	}
	q, err = FormatLocation(nil, hafas.At(hafas.Location{Name: "Zoo", Location: &hafas.Coordinates{Latitude: 52.5, Longitude: 13.33}}), hafas.RoleDestination)
	if err != nil || q.Get("destCoordLat") != "52.5" || q.Get("destCoordLong") != "13.33" || q.Get("destCoordName") != "Zoo" {
		t.Fatalf("coords: %v %v", q, err)
	}
	if _, err := FormatLocation(nil, hafas.At(hafas.Location{Name: "x"}), hafas.RoleOrigin); err == nil {
		t.Fatalf("expected error for location without id or coordinates")
	}
	if _, err := FormatLocation(nil, hafas.At(hafas.Location{Location: &hafas.Coordinates{Latitude: 1, Longitude: 1}}), hafas.RoleVia); err == nil {
		t.Fatalf("expected error for via address")
	}
}

func TestParseWhen(t *testing.T) {
	rc := testContext(hafas.Options{})

	w, err := ParseWhen(rc, "2019-06-27", "23:58:00", "2019-06-28", "00:03:00", false)
	if err != nil {
		t.Fatalf("ParseWhen: %v", err)
	}
	if w.Delay == nil || *w.Delay != 300 {
		t.Fatalf("delay across midnight: %v", w.Delay)
	}
	if w.Planned.Location().String() != "CET" {
		t.Fatalf("timezone=%s", w.Planned.Location())
	}

	w, err = ParseWhen(rc, "2019-06-27", "08:00", "", "07:59", false)
	if err != nil || w.Delay == nil || *w.Delay != -60 {
		t.Fatalf("early arrival: %+v %v", w, err)
	}

	w, err = ParseWhen(rc, "2019-06-27", "08:00:00", "", "08:05:00", true)
	if err != nil || w.When != nil || w.Delay != nil || w.Planned == nil {
		t.Fatalf("cancelled: %+v %v", w, err)
	}

	w, err = ParseWhen(rc, "", "", "", "", false)
	if err != nil || w.Planned != nil || w.When != nil {
		t.Fatalf("empty: %+v %v", w, err)
	}

	if _, err := ParseWhen(rc, "27.06.2019", "08:00:00", "", "", false); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestParsePolyline(t *testing.T) {
	raw := jsontree.ObjectOf("crd", []any{13.1, 52.1, 10.0, 13.2, 52.2, 11.0}, "dim", 3.0)
	got, err := ParsePolyline(nil, raw)
	if err != nil {
		t.Fatalf("ParsePolyline: %v", err)
	}
	if len(got) != 2 || got[1].Latitude != 52.2 || got[1].Longitude != 13.2 {
		t.Fatalf("got %+v", got)
	}
	if _, err := ParsePolyline(nil, jsontree.ObjectOf("crd", []any{1.0, 2.0, 3.0})); err == nil {
		t.Fatalf("expected error for odd coordinate count")
	}
}

func TestParseHint(t *testing.T) {
	h, ok := ParseHint(nil, jsontree.ObjectOf("value", "Bauarbeiten", "key", "BA", "type", "M", "priority", 100.0))
	if !ok || h.Type != "warning" || h.Code != "BA" || h.Priority != 100 {
		t.Fatalf("hint=%+v ok=%v", h, ok)
	}
	if _, ok := ParseHint(nil, jsontree.ObjectOf("value", "  ")); ok {
		t.Fatalf("empty note must be dropped")
	}
}

func TestParseLocation_UnknownType(t *testing.T) {
	rc := testContext(hafas.Options{})
	if _, err := ParseLocation(rc, hafas.TaggedLocation{Type: "Mystery", Raw: jsontree.NewObject()}); err == nil {
		t.Fatalf("expected error for unknown tag")
	}
}

func TestParseLine_ProductByClass(t *testing.T) {
	rc := testContext(hafas.Options{})
	l, err := ParseLine(rc, jsontree.ObjectOf("name", "Fähre F1", "cls", 16.0, "num", "12"))
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if l.Product != "ferry" || l.Mode != "watercraft" || l.ID != "f-hre-f1" || l.FahrtNr != "12" {
		t.Fatalf("line=%+v", l)
	}
}
