package cli

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"

	"github.com/r9s-ai/hafas-rest-client/internal/version"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/httpclient/httpclienttest"
)

const boardBody = `{"Departure":[{
	"JourneyDetailRef":{"ref":"1|12345|0|86|27062019"},
	"ProductAtStop":{"name":"RE 1","cls":4},
	"stop":"S+U Alexanderplatz","stopExtId":"900100003",
	"time":"08:15:00","date":"2019-06-27","rtTime":"08:17:00","rtDate":"2019-06-27",
	"track":"2","direction":"Magdeburg Hbf"
}]}`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "HAFAS_") {
			t.Setenv(k, "")
		}
	}
}

func runCLI(t *testing.T, doer *httpclienttest.FakeDoer, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)
	opts := &rootOptions{}
	if doer != nil {
		opts.http = doer
	}
	cmd := newRootCmd(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLocationsCmd_JSON(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK,
		`{"stopLocationOrCoordLocation":[{"StopLocation":{"id":"A=1@L=900100003@","extId":"900100003","name":"S+U Alexanderplatz","lat":52.521,"lon":13.411}}]}`))

	out, err := runCLI(t, doer, "--access-id", "k1", "--json", "locations", "Alexanderplatz", "-n", "3", "--poi=false")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var locs []hafas.Location
	if err := gojson.Unmarshal([]byte(out), &locs); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(locs) != 1 || locs[0].ID != "900100003" || locs[0].Name != "S+U Alexanderplatz" {
		t.Fatalf("locations=%+v", locs)
	}
	q := doer.LastRequest().URL.Query()
	if q.Get("input") != "Alexanderplatz?" || q.Get("maxNo") != "3" || q.Get("type") != "SA" || q.Get("accessId") != "k1" {
		t.Fatalf("query=%v", q)
	}
}

func TestDeparturesCmd_Table(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, boardBody))

	out, err := runCLI(t, doer, "--access-id", "k1", "departures", "900100003", "--products", "bus,tram", "--when", "2019-06-27T08:15:00+02:00")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"planned", "08:15", "+2", "RE 1", "Magdeburg Hbf"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
	q := doer.LastRequest().URL.Query()
	if q.Get("id") != "900100003" || q.Get("products") != "12" || q.Get("time") != "08:15:00" {
		t.Fatalf("query=%v", q)
	}
}

func TestArrivalsCmd_SetsArrivalBoard(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"Arrival":[]}`))

	if _, err := runCLI(t, doer, "--access-id", "k1", "arrivals", "900100003"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if p := doer.LastRequest().URL.Path; !strings.HasSuffix(p, "/arrivalBoard") {
		t.Fatalf("path=%s", p)
	}
}

func TestJourneysCmd_CoordinateDestination(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"Trip":[],"scrB":"B1","scrF":"F1"}`))

	out, err := runCLI(t, doer, "--access-id", "k1", "journeys",
		"--from", "900100003", "--to", "52.5,13.3,Hauptstr. 1", "--transfers", "0")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "earlier: B1") || !strings.Contains(out, "later: F1") {
		t.Fatalf("refs missing:\n%s", out)
	}
	q := doer.LastRequest().URL.Query()
	if q.Get("originId") != "900100003" || q.Get("destCoordLat") != "52.5" || q.Get("destCoordName") != "Hauptstr. 1" {
		t.Fatalf("query=%v", q)
	}
	if q.Get("maxChange") != "0" {
		t.Fatalf("maxChange=%q", q.Get("maxChange"))
	}
}

func TestValidationError_ExitCode(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t)

	_, err := runCLI(t, doer, "--access-id", "k1", "locations", " ")
	if !errors.Is(err, hafas.ErrValidation) {
		t.Fatalf("err=%v", err)
	}
	if code := exitCode(err); code != 2 {
		t.Fatalf("exit code=%d", code)
	}
	if len(doer.Requests()) != 0 {
		t.Fatalf("invalid input must not reach the operator")
	}
}

func TestMissingAccessID(t *testing.T) {
	_, err := runCLI(t, httpclienttest.NewFakeDoer(t), "locations", "Alexanderplatz")
	if !errors.Is(err, hafas.ErrConstruction) {
		t.Fatalf("err=%v", err)
	}
	if code := exitCode(err); code != 1 {
		t.Fatalf("exit code=%d", code)
	}
}

func TestUpstreamError_IsReturned(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusBadRequest,
		`{"errorCode":"H890","errorText":"no connections found"}`))

	_, err := runCLI(t, doer, "--access-id", "k1", "journeys", "--from", "1", "--to", "2")
	if !errors.Is(err, hafas.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestProfileCmd_HidesAccessID(t *testing.T) {
	out, err := runCLI(t, nil, "--access-id", "secret-key", "--json", "profile")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Contains(out, "secret-key") {
		t.Fatalf("profile output leaks the access id: %s", out)
	}
	var view map[string]any
	if err := gojson.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view["operator"] != "vbb" || view["timezone"] != "Europe/Berlin" {
		t.Fatalf("profile=%v", view)
	}
}

func TestOperatorsListCmd(t *testing.T) {
	out, err := runCLI(t, nil, "--operator", "rmv", "operators", "list")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"rmv *", "vbb", "builtin:vbb.yaml"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
}

func TestOperatorsValidateCmd(t *testing.T) {
	dir := t.TempDir()
	good := "name: demo\nendpoint: https://demo.example/hapi/\nproducts:\n  - id: bus\n    bitmasks: [1]\n"
	if err := os.WriteFile(filepath.Join(dir, "demo.yaml"), []byte(good), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runCLI(t, nil, "operators", "validate", dir)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "ok: 1 operator(s) [demo]") {
		t.Fatalf("output=%q", out)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nendpoint: not a url\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := runCLI(t, nil, "operators", "validate", dir); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestReadPID(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.pid")
	if err := os.WriteFile(good, []byte("4242\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if pid, err := readPID(good); err != nil || pid != 4242 {
		t.Fatalf("pid=%d err=%v", pid, err)
	}
	bad := filepath.Join(dir, "bad.pid")
	if err := os.WriteFile(bad, []byte("nope"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, p := range []string{"", bad, filepath.Join(dir, "missing.pid")} {
		if _, err := readPID(p); err == nil {
			t.Fatalf("%q: expected error", p)
		}
	}
}

func TestParseLocationArg(t *testing.T) {
	cases := []struct {
		in      string
		id      string
		lat     float64
		address string
	}{
		{in: "900100003", id: "900100003"},
		{in: "52.5,13.3", lat: 52.5},
		{in: "52.5, 13.3, Hauptstr. 1", lat: 52.5, address: "Hauptstr. 1"},
		{in: "A=1@O=Foo, Bar@", id: "A=1@O=Foo, Bar@"},
	}
	for _, tc := range cases {
		ref, err := parseLocationArg(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if ref.ID() != tc.id {
			t.Fatalf("%q: id=%q want %q", tc.in, ref.ID(), tc.id)
		}
		if tc.id != "" {
			continue
		}
		loc, ok := ref.Location()
		if !ok || loc.Location == nil || loc.Location.Latitude != tc.lat || loc.Address != tc.address {
			t.Fatalf("%q: location=%+v", tc.in, loc)
		}
	}
}

func TestParseWhenArg(t *testing.T) {
	if got, err := parseWhenArg(""); err != nil || got != nil {
		t.Fatalf("empty: %v %v", got, err)
	}
	if got, err := parseWhenArg("30m"); err != nil || got == nil {
		t.Fatalf("offset: %v %v", got, err)
	}
	if _, err := parseWhenArg("tomorrow"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVersionCmdOutput(t *testing.T) {
	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute version cmd: %v", err)
	}

	got := strings.TrimSpace(buf.String())
	want := strings.TrimSpace(fmt.Sprint(version.Get()))
	if got != want {
		t.Fatalf("version output=%q want=%q", got, want)
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"version", "locations", "nearby", "departures", "arrivals", "journeys", "serve", "board"} {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Fatalf("find %s subcommand: %v", name, err)
		}
	}
}
