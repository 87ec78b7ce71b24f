package hafas_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/httpclient/httpclienttest"
)

const departureBoardBody = `{"Departure":[{
	"JourneyDetailRef":{"ref":"1|12345|0|80|27062019"},
	"Stops":{"Stop":[
		{"name":"Frankfurt Hbf","id":"A=1@L=3000010@","extId":"3000010","lon":8.663,"lat":50.107,"depTime":"08:15:00","depDate":"2019-06-27","depTrack":"5","rtDepTrack":"6"},
		{"name":"Mainz Hbf","extId":"3006907","lon":8.258,"lat":50.001,"arrTime":"08:50:00","arrDate":"2019-06-27","rtArrTime":"08:52:00","rtArrDate":"2019-06-27"}
	]},
	"Product":[{"name":"RE 1","num":"4711","catOutL":"Regionalexpress","cls":4,"operator":"DB Regio","operatorCode":"DB"}],
	"Notes":{"Note":[{"value":"Fahrradmitnahme","key":"FB","type":"A","priority":200},{"value":"","key":"EMPTY"}]},
	"name":"RE 1","type":"ND","stop":"Frankfurt Hbf","stopid":"A=1@L=3000010@","stopExtId":"3000010","lon":8.663,"lat":50.107,
	"time":"08:15:00","date":"2019-06-27","rtTime":"08:17:00","rtDate":"2019-06-27","track":"5","rtTrack":"6",
	"direction":"Mainz Hbf"
},{
	"JourneyDetailRef":{"ref":"1|999|0|80|27062019"},
	"ProductAtStop":{"name":"Bus 30","cls":32},
	"stop":"Frankfurt Hbf","stopExtId":"3000010",
	"time":"08:20:00","date":"2019-06-27","cancelled":true,"direction":"Bornheim"
}]}`

func TestDepartures_ParsesBoard(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, departureBoardBody))
	c := newClient(t, doer)

	when := time.Date(2019, 6, 27, 7, 15, 0, 0, time.UTC)
	got, err := c.Departures(context.Background(), hafas.ByID("3000010"), hafas.BoardOptions{
		When:      &when,
		Stopovers: hafas.Bool(true),
		Products:  map[string]bool{"bus": false},
	})
	if err != nil {
		t.Fatalf("Departures: %v", err)
	}

	q := doer.LastRequest().URL.Query()
	for k, v := range map[string]string{
		"id": "3000010", "date": "2019-06-27", "time": "08:15:00",
		"duration": "10", "passlist": "1", "products": "13",
	} {
		if q.Get(k) != v {
			t.Fatalf("query %s=%q want %q", k, q.Get(k), v)
		}
	}
	if doer.LastRequest().URL.Path != "/restproxy/departureBoard" {
		t.Fatalf("path=%s", doer.LastRequest().URL.Path)
	}

	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	d := got[0]
	if d.TripID != "1|12345|0|80|27062019" || d.Stop.ID != "3000010" || d.Direction != "Mainz Hbf" || d.Provenance != "" {
		t.Fatalf("unexpected departure: %+v", d)
	}
	if d.PlannedWhen == nil || !d.PlannedWhen.Equal(cetTime(t, "2019-06-27 08:15:00")) {
		t.Fatalf("plannedWhen=%v", d.PlannedWhen)
	}
	if d.When == nil || !d.When.Equal(cetTime(t, "2019-06-27 08:17:00")) || d.Delay == nil || *d.Delay != 120 {
		t.Fatalf("when=%v delay=%v", d.When, d.Delay)
	}
	if d.Platform != "6" || d.PlannedPlatform != "5" {
		t.Fatalf("platform=%q planned=%q", d.Platform, d.PlannedPlatform)
	}
	if d.Line == nil || d.Line.Name != "RE 1" || d.Line.ID != "re-1" || d.Line.FahrtNr != "4711" || d.Line.Product != "regional" || d.Line.Mode != "train" {
		t.Fatalf("line=%+v", d.Line)
	}
	if d.Line.Operator == nil || d.Line.Operator.Name != "DB Regio" || d.Line.Operator.ID != "db" {
		t.Fatalf("operator=%+v", d.Line.Operator)
	}
	if len(d.Remarks) != 1 || d.Remarks[0].Code != "FB" || d.Remarks[0].Type != "hint" {
		t.Fatalf("remarks=%+v", d.Remarks)
	}
	if len(d.Stopovers) != 2 {
		t.Fatalf("stopovers=%+v", d.Stopovers)
	}
	if s := d.Stopovers[0]; s.DeparturePlatform != "6" || s.PlannedDeparturePlatform != "5" {
		t.Fatalf("stopover platforms: %+v", s)
	}
	if s := d.Stopovers[1]; s.ArrivalDelay == nil || *s.ArrivalDelay != 120 || s.Departure != nil {
		t.Fatalf("stopover 1: %+v", s)
	}

	bus := got[1]
	if !bus.Cancelled || bus.When != nil || bus.Delay != nil || bus.PlannedWhen == nil {
		t.Fatalf("cancelled departure: %+v", bus)
	}
	if bus.Line == nil || bus.Line.Product != "bus" || bus.Stopovers != nil {
		t.Fatalf("bus: %+v", bus)
	}
}

func TestDepartures_DefaultsWithoutStopoversOrRemarks(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, departureBoardBody))
	c := newClient(t, doer)

	got, err := c.Departures(context.Background(), hafas.At(hafas.Location{Type: hafas.LocationTypeStop, ID: "3000010"}), hafas.BoardOptions{
		Remarks:   hafas.Bool(false),
		Direction: hafas.ByID("3006907"),
		Results:   3,
	})
	if err != nil {
		t.Fatalf("Departures: %v", err)
	}
	q := doer.LastRequest().URL.Query()
	if q.Get("passlist") != "0" || q.Get("direction") != "3006907" || q.Get("maxJourneys") != "3" {
		t.Fatalf("query=%s", doer.LastRequest().URL.RawQuery)
	}
	if q.Has("date") || q.Has("time") || q.Has("products") {
		t.Fatalf("unexpected time or product filter: %s", doer.LastRequest().URL.RawQuery)
	}
	if got[0].Stopovers != nil || got[0].Remarks != nil {
		t.Fatalf("stopovers/remarks must be off: %+v", got[0])
	}
}

func TestArrivals_ParsesProvenance(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"Arrival":[{
		"JourneyDetailRef":{"ref":"1|7|0|80|27062019"},
		"Product":{"name":"S 8","cls":8},
		"stop":"Frankfurt Hbf","stopExtId":"3000010",
		"time":"09:01:00","date":"2019-06-27","origin":"Wiesbaden Hbf"
	}]}`))
	c := newClient(t, doer)

	got, err := c.Arrivals(context.Background(), hafas.ByID("3000010"), hafas.BoardOptions{Duration: 30})
	if err != nil {
		t.Fatalf("Arrivals: %v", err)
	}
	if doer.LastRequest().URL.Path != "/restproxy/arrivalBoard" || doer.LastRequest().URL.Query().Get("duration") != "30" {
		t.Fatalf("request=%s", doer.LastRequest().URL)
	}
	if len(got) != 1 || got[0].Provenance != "Wiesbaden Hbf" || got[0].Direction != "" {
		t.Fatalf("unexpected: %+v", got)
	}
	if got[0].Line == nil || got[0].Line.Product != "regional" {
		t.Fatalf("line: %+v", got[0].Line)
	}
	if got[0].Delay != nil || got[0].When == nil {
		t.Fatalf("no realtime data means planned when without delay: %+v", got[0])
	}
}

func TestBoard_MissingListIsEmpty(t *testing.T) {
	c := newClient(t, httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"serverVersion":"1.0"}`)))
	got, err := c.Departures(context.Background(), hafas.ByID("1"), hafas.BoardOptions{})
	if err != nil {
		t.Fatalf("Departures: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty, got %#v", got)
	}
}

func TestBoard_Validation(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t)
	c := newClient(t, doer)
	ctx := context.Background()

	cases := []struct {
		name string
		stop hafas.StopRef
		opt  hafas.BoardOptions
	}{
		{"no stop", hafas.StopRef{}, hafas.BoardOptions{}},
		{"location without id", hafas.At(hafas.Location{Name: "x", Location: &hafas.Coordinates{Latitude: 1, Longitude: 2}}), hafas.BoardOptions{}},
		{"zero time", hafas.ByID("1"), hafas.BoardOptions{When: &time.Time{}}},
		{"negative duration", hafas.ByID("1"), hafas.BoardOptions{Duration: -5}},
		{"unknown product", hafas.ByID("1"), hafas.BoardOptions{Products: map[string]bool{"ufo": true}}},
		{"direction without id", hafas.ByID("1"), hafas.BoardOptions{Direction: hafas.At(hafas.Location{Name: "x"})}},
	}
	for _, tc := range cases {
		if _, err := c.Departures(ctx, tc.stop, tc.opt); !errors.Is(err, hafas.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if n := len(doer.Requests()); n != 0 {
		t.Fatalf("validation must not send requests, sent %d", n)
	}
}
