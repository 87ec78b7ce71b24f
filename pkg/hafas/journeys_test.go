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

const tripBody = `{"Trip":[{
	"ServiceDays":[{"sDaysR":"daily","sDaysI":"not 24. Dec"}],
	"LegList":{"Leg":[
		{"Origin":{"name":"Frankfurt Hbf","type":"ST","extId":"3000010","lon":8.663,"lat":50.107,"time":"08:15:00","date":"2019-06-27","rtTime":"08:16:00","rtDate":"2019-06-27","track":"5"},
		 "Destination":{"name":"Mainz Hbf","type":"ST","extId":"3006907","lon":8.258,"lat":50.001,"time":"08:50:00","date":"2019-06-27","track":"2"},
		 "JourneyDetailRef":{"ref":"1|12345|0|80|27062019"},
		 "Product":[{"name":"RE 1","cls":4}],
		 "Notes":{"Note":[{"value":"Bordrestaurant","key":"BR","type":"A"}]},
		 "Stops":{"Stop":[{"name":"Frankfurt Hbf","extId":"3000010","depTime":"08:15:00","depDate":"2019-06-27"},{"name":"Mainz Hbf","extId":"3006907","arrTime":"08:50:00","arrDate":"2019-06-27"}]},
		 "Polyline":{"crd":[8.663,50.107,8.258,50.001],"dim":2},
		 "type":"JNY","direction":"Koblenz Hbf"},
		{"Origin":{"name":"Mainz Hbf","type":"ST","extId":"3006907","lon":8.258,"lat":50.001,"time":"08:50:00","date":"2019-06-27"},
		 "Destination":{"name":"Rheinstrasse 1, Mainz","type":"ADR","lon":8.27,"lat":49.99,"time":"09:00:00","date":"2019-06-27"},
		 "type":"WALK","dist":650}
	]},
	"ctxRecon":"T$A=1@O=Frankfurt Hbf@$",
	"idx":0
}],"scrB":"3|OB|earlier","scrF":"3|OF|later"}`

func TestJourneys_ParsesTrip(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, tripBody))
	c := newClient(t, doer)

	to := hafas.At(hafas.Location{
		Type:    hafas.LocationTypeLocation,
		Address: "Rheinstrasse 1, Mainz",
		Location: &hafas.Coordinates{
			Latitude: 49.99, Longitude: 8.27,
		},
	})
	res, err := c.Journeys(context.Background(), hafas.ByID("3000010"), to, hafas.JourneysOptions{
		Polylines: hafas.Bool(true),
		Stopovers: hafas.Bool(true),
		Results:   3,
		Transfers: hafas.Int(0),
		Via:       hafas.ByID("3006907"),
	})
	if err != nil {
		t.Fatalf("Journeys: %v", err)
	}

	q := doer.LastRequest().URL.Query()
	for k, v := range map[string]string{
		"originId": "3000010", "destCoordLat": "49.99", "destCoordLong": "8.27", "destCoordName": "Rheinstrasse 1, Mainz",
		"via": "3006907", "numF": "3", "maxChange": "0", "passlist": "1", "poly": "1",
	} {
		if q.Get(k) != v {
			t.Fatalf("query %s=%q want %q", k, q.Get(k), v)
		}
	}

	if res.EarlierRef != "3|OB|earlier" || res.LaterRef != "3|OF|later" {
		t.Fatalf("refs: %q %q", res.EarlierRef, res.LaterRef)
	}
	if len(res.Journeys) != 1 {
		t.Fatalf("journeys=%d", len(res.Journeys))
	}
	j := res.Journeys[0]
	if j.Type != "journey" || j.RefreshToken == "" || j.ServiceDays == nil || j.ServiceDays.Regular != "daily" {
		t.Fatalf("journey: %+v", j)
	}
	if len(j.Legs) != 2 {
		t.Fatalf("legs=%d", len(j.Legs))
	}

	ride := j.Legs[0]
	if ride.TripID != "1|12345|0|80|27062019" || ride.Origin.ID != "3000010" || ride.Destination.ID != "3006907" {
		t.Fatalf("ride: %+v", ride)
	}
	if ride.DepartureDelay == nil || *ride.DepartureDelay != 60 || ride.ArrivalDelay != nil {
		t.Fatalf("delays: %v %v", ride.DepartureDelay, ride.ArrivalDelay)
	}
	if ride.Line == nil || ride.Line.Product != "regional" || ride.Direction != "Koblenz Hbf" {
		t.Fatalf("line/direction: %+v %q", ride.Line, ride.Direction)
	}
	if len(ride.Remarks) != 1 || len(ride.Stopovers) != 2 || len(ride.Polyline) != 2 {
		t.Fatalf("remarks=%d stopovers=%d polyline=%d", len(ride.Remarks), len(ride.Stopovers), len(ride.Polyline))
	}
	if ride.Polyline[1].Latitude != 50.001 || ride.Polyline[1].Longitude != 8.258 {
		t.Fatalf("polyline order: %+v", ride.Polyline)
	}
	if ride.DeparturePlatform != "5" || ride.ArrivalPlatform != "2" {
		t.Fatalf("platforms: %q %q", ride.DeparturePlatform, ride.ArrivalPlatform)
	}

	walk := j.Legs[1]
	if !walk.Walking || walk.Line != nil || walk.Distance != 650 {
		t.Fatalf("walk: %+v", walk)
	}
	if walk.Destination.Type != hafas.LocationTypeLocation || walk.Destination.Address != "Rheinstrasse 1, Mainz" {
		t.Fatalf("walk destination: %+v", walk.Destination)
	}
}

func TestJourneys_ArrivalOnlySearchesForArrival(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"Trip":[]}`))
	c := newClient(t, doer)

	arr := cetTime(t, "2019-06-27 18:30:00")
	if _, err := c.Journeys(context.Background(), hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{Arrival: &arr}); err != nil {
		t.Fatalf("Journeys: %v", err)
	}
	q := doer.LastRequest().URL.Query()
	if q.Get("searchForArrival") != "1" || q.Get("date") != "2019-06-27" || q.Get("time") != "18:30:00" {
		t.Fatalf("query=%s", doer.LastRequest().URL.RawQuery)
	}
}

func TestJourneys_DepartureWinsOverArrival(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"Trip":[]}`))
	c := newClient(t, doer)

	dep := cetTime(t, "2019-06-27 07:05:00")
	arr := cetTime(t, "2019-06-27 18:30:00")
	if _, err := c.Journeys(context.Background(), hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{Departure: &dep, Arrival: &arr}); err != nil {
		t.Fatalf("Journeys: %v", err)
	}
	q := doer.LastRequest().URL.Query()
	if q.Has("searchForArrival") || q.Get("time") != "07:05:00" {
		t.Fatalf("query=%s", doer.LastRequest().URL.RawQuery)
	}
}

func TestJourneys_NoTimeByDefault(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{}`))
	c := newClient(t, doer)

	res, err := c.Journeys(context.Background(), hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{})
	if err != nil {
		t.Fatalf("Journeys: %v", err)
	}
	if res.Journeys == nil || len(res.Journeys) != 0 {
		t.Fatalf("want empty journeys, got %#v", res.Journeys)
	}
	q := doer.LastRequest().URL.Query()
	if q.Has("date") || q.Has("time") || q.Has("searchForArrival") || q.Has("context") {
		t.Fatalf("query=%s", doer.LastRequest().URL.RawQuery)
	}
	if q.Get("passlist") != "0" || q.Get("poly") != "0" {
		t.Fatalf("flags: %s", doer.LastRequest().URL.RawQuery)
	}
}

func TestJourneys_Paging(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{}`))
	c := newClient(t, doer)

	if _, err := c.Journeys(context.Background(), hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{LaterThan: "3|OF|later"}); err != nil {
		t.Fatalf("Journeys: %v", err)
	}
	if got := doer.LastRequest().URL.Query().Get("context"); got != "3|OF|later" {
		t.Fatalf("context=%q", got)
	}
}

func TestJourneys_Validation(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t)
	c := newClient(t, doer)
	ctx := context.Background()
	now := time.Now()

	cases := []struct {
		name     string
		from, to hafas.LocationRef
		opt      hafas.JourneysOptions
	}{
		{"no from", hafas.LocationRef{}, hafas.ByID("2"), hafas.JourneysOptions{}},
		{"no to", hafas.ByID("1"), hafas.LocationRef{}, hafas.JourneysOptions{}},
		{"zero departure", hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{Departure: &time.Time{}}},
		{"zero arrival", hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{Arrival: &time.Time{}}},
		{"both refs", hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{EarlierThan: "a", LaterThan: "b"}},
		{"ref with time", hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{EarlierThan: "a", Departure: &now}},
		{"negative transfers", hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{Transfers: hafas.Int(-1)}},
		{"location without coordinates", hafas.At(hafas.Location{Name: "nowhere"}), hafas.ByID("2"), hafas.JourneysOptions{}},
		{"via address", hafas.ByID("1"), hafas.ByID("2"), hafas.JourneysOptions{Via: hafas.At(hafas.Location{Location: &hafas.Coordinates{Latitude: 1, Longitude: 1}})}},
	}
	for _, tc := range cases {
		_, err := c.Journeys(ctx, tc.from, tc.to, tc.opt)
		if !errors.Is(err, hafas.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if len(doer.Requests()) != 0 {
		t.Fatalf("validation must not send requests")
	}
}
