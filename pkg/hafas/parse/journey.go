package parse

import (
	"fmt"
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// ParseJourney parses a Trip record.
func ParseJourney(rc *hafas.RequestContext, raw *jsontree.Object) (hafas.Journey, error) {
	j := hafas.Journey{
		Type:         "journey",
		Legs:         []hafas.Leg{},
		RefreshToken: raw.String("ctxRecon"),
		Remarks:      parseRemarks(rc, raw),
	}
	for i, item := range raw.Array("legs") {
		l, ok := jsontree.AsObject(item)
		if !ok {
			continue
		}
		leg, err := rc.Profile().ParseJourneyLeg(rc, l)
		if err != nil {
			return hafas.Journey{}, fmt.Errorf("leg %d: %w", i, err)
		}
		j.Legs = append(j.Legs, leg)
	}
	if sd, ok := raw.Object("serviceDays"); ok {
		j.ServiceDays = &hafas.ServiceDays{
			Regular:   sd.String("sDaysR"),
			Irregular: sd.String("sDaysI"),
		}
	}
	return j, nil
}

// ParseJourneyLeg parses a Leg record.
func ParseJourneyLeg(rc *hafas.RequestContext, raw *jsontree.Object) (hafas.Leg, error) {
	p := rc.Profile()
	origRaw, ok := raw.Object("Origin")
	if !ok {
		return hafas.Leg{}, fmt.Errorf("leg without origin")
	}
	destRaw, ok := raw.Object("Destination")
	if !ok {
		return hafas.Leg{}, fmt.Errorf("leg without destination")
	}
	origin, err := endpointLocation(rc, origRaw)
	if err != nil {
		return hafas.Leg{}, err
	}
	dest, err := endpointLocation(rc, destRaw)
	if err != nil {
		return hafas.Leg{}, err
	}

	cancelled := raw.Bool("cancelled")
	dep, err := p.ParseWhen(rc, origRaw.String("date"), origRaw.String("time"), origRaw.String("rtDate"), origRaw.String("rtTime"), cancelled || origRaw.Bool("cancelled"))
	if err != nil {
		return hafas.Leg{}, fmt.Errorf("departure: %w", err)
	}
	arr, err := p.ParseWhen(rc, destRaw.String("date"), destRaw.String("time"), destRaw.String("rtDate"), destRaw.String("rtTime"), cancelled || destRaw.Bool("cancelled"))
	if err != nil {
		return hafas.Leg{}, fmt.Errorf("arrival: %w", err)
	}

	leg := hafas.Leg{
		TripID:           tripIDOf(raw),
		Origin:           origin,
		Destination:      dest,
		Departure:        dep.When,
		PlannedDeparture: dep.Planned,
		DepartureDelay:   dep.Delay,
		Arrival:          arr.When,
		PlannedArrival:   arr.Planned,
		ArrivalDelay:     arr.Delay,
		Direction:        strings.TrimSpace(raw.String("direction")),
		Distance:         raw.Int("dist"),
		Cancelled:        cancelled,
		Remarks:          parseRemarks(rc, raw),
	}
	leg.DeparturePlatform, leg.PlannedDeparturePlatform = platforms(origRaw, "track", "rtTrack")
	leg.ArrivalPlatform, leg.PlannedArrivalPlatform = platforms(destRaw, "track", "rtTrack")

	switch strings.ToUpper(raw.String("type")) {
	case "WALK", "GIS":
		leg.Walking = true
	case "TRSF":
		leg.Transfer = true
	default:
		if leg.Line, err = parseLineOf(rc, raw); err != nil {
			return hafas.Leg{}, err
		}
		if leg.Stopovers, err = parseStopovers(rc, raw); err != nil {
			return hafas.Leg{}, err
		}
	}

	if rc.Options().Polylines {
		if poly, ok := raw.Object("Polyline"); ok {
			if leg.Polyline, err = p.ParsePolyline(rc, poly); err != nil {
				return hafas.Leg{}, err
			}
		}
	}
	return leg, nil
}
