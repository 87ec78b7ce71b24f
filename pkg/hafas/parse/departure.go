package parse

import (
	"fmt"
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// ParseArrivalOrDeparture returns the parser for Departure or Arrival records.
func ParseArrivalOrDeparture(dir hafas.Direction) hafas.ParseAlternativeFunc {
	return func(rc *hafas.RequestContext, raw *jsontree.Object) (hafas.Alternative, error) {
		p := rc.Profile()
		stopRaw := jsontree.ObjectOf(
			"name", raw.String("stop"),
			"id", raw.String("stopid"),
			"extId", raw.String("stopExtId"),
		)
		if lat, ok := raw.Float("lat"); ok {
			stopRaw.Set("lat", lat)
		}
		if lon, ok := raw.Float("lon"); ok {
			stopRaw.Set("lon", lon)
		}
		stop, err := p.ParseLocation(rc, hafas.TaggedLocation{Type: TagStopLocation, Raw: stopRaw})
		if err != nil {
			return hafas.Alternative{}, err
		}

		cancelled := raw.Bool("cancelled")
		when, err := p.ParseWhen(rc, raw.String("date"), raw.String("time"), raw.String("rtDate"), raw.String("rtTime"), cancelled)
		if err != nil {
			return hafas.Alternative{}, fmt.Errorf("%s at %q: %w", dir, stop.Name, err)
		}
		line, err := parseLineOf(rc, raw)
		if err != nil {
			return hafas.Alternative{}, err
		}
		stopovers, err := parseStopovers(rc, raw)
		if err != nil {
			return hafas.Alternative{}, err
		}

		a := hafas.Alternative{
			TripID:      tripIDOf(raw),
			Stop:        stop,
			When:        when.When,
			PlannedWhen: when.Planned,
			Delay:       when.Delay,
			Line:        line,
			Cancelled:   cancelled,
			Remarks:     parseRemarks(rc, raw),
			Stopovers:   stopovers,
		}
		a.Platform, a.PlannedPlatform = platforms(raw, "track", "rtTrack")
		if dir == hafas.DirectionArrival {
			a.Provenance = strings.TrimSpace(raw.String("origin"))
		} else {
			a.Direction = strings.TrimSpace(raw.String("direction"))
		}
		return a, nil
	}
}

// tripIDOf reads the normalized journey detail ref.
func tripIDOf(raw *jsontree.Object) string {
	if ref := raw.String("ref"); ref != "" {
		return ref
	}
	if jdr, ok := raw.Object("JourneyDetailRef"); ok {
		return jdr.String("ref")
	}
	return ""
}
