package parse

import (
	"fmt"
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// ParseStopover parses a Stop record of a pass list.
func ParseStopover(rc *hafas.RequestContext, raw *jsontree.Object) (hafas.Stopover, error) {
	p := rc.Profile()
	stop, err := p.ParseLocation(rc, hafas.TaggedLocation{Type: TagStopLocation, Raw: raw})
	if err != nil {
		return hafas.Stopover{}, err
	}
	cancelledArr := raw.Bool("cancelledArrival") || raw.Bool("cancelled")
	cancelledDep := raw.Bool("cancelledDeparture") || raw.Bool("cancelled")

	arr, err := p.ParseWhen(rc, raw.String("arrDate"), raw.String("arrTime"), raw.String("rtArrDate"), raw.String("rtArrTime"), cancelledArr)
	if err != nil {
		return hafas.Stopover{}, fmt.Errorf("stopover %q arrival: %w", stop.Name, err)
	}
	dep, err := p.ParseWhen(rc, raw.String("depDate"), raw.String("depTime"), raw.String("rtDepDate"), raw.String("rtDepTime"), cancelledDep)
	if err != nil {
		return hafas.Stopover{}, fmt.Errorf("stopover %q departure: %w", stop.Name, err)
	}

	s := hafas.Stopover{
		Stop:             stop,
		Arrival:          arr.When,
		PlannedArrival:   arr.Planned,
		ArrivalDelay:     arr.Delay,
		Departure:        dep.When,
		PlannedDeparture: dep.Planned,
		DepartureDelay:   dep.Delay,
		Cancelled:        cancelledArr && cancelledDep,
		Remarks:          parseRemarks(rc, raw),
	}
	s.ArrivalPlatform, s.PlannedArrivalPlatform = platforms(raw, "arrTrack", "rtArrTrack")
	s.DeparturePlatform, s.PlannedDeparturePlatform = platforms(raw, "depTrack", "rtDepTrack")
	return s, nil
}

// platforms returns the current and the planned platform.
func platforms(raw *jsontree.Object, planned, realtime string) (string, string) {
	p := trackOf(raw, planned)
	if rt := trackOf(raw, realtime); rt != "" {
		return rt, p
	}
	return p, p
}

// trackOf reads a track field that is either a string or a {track: ...} record.
func trackOf(raw *jsontree.Object, key string) string {
	if o, ok := raw.Object(key); ok {
		return strings.TrimSpace(o.String("track"))
	}
	return strings.TrimSpace(raw.String(key))
}

func parseStopovers(rc *hafas.RequestContext, raw *jsontree.Object) ([]hafas.Stopover, error) {
	if !rc.Options().Stopovers {
		return nil, nil
	}
	items := raw.Array("stops")
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]hafas.Stopover, 0, len(items))
	for _, item := range items {
		s, ok := jsontree.AsObject(item)
		if !ok {
			continue
		}
		st, err := rc.Profile().ParseStopover(rc, s)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
