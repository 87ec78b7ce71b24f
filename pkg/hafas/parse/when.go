package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

// ParseWhen combines a planned date and time with optional realtime values.
// An empty planned date or time yields a zero When. For cancelled stops
// the realtime instant is dropped and only the planned one is kept.
func ParseWhen(rc *hafas.RequestContext, date, clock, rtDate, rtClock string, cancelled bool) (hafas.When, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return hafas.When{}, nil
	}
	loc := rc.Profile().Location()
	planned, err := parseDateTime(date, clock, loc)
	if err != nil {
		return hafas.When{}, err
	}
	w := hafas.When{Planned: &planned}
	if cancelled {
		return w, nil
	}

	rtClock = strings.TrimSpace(rtClock)
	if rtClock == "" {
		w.When = &planned
		return w, nil
	}
	rtDate = strings.TrimSpace(rtDate)
	if rtDate == "" {
		rtDate = date
	}
	actual, err := parseDateTime(rtDate, rtClock, loc)
	if err != nil {
		return hafas.When{}, err
	}
	delay := int(actual.Sub(planned) / time.Second)
	w.When = &actual
	w.Delay = &delay
	return w, nil
}

func parseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	layout := dateLayout + " " + timeLayout
	if strings.Count(clock, ":") == 1 {
		layout = dateLayout + " 15:04"
	}
	t, err := time.ParseInLocation(layout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}
