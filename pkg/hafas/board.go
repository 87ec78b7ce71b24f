package hafas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// Direction selects the kind of board.
type Direction string

const (
	DirectionDeparture Direction = "departure"
	DirectionArrival   Direction = "arrival"
)

// StopRef names the stop of a board: a stop ID or a location with an ID.
type StopRef = LocationRef

// BoardOptions configure a departure or arrival board.
type BoardOptions struct {
	// When defaults to the operator's "now".
	When *time.Time
	// Duration of the time window in minutes. Default 10.
	Duration int
	// Results caps the number of entries; 0 leaves it to the operator.
	Results int
	// Direction keeps only vehicles that pass this stop.
	Direction StopRef
	// Products filters by product; nil sends no filter.
	Products map[string]bool
	// Stopovers asks for the following (or previous) stops. Default false.
	Stopovers *bool
	// Remarks keeps hints and warnings. Default true.
	Remarks  *bool
	Language string
}

const defaultBoardDuration = 10

var boardMethods = map[Direction]struct {
	method string
	list   string
}{
	DirectionDeparture: {method: "departureBoard", list: "Departure"},
	DirectionArrival:   {method: "arrivalBoard", list: "Arrival"},
}

// Departures returns the departures at a stop.
func (c *Client) Departures(ctx context.Context, stop StopRef, opt BoardOptions) ([]Alternative, error) {
	return c.board(ctx, DirectionDeparture, stop, opt)
}

// Arrivals returns the arrivals at a stop.
func (c *Client) Arrivals(ctx context.Context, stop StopRef, opt BoardOptions) ([]Alternative, error) {
	return c.board(ctx, DirectionArrival, stop, opt)
}

func (c *Client) board(ctx context.Context, dir Direction, stop StopRef, opt BoardOptions) ([]Alternative, error) {
	m, ok := boardMethods[dir]
	if !ok {
		return nil, validationErrorf("direction", "unknown board direction %q", dir)
	}
	id, err := stop.stopID("stop")
	if err != nil {
		return nil, err
	}
	if err := checkTime("when", opt.When); err != nil {
		return nil, err
	}
	if opt.Duration < 0 {
		return nil, validationErrorf("duration", "must not be negative, got %d", opt.Duration)
	}
	if opt.Results < 0 {
		return nil, validationErrorf("results", "must not be negative, got %d", opt.Results)
	}
	duration := opt.Duration
	if duration == 0 {
		duration = defaultBoardDuration
	}

	o := Options{
		Language:  opt.Language,
		Remarks:   boolOr(opt.Remarks, true),
		Stopovers: boolOr(opt.Stopovers, false),
	}
	pre := NewRequestContext(&c.profile, o, nil)

	q := url.Values{}
	q.Set("id", id)
	if opt.When != nil {
		date, clock := c.formatWhen(pre, *opt.When)
		q.Set("date", date)
		q.Set("time", clock)
	}
	q.Set("duration", strconv.Itoa(duration))
	if opt.Results > 0 {
		q.Set("maxJourneys", strconv.Itoa(opt.Results))
	}
	if !opt.Direction.IsZero() {
		dirID, err := opt.Direction.stopID("direction")
		if err != nil {
			return nil, err
		}
		q.Set("direction", dirID)
	}
	if mask, set, err := c.productsBitmask(pre, opt.Products); err != nil {
		return nil, err
	} else if set {
		q.Set("products", mask)
	}
	q.Set("passlist", flag(o.Stopovers))

	rc, err := c.request(ctx, m.method, o, q)
	if err != nil {
		return nil, err
	}

	body, ok := rc.Object()
	if !ok {
		return []Alternative{}, nil
	}
	parse := c.profile.ParseArrivalOrDeparture(dir)
	items := body.Array(m.list)
	out := make([]Alternative, 0, len(items))
	for i, item := range items {
		raw, ok := jsontree.AsObject(item)
		if !ok {
			continue
		}
		a, err := parse(rc, raw)
		if err != nil {
			return nil, fmt.Errorf("hafas: parse %s %d: %w", dir, i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
