package hafas

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// JourneysOptions configure a journey search.
//
// Departure takes precedence over Arrival when both are set. Arrival alone
// searches for journeys arriving by that time. Without either the operator's
// "now" applies.
type JourneysOptions struct {
	Departure *time.Time
	Arrival   *time.Time
	// EarlierThan and LaterThan page through results with the refs of a
	// previous search. They exclude each other and explicit times.
	EarlierThan string
	LaterThan   string
	// Results is the number of journeys after the given time; 0 leaves it
	// to the operator.
	Results int
	Via     LocationRef
	// Transfers caps the number of changes; nil means no limit.
	Transfers *int
	// TransferTime is the minimum change time in minutes.
	TransferTime int
	// Stopovers and Polylines default to false, Remarks to true.
	Stopovers *bool
	Polylines *bool
	Remarks   *bool
	Products  map[string]bool
	Language  string
}

var (
	errMissingLocation = errors.New("must be a stop ID or a location")
	errPagingConflict  = errors.New("earlierThan and laterThan exclude each other")
	errPagingWithTime  = errors.New("cannot be combined with departure or arrival")
)

// Journeys searches journeys from one location to another.
func (c *Client) Journeys(ctx context.Context, from, to LocationRef, opt JourneysOptions) (Journeys, error) {
	if from.IsZero() {
		return Journeys{}, validationError("from", errMissingLocation)
	}
	if to.IsZero() {
		return Journeys{}, validationError("to", errMissingLocation)
	}
	if err := checkTime("departure", opt.Departure); err != nil {
		return Journeys{}, err
	}
	if err := checkTime("arrival", opt.Arrival); err != nil {
		return Journeys{}, err
	}
	earlier, later := strings.TrimSpace(opt.EarlierThan), strings.TrimSpace(opt.LaterThan)
	if earlier != "" && later != "" {
		return Journeys{}, validationError("laterThan", errPagingConflict)
	}
	if (earlier != "" || later != "") && (opt.Departure != nil || opt.Arrival != nil) {
		field := "earlierThan"
		if later != "" {
			field = "laterThan"
		}
		return Journeys{}, validationError(field, errPagingWithTime)
	}
	if opt.Results < 0 {
		return Journeys{}, validationErrorf("results", "must not be negative, got %d", opt.Results)
	}
	if opt.Transfers != nil && *opt.Transfers < 0 {
		return Journeys{}, validationErrorf("transfers", "must not be negative, got %d", *opt.Transfers)
	}
	if opt.TransferTime < 0 {
		return Journeys{}, validationErrorf("transferTime", "must not be negative, got %d", opt.TransferTime)
	}

	o := Options{
		Language:  opt.Language,
		Remarks:   boolOr(opt.Remarks, true),
		Stopovers: boolOr(opt.Stopovers, false),
		Polylines: boolOr(opt.Polylines, false),
	}
	pre := NewRequestContext(&c.profile, o, nil)

	q := url.Values{}
	for _, part := range []struct {
		ref   LocationRef
		role  string
		field string
	}{
		{from, RoleOrigin, "from"},
		{to, RoleDestination, "to"},
		{opt.Via, RoleVia, "via"},
	} {
		if part.ref.IsZero() {
			continue
		}
		vals, err := c.profile.FormatLocation(&c.profile, part.ref, part.role)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return Journeys{}, err
			}
			return Journeys{}, validationError(part.field, err)
		}
		for k, vs := range vals {
			q[k] = vs
		}
	}

	switch {
	case opt.Departure != nil:
		date, clock := c.formatWhen(pre, *opt.Departure)
		q.Set("date", date)
		q.Set("time", clock)
	case opt.Arrival != nil:
		date, clock := c.formatWhen(pre, *opt.Arrival)
		q.Set("date", date)
		q.Set("time", clock)
		q.Set("searchForArrival", "1")
	}
	switch {
	case earlier != "":
		q.Set("context", earlier)
	case later != "":
		q.Set("context", later)
	}

	if opt.Results > 0 {
		q.Set("numF", strconv.Itoa(opt.Results))
	}
	if opt.Transfers != nil {
		q.Set("maxChange", strconv.Itoa(*opt.Transfers))
	}
	if opt.TransferTime > 0 {
		q.Set("minChangeTime", strconv.Itoa(opt.TransferTime))
	}
	q.Set("passlist", flag(o.Stopovers))
	q.Set("poly", flag(o.Polylines))
	if mask, set, err := c.productsBitmask(pre, opt.Products); err != nil {
		return Journeys{}, err
	} else if set {
		q.Set("products", mask)
	}

	rc, err := c.request(ctx, "trip", o, q)
	if err != nil {
		return Journeys{}, err
	}

	res := Journeys{Journeys: []Journey{}}
	body, ok := rc.Object()
	if !ok {
		return res, nil
	}
	res.EarlierRef = body.String("scrB")
	res.LaterRef = body.String("scrF")
	for i, item := range body.Array("Trip") {
		raw, ok := jsontree.AsObject(item)
		if !ok {
			continue
		}
		j, err := c.profile.ParseJourney(rc, raw)
		if err != nil {
			return Journeys{}, fmt.Errorf("hafas: parse journey %d: %w", i, err)
		}
		res.Journeys = append(res.Journeys, j)
	}
	return res, nil
}
