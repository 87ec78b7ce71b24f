package hafas

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

// NearbyOptions configure a nearby search.
type NearbyOptions struct {
	// Results caps the number of locations. Default 8.
	Results int
	// Distance is the search radius in meters. Default 1000.
	Distance int
	// Stops defaults to true, POI to false.
	Stops *bool
	POI   *bool
	// Products filters stops by product; nil sends no filter.
	Products map[string]bool
	Language string
}

const (
	defaultNearbyResults  = 8
	defaultNearbyDistance = 1000
)

var errNoCoordinates = errors.New("must have valid latitude and longitude")

// Nearby finds stops and points of interest around a location.
func (c *Client) Nearby(ctx context.Context, loc Location, opt NearbyOptions) ([]Location, error) {
	coords, ok := At(loc).Coordinates()
	if !ok {
		return nil, validationError("location", errNoCoordinates)
	}
	if opt.Results < 0 {
		return nil, validationErrorf("results", "must not be negative, got %d", opt.Results)
	}
	if opt.Distance < 0 {
		return nil, validationErrorf("distance", "must not be negative, got %d", opt.Distance)
	}
	results := opt.Results
	if results == 0 {
		results = defaultNearbyResults
	}
	distance := opt.Distance
	if distance == 0 {
		distance = defaultNearbyDistance
	}

	o := Options{Language: opt.Language}
	pre := NewRequestContext(&c.profile, o, nil)
	q := url.Values{}
	q.Set("originCoordLat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("originCoordLong", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("r", strconv.Itoa(distance))
	q.Set("maxNo", strconv.Itoa(results))
	q.Set("type", c.profile.FormatLocationFilter(boolOr(opt.Stops, true), false, boolOr(opt.POI, false)))
	if mask, set, err := c.productsBitmask(pre, opt.Products); err != nil {
		return nil, err
	} else if set {
		q.Set("products", mask)
	}

	rc, err := c.request(ctx, "location.nearbystops", o, q)
	if err != nil {
		return nil, err
	}
	return c.parseLocationList(rc)
}
