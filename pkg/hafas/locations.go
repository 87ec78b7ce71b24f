package hafas

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// LocationsOptions configure a location search. Nil flags take their
// documented default.
type LocationsOptions struct {
	// Fuzzy appends the operator's wildcard to the query. Default true.
	Fuzzy *bool
	// Results caps the number of locations. Default 5.
	Results int
	// Stops, Addresses and POI select location kinds. All default to true.
	Stops     *bool
	Addresses *bool
	POI       *bool
	Language  string
}

const defaultLocationsResults = 5

var (
	errEmptyQuery     = errors.New("must not be empty")
	errNoLocationKind = errors.New("at least one of stops, addresses or poi must be enabled")
)

// Locations searches stops, addresses and points of interest by name.
func (c *Client) Locations(ctx context.Context, query string, opt LocationsOptions) ([]Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("query", errEmptyQuery)
	}
	if opt.Results < 0 {
		return nil, validationErrorf("results", "must not be negative, got %d", opt.Results)
	}
	stops, addresses, poi := boolOr(opt.Stops, true), boolOr(opt.Addresses, true), boolOr(opt.POI, true)
	if !stops && !addresses && !poi {
		return nil, validationError("type", errNoLocationKind)
	}
	results := opt.Results
	if results == 0 {
		results = defaultLocationsResults
	}

	input := query
	if boolOr(opt.Fuzzy, true) && !strings.HasSuffix(input, "?") {
		input += "?"
	}
	q := url.Values{}
	q.Set("input", input)
	q.Set("maxNo", strconv.Itoa(results))
	q.Set("type", c.profile.FormatLocationFilter(stops, addresses, poi))

	rc, err := c.request(ctx, "location.name", Options{Language: opt.Language}, q)
	if err != nil {
		return nil, err
	}
	return c.parseLocationList(rc)
}

// parseLocationList parses stopLocationOrCoordLocation. A missing list is an
// empty result.
func (c *Client) parseLocationList(rc *RequestContext) ([]Location, error) {
	body, ok := rc.Object()
	if !ok {
		return []Location{}, nil
	}
	items := body.Array("stopLocationOrCoordLocation")
	out := make([]Location, 0, len(items))
	for i, item := range items {
		wrapper, ok := jsontree.AsObject(item)
		if !ok {
			continue
		}
		for _, tag := range wrapper.Keys() {
			raw, ok := wrapper.Object(tag)
			if !ok {
				continue
			}
			loc, err := c.profile.ParseLocation(rc, TaggedLocation{Type: tag, Raw: raw})
			if err != nil {
				return nil, fmt.Errorf("hafas: parse location %d: %w", i, err)
			}
			out = append(out, loc)
		}
	}
	return out, nil
}
