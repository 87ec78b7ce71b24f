package hafas

import (
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// Capability contracts. Implementations receive the request context so that
// formatting and parsing can depend on the profile and the caller's options.
type (
	FormatDateFunc            func(rc *RequestContext, t time.Time) string
	FormatTimeFunc            func(rc *RequestContext, t time.Time) string
	FormatLocationFunc        func(p *Profile, ref LocationRef, role string) (url.Values, error)
	FormatLocationFilterFunc  func(stops, addresses, poi bool) string
	FormatProductsBitmaskFunc func(rc *RequestContext, products map[string]bool) (int, error)

	ParseLocationFunc    func(rc *RequestContext, raw TaggedLocation) (Location, error)
	ParseJourneyFunc     func(rc *RequestContext, raw *jsontree.Object) (Journey, error)
	ParseJourneyLegFunc  func(rc *RequestContext, raw *jsontree.Object) (Leg, error)
	ParseStopoverFunc    func(rc *RequestContext, raw *jsontree.Object) (Stopover, error)
	ParseAlternativeFunc func(rc *RequestContext, raw *jsontree.Object) (Alternative, error)
	// ParseArrivalOrDepartureFunc returns the board-entry parser for one direction.
	ParseArrivalOrDepartureFunc func(dir Direction) ParseAlternativeFunc
	ParseWhenFunc               func(rc *RequestContext, date, clock, rtDate, rtClock string, cancelled bool) (When, error)
	ParseLineFunc               func(rc *RequestContext, raw *jsontree.Object) (*Line, error)
	ParsePolylineFunc           func(rc *RequestContext, raw *jsontree.Object) ([]Coordinates, error)
	// ParseHintFunc reports false for notes that should be dropped.
	ParseHintFunc func(rc *RequestContext, raw *jsontree.Object) (Hint, bool)
)

// Location roles passed to FormatLocation.
const (
	RoleOrigin      = "origin"
	RoleDestination = "dest"
	RoleVia         = "via"
)

// ProductDef describes one transport product of an operator.
type ProductDef struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Mode string `yaml:"mode" json:"mode"`
	Name string `yaml:"name" json:"name"`
	// Short is the abbreviation shown on boards.
	Short string `yaml:"short" json:"short,omitempty"`
	// Bitmasks are the product class bits, OR-ed into the products filter.
	Bitmasks []int `yaml:"bitmasks" json:"bitmasks" validate:"required,min=1,dive,gt=0"`
	// Default marks products enabled when the caller does not filter.
	Default bool `yaml:"default" json:"default"`
}

// Profile is the capability set of one client: operator configuration plus
// the parser and formatter functions.
//
// Profiles are composed from layers with Merge and Compose. A client keeps
// its own copy; mutating a profile after New has no effect on the client.
type Profile struct {
	Endpoint  string
	AccessID  string
	UserAgent string
	Language  string
	Timezone  *time.Location

	Products   []ProductDef
	ErrorCodes map[string]ErrorInfo

	FormatDate            FormatDateFunc
	FormatTime            FormatTimeFunc
	FormatLocation        FormatLocationFunc
	FormatLocationFilter  FormatLocationFilterFunc
	FormatProductsBitmask FormatProductsBitmaskFunc

	ParseLocation           ParseLocationFunc
	ParseJourney            ParseJourneyFunc
	ParseJourneyLeg         ParseJourneyLegFunc
	ParseStopover           ParseStopoverFunc
	ParseArrivalOrDeparture ParseArrivalOrDepartureFunc
	ParseWhen               ParseWhenFunc
	ParseLine               ParseLineFunc
	ParsePolyline           ParsePolylineFunc
	ParseHint               ParseHintFunc
}

// DefaultProfile is the builtin bottom layer.
func DefaultProfile() Profile {
	return Profile{
		Language: "en",
		Timezone: time.UTC,
	}
}

// Location returns the profile timezone, UTC when unset.
func (p *Profile) Location() *time.Location {
	if p == nil || p.Timezone == nil {
		return time.UTC
	}
	return p.Timezone
}

// Product returns the product definition with the given id.
func (p *Profile) Product(id string) (ProductDef, bool) {
	if p == nil {
		return ProductDef{}, false
	}
	for _, d := range p.Products {
		if d.ID == id {
			return d, true
		}
	}
	return ProductDef{}, false
}

// OnlyProducts returns a products filter that enables exactly ids and
// disables every other product of the profile. Unknown ids are kept so that
// formatting reports them.
func (p *Profile) OnlyProducts(ids ...string) map[string]bool {
	out := make(map[string]bool, len(ids))
	if p != nil {
		for _, d := range p.Products {
			out[d.ID] = false
		}
	}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}

// clone copies the reference-typed fields so the result shares nothing
// mutable with p.
func (p Profile) clone() Profile {
	out := p
	if p.Products != nil {
		out.Products = make([]ProductDef, len(p.Products))
		for i, d := range p.Products {
			d.Bitmasks = slices.Clone(d.Bitmasks)
			out.Products[i] = d
		}
	}
	if p.ErrorCodes != nil {
		out.ErrorCodes = maps.Clone(p.ErrorCodes)
	}
	return out
}
