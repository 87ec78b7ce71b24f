package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

// paramError is a malformed query parameter of the REST facade itself.
type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string { return fmt.Sprintf("invalid parameter %s: %v", e.name, e.err) }
func (e *paramError) Unwrap() error { return e.err }

// params reads typed query parameters and remembers the first failure.
type params struct {
	c   *gin.Context
	err error
}

func newParams(c *gin.Context) *params { return &params{c: c} }

func (p *params) fail(name string, err error) {
	if p.err == nil {
		p.err = &paramError{name: name, err: err}
	}
}

func (p *params) raw(name string) (string, bool) {
	v, ok := p.c.GetQuery(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *params) String(name string) string {
	v, _ := p.raw(name)
	return v
}

func (p *params) Int(name string) int {
	v, ok := p.raw(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(name, fmt.Errorf("not an integer: %q", v))
		return 0
	}
	return n
}

func (p *params) IntPtr(name string) *int {
	if _, ok := p.raw(name); !ok {
		return nil
	}
	n := p.Int(name)
	return &n
}

func (p *params) Float(name string) (float64, bool) {
	v, ok := p.raw(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(name, fmt.Errorf("not a number: %q", v))
		return 0, false
	}
	return f, true
}

// Bool returns nil when the parameter is absent so the option default applies.
func (p *params) Bool(name string) *bool {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(name, fmt.Errorf("not a boolean: %q", v))
		return nil
	}
	return &b
}

// Time accepts RFC 3339 timestamps and unix seconds.
func (p *params) Time(name string) *time.Time {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		t := time.Unix(secs, 0)
		return &t
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		p.fail(name, fmt.Errorf("not an RFC 3339 time or unix timestamp: %q", v))
		return nil
	}
	return &t
}

// Products turns "bus,tram" into a filter enabling exactly those products.
func (p *params) Products(profile *hafas.Profile) map[string]bool {
	v, ok := p.raw("products")
	if !ok {
		return nil
	}
	return profile.OnlyProducts(strings.Split(v, ",")...)
}

// Location reads a location reference: "<prefix>" holds a stop ID, or
// "<prefix>.latitude" and "<prefix>.longitude" give a position with an
// optional "<prefix>.address" or "<prefix>.name" (a point of interest).
func (p *params) Location(prefix string) hafas.LocationRef {
	if id, ok := p.raw(prefix); ok {
		return hafas.ByID(id)
	}
	lat, hasLat := p.Float(prefix + ".latitude")
	lon, hasLon := p.Float(prefix + ".longitude")
	if !hasLat && !hasLon {
		return hafas.LocationRef{}
	}
	if hasLat != hasLon {
		p.fail(prefix, fmt.Errorf("latitude and longitude must be given together"))
		return hafas.LocationRef{}
	}
	loc := hafas.Location{
		Type:     hafas.LocationTypeLocation,
		Address:  p.String(prefix + ".address"),
		Location: &hafas.Coordinates{Latitude: lat, Longitude: lon},
	}
	if name := p.String(prefix + ".name"); name != "" {
		loc.Name = name
		loc.POI = true
	}
	return hafas.At(loc)
}
