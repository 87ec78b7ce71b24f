package parse

import (
	"fmt"
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// Location type tags.
const (
	TagStopLocation  = "StopLocation"
	TagCoordLocation = "CoordLocation"
)

// ParseLocation parses a StopLocation or CoordLocation record.
func ParseLocation(rc *hafas.RequestContext, raw hafas.TaggedLocation) (hafas.Location, error) {
	l := raw.Raw
	if l == nil {
		return hafas.Location{}, fmt.Errorf("%s: empty record", raw.Type)
	}
	loc := hafas.Location{
		Name:     strings.TrimSpace(l.String("name")),
		Distance: l.Int("dist"),
	}
	lat, okLat := l.Float("lat")
	lon, okLon := l.Float("lon")
	if okLat && okLon {
		loc.Location = &hafas.Coordinates{Latitude: lat, Longitude: lon}
	}

	switch raw.Type {
	case TagStopLocation:
		loc.Type = hafas.LocationTypeStop
		loc.ID = l.FirstString("extId", "id")
		loc.Weight = l.Int("weight")
		if v, ok := l.Get("products"); ok {
			loc.Products = productsOf(rc.Profile(), jsontree.CoerceInt(v))
		}
	case TagCoordLocation:
		loc.Type = hafas.LocationTypeLocation
		loc.ID = l.String("id")
		switch strings.ToUpper(l.String("type")) {
		case "POI":
			loc.POI = true
		case "ADR":
			loc.Address = loc.Name
		}
	default:
		return hafas.Location{}, fmt.Errorf("unknown location type %q", raw.Type)
	}
	return loc, nil
}

// productsOf expands a products bitmask into the profile's product ids.
func productsOf(p *hafas.Profile, mask int) map[string]bool {
	if len(p.Products) == 0 {
		return nil
	}
	out := make(map[string]bool, len(p.Products))
	for _, d := range p.Products {
		on := false
		for _, bit := range d.Bitmasks {
			if mask&bit != 0 {
				on = true
				break
			}
		}
		out[d.ID] = on
	}
	return out
}

// productByClass returns the product whose bits include cls.
func productByClass(p *hafas.Profile, cls int) (hafas.ProductDef, bool) {
	if cls <= 0 {
		return hafas.ProductDef{}, false
	}
	for _, d := range p.Products {
		for _, bit := range d.Bitmasks {
			if bit&cls != 0 {
				return d, true
			}
		}
	}
	return hafas.ProductDef{}, false
}

// endpointLocation parses the Origin/Destination record of a leg, whose
// type field says which kind of location it is.
func endpointLocation(rc *hafas.RequestContext, raw *jsontree.Object) (hafas.Location, error) {
	tag := TagCoordLocation
	if t := strings.ToUpper(raw.String("type")); t == "ST" || t == "" {
		tag = TagStopLocation
	}
	return rc.Profile().ParseLocation(rc, hafas.TaggedLocation{Type: tag, Raw: raw})
}
