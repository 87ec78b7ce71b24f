package hafas

import (
	"errors"
	"math"
	"strings"
)

// LocationRef is either a plain identifier or a full location record.
// The zero value refers to nothing.
type LocationRef struct {
	id  string
	loc *Location
}

// ByID refers to a stop by its operator identifier.
func ByID(id string) LocationRef {
	return LocationRef{id: strings.TrimSpace(id)}
}

// At refers to a location record (a stop with an ID, an address or a POI with coordinates).
func At(l Location) LocationRef {
	return LocationRef{loc: &l}
}

// IsZero reports whether r refers to nothing.
func (r LocationRef) IsZero() bool {
	return r.id == "" && r.loc == nil
}

// ID returns the identifier of r: the plain ID, or the record's ID.
func (r LocationRef) ID() string {
	if r.id != "" {
		return r.id
	}
	if r.loc != nil {
		return strings.TrimSpace(r.loc.ID)
	}
	return ""
}

// Location returns the record r was built from.
func (r LocationRef) Location() (Location, bool) {
	if r.loc == nil {
		return Location{}, false
	}
	return *r.loc, true
}

// Coordinates returns the record's coordinates when they are usable.
func (r LocationRef) Coordinates() (Coordinates, bool) {
	if r.loc == nil || r.loc.Location == nil {
		return Coordinates{}, false
	}
	c := *r.loc.Location
	if !validCoordinates(c) {
		return Coordinates{}, false
	}
	return c, true
}

func validCoordinates(c Coordinates) bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) || math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

var errNoStopID = errors.New("must be a stop ID or a location with an id")

// stopID resolves r to a stop identifier.
func (r LocationRef) stopID(field string) (string, error) {
	if id := r.ID(); id != "" {
		return id, nil
	}
	return "", validationError(field, errNoStopID)
}
