package parse

import (
	"fmt"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// ParsePolyline parses a Polyline record. Its crd list holds longitude,
// latitude and dim-2 further values per point.
func ParsePolyline(_ *hafas.RequestContext, raw *jsontree.Object) ([]hafas.Coordinates, error) {
	if raw == nil {
		return nil, nil
	}
	dim := raw.Int("dim")
	if dim == 0 {
		dim = 2
	}
	if dim < 2 {
		return nil, fmt.Errorf("polyline: invalid dim %d", dim)
	}
	crd := raw.Array("crd")
	if len(crd)%dim != 0 {
		return nil, fmt.Errorf("polyline: %d values do not split into points of %d", len(crd), dim)
	}
	out := make([]hafas.Coordinates, 0, len(crd)/dim)
	for i := 0; i < len(crd); i += dim {
		lon, okLon := jsontree.CoerceFloat(crd[i])
		lat, okLat := jsontree.CoerceFloat(crd[i+1])
		if !okLon || !okLat {
			return nil, fmt.Errorf("polyline: point %d is not numeric", i/dim)
		}
		out = append(out, hafas.Coordinates{Latitude: lat, Longitude: lon})
	}
	return out, nil
}
