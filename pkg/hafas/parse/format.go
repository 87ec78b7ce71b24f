package parse

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// FormatDate formats t as a date in the profile's timezone.
func FormatDate(rc *hafas.RequestContext, t time.Time) string {
	return t.In(rc.Profile().Location()).Format(dateLayout)
}

// FormatTime formats t as a wall clock time in the profile's timezone.
func FormatTime(rc *hafas.RequestContext, t time.Time) string {
	return t.In(rc.Profile().Location()).Format(timeLayout)
}

// FormatLocation turns a location reference into the query fields of a role:
// <role>Id for stops, <role>CoordLat/<role>CoordLong for other locations.
// Via points must be stops.
func FormatLocation(p *hafas.Profile, ref hafas.LocationRef, role string) (url.Values, error) {
	q := url.Values{}
	if id := ref.ID(); id != "" {
		if role == hafas.RoleVia {
			q.Set("via", id)
		} else {
			q.Set(role+"Id", id)
		}
		return q, nil
	}
	if role == hafas.RoleVia {
		return nil, fmt.Errorf("via must be a stop with an id")
	}
	c, ok := ref.Coordinates()
	if !ok {
		return nil, fmt.Errorf("%s must have an id or valid coordinates", role)
	}
	q.Set(role+"CoordLat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set(role+"CoordLong", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	if l, ok := ref.Location(); ok {
		if name := strings.TrimSpace(firstNonEmpty(l.Name, l.Address)); name != "" {
			q.Set(role+"CoordName", name)
		}
	}
	return q, nil
}

// FormatLocationFilter returns the location type filter: any combination of
// S (stops), A (addresses) and P (points of interest), or ALL when all are
// selected. An empty selection also yields ALL; Client.Locations rejects it
// before formatting.
func FormatLocationFilter(stops, addresses, poi bool) string {
	if stops == addresses && addresses == poi {
		return "ALL"
	}
	var b strings.Builder
	if stops {
		b.WriteString("S")
	}
	if addresses {
		b.WriteString("A")
	}
	if poi {
		b.WriteString("P")
	}
	return b.String()
}

// FormatProductsBitmask ORs the class bits of the enabled products. Products
// missing from the filter keep their profile default.
func FormatProductsBitmask(rc *hafas.RequestContext, products map[string]bool) (int, error) {
	p := rc.Profile()
	var unknown []string
	for id := range products {
		if _, ok := p.Product(id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, fmt.Errorf("unknown products: %s", strings.Join(unknown, ", "))
	}
	mask := 0
	for _, d := range p.Products {
		on := d.Default
		if v, ok := products[d.ID]; ok {
			on = v
		}
		if !on {
			continue
		}
		for _, bit := range d.Bitmasks {
			mask |= bit
		}
	}
	return mask, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
