package parse

import (
	"regexp"
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// ParseLine parses a Product record into a line.
func ParseLine(rc *hafas.RequestContext, raw *jsontree.Object) (*hafas.Line, error) {
	if raw == nil {
		return nil, nil
	}
	name := strings.TrimSpace(raw.FirstString("name", "line"))
	l := &hafas.Line{
		Type:    "line",
		ID:      strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-"),
		FahrtNr: raw.String("num"),
		Name:    name,
		Public:  true,
	}
	if d, ok := productByClass(rc.Profile(), raw.Int("cls")); ok {
		l.Product = d.ID
		l.Mode = d.Mode
	}
	if op := raw.FirstString("operator", "operatorCode"); op != "" {
		l.Operator = &hafas.Operator{
			ID:   strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(raw.FirstString("operatorCode", "operator")), "-"), "-"),
			Name: op,
		}
	}
	return l, nil
}

// productOf finds the Product record of a board entry or leg. Depending on
// the API version it sits in a Product list, in ProductAtStop, or in the
// normalized products (Names.Name) list.
func productOf(raw *jsontree.Object) (*jsontree.Object, bool) {
	if list := raw.Array("Product"); len(list) > 0 {
		if p, ok := jsontree.AsObject(list[0]); ok {
			return p, true
		}
	}
	if p, ok := raw.Object("ProductAtStop"); ok {
		return p, true
	}
	if list := raw.Array("products"); len(list) > 0 {
		if n, ok := jsontree.AsObject(list[0]); ok {
			if p, ok := n.Object("Product"); ok {
				return p, true
			}
			return n, true
		}
	}
	return nil, false
}

func parseLineOf(rc *hafas.RequestContext, raw *jsontree.Object) (*hafas.Line, error) {
	p, ok := productOf(raw)
	if !ok {
		if name := strings.TrimSpace(raw.String("name")); name != "" {
			return rc.Profile().ParseLine(rc, jsontree.ObjectOf("name", name))
		}
		return nil, nil
	}
	return rc.Profile().ParseLine(rc, p)
}
