package parse

import (
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// ParseHint parses a Note record. Notes without text are dropped.
func ParseHint(_ *hafas.RequestContext, raw *jsontree.Object) (hafas.Hint, bool) {
	if raw == nil {
		return hafas.Hint{}, false
	}
	text := strings.TrimSpace(raw.FirstString("value", "txtN"))
	if text == "" {
		return hafas.Hint{}, false
	}
	typ := "hint"
	switch strings.ToUpper(raw.String("type")) {
	case "R":
		typ = "status"
	case "M", "P", "W", "H", "D":
		typ = "warning"
	}
	return hafas.Hint{
		Type:     typ,
		Code:     raw.String("key"),
		Text:     text,
		Priority: raw.Int("priority"),
	}, true
}

// parseRemarks parses the normalized notes of raw, nothing when the caller
// turned remarks off.
func parseRemarks(rc *hafas.RequestContext, raw *jsontree.Object) []hafas.Hint {
	if !rc.Options().Remarks {
		return nil
	}
	var out []hafas.Hint
	for _, item := range raw.Array("notes") {
		n, ok := jsontree.AsObject(item)
		if !ok {
			continue
		}
		if h, ok := rc.Profile().ParseHint(rc, n); ok {
			out = append(out, h)
		}
	}
	return out
}
