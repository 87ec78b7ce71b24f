package treematch

import (
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// DefaultUp is the attachment depth used when a Rule leaves Up unset:
// the grandparent of the matched value.
//
// HAFAS wraps lists in single-purpose objects ({"Stops": {"Stop": [...]}}),
// so the grandparent is the record that owns the list. This is a property
// of the observed response shapes, not a general rule; a rule whose shape
// differs sets Up explicitly.
const DefaultUp = 2

// Rule copies the value matched by Pattern onto an ancestor under Key.
type Rule struct {
	Pattern string
	Key     string
	// Up selects the ancestor written to, counted from the matched value
	// (1 = parent, 2 = grandparent). Zero means DefaultUp.
	Up int
}

func (r Rule) up() int {
	if r.Up <= 0 {
		return DefaultUp
	}
	return r.Up
}

// Remap applies rules to the containers found by a Matcher, in place.
//
// Writes are addition-only: the operator's original wrapper keys are left as
// they are. A rule without matches, or whose target ancestor does not exist
// or is not an object, writes nothing. Remap is not idempotent and must run
// once per decoded response.
func Remap(set MatchSet, rules []Rule) {
	for _, r := range rules {
		for _, m := range set[strings.TrimSpace(r.Pattern)] {
			target, ok := jsontree.AsObject(m.Ancestor(r.up()))
			if !ok {
				continue
			}
			target.Set(r.Key, m.Value)
		}
	}
}
