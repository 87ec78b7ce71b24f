package treematch

import "fmt"

// DefaultRules flattens the operator-specific wrappers of HAFAS ReST replies.
var DefaultRules = []Rule{
	{Pattern: "**.Stops.Stop", Key: "stops"},
	{Pattern: "**.Names.Name", Key: "products"},
	{Pattern: "**.Directions.Direction", Key: "directions"},
	{Pattern: "**.JourneyDetailRef.ref", Key: "ref"},
	{Pattern: "**.Notes.Note", Key: "notes"},
	{Pattern: "**.LegList.Leg", Key: "legs"},
	// The matched value is the first element, so its parent is the
	// ServiceDays array and the grandparent is the trip.
	{Pattern: "**.ServiceDays[0]", Key: "serviceDays"},
}

// Normalizer bundles a compiled matcher with the rules it serves.
type Normalizer struct {
	matcher *Matcher
	rules   []Rule
}

// NewNormalizer compiles the patterns of rules.
func NewNormalizer(rules []Rule) (*Normalizer, error) {
	patterns := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Key == "" {
			return nil, fmt.Errorf("treematch: rule %q has no key", r.Pattern)
		}
		patterns = append(patterns, r.Pattern)
	}
	m, err := Compile(patterns...)
	if err != nil {
		return nil, err
	}
	return &Normalizer{matcher: m, rules: append([]Rule(nil), rules...)}, nil
}

// DefaultNormalizer applies DefaultRules.
var DefaultNormalizer = mustNormalizer(DefaultRules)

func mustNormalizer(rules []Rule) *Normalizer {
	n, err := NewNormalizer(rules)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize matches and remaps tree in place and returns the match set used.
func (n *Normalizer) Normalize(tree any) MatchSet {
	set := n.matcher.Match(tree)
	Remap(set, n.rules)
	return set
}
