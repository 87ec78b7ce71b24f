package treematch

import (
	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
)

// Match is one node reached by a pattern.
type Match struct {
	// Value is the matched node itself.
	Value any
	// Ancestors are the containers (*jsontree.Object or []any) from the
	// tree root down to the parent of Value, root first.
	Ancestors []any
}

// Parent returns the container holding Value, or nil for the root.
func (m Match) Parent() any {
	return m.Ancestor(1)
}

// Ancestor returns the container n levels above Value (1 = parent), or nil.
func (m Match) Ancestor(n int) any {
	if n <= 0 || n > len(m.Ancestors) {
		return nil
	}
	return m.Ancestors[len(m.Ancestors)-n]
}

// MatchSet maps each pattern's source text to its matches in traversal order.
// Every compiled pattern has an entry, empty when nothing matched.
type MatchSet map[string][]Match

// Matcher runs a fixed set of compiled patterns over trees.
// It holds no per-call state and is safe for concurrent use.
type Matcher struct {
	patterns []*Pattern
}

// Compile parses patterns once. Duplicate patterns are collapsed.
func Compile(patterns ...string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*Pattern, 0, len(patterns))}
	seen := make(map[string]struct{}, len(patterns))
	for _, s := range patterns {
		p, err := ParsePattern(s)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p.raw]; ok {
			continue
		}
		seen[p.raw] = struct{}{}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Find is a convenience wrapper around Compile and (*Matcher).Match.
func Find(patterns []string, tree any) (MatchSet, error) {
	m, err := Compile(patterns...)
	if err != nil {
		return nil, err
	}
	return m.Match(tree), nil
}

// Patterns returns the compiled patterns' source text.
func (m *Matcher) Patterns() []string {
	out := make([]string, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p.raw)
	}
	return out
}

// Match walks tree once, depth first, and collects the matches of every pattern.
// The tree is not modified.
func (m *Matcher) Match(tree any) MatchSet {
	set := make(MatchSet, len(m.patterns))
	initial := make([]state, 0, len(m.patterns))
	for i, p := range m.patterns {
		set[p.raw] = []Match{}
		initial = append(initial, state{pat: i})
	}
	w := walker{patterns: m.patterns, set: set}
	w.visit(tree, make([]any, 0, 16), initial)
	return set
}

// state is the position reached in one pattern.
type state struct {
	pat int
	pos int
}

type edge struct {
	key   string
	idx   int
	isKey bool
}

type walker struct {
	patterns []*Pattern
	set      MatchSet
}

func (w *walker) visit(node any, ancestors []any, states []state) {
	states = w.closure(states)
	for _, s := range states {
		p := w.patterns[s.pat]
		if s.pos != len(p.segs) {
			continue
		}
		chain := make([]any, len(ancestors))
		copy(chain, ancestors)
		w.set[p.raw] = append(w.set[p.raw], Match{Value: node, Ancestors: chain})
	}

	switch t := node.(type) {
	case *jsontree.Object:
		if t == nil {
			return
		}
		chain := append(ancestors, t)
		t.Range(func(k string, v any) bool {
			if next := w.step(states, edge{key: k, isKey: true}); len(next) > 0 {
				w.visit(v, chain, next)
			}
			return true
		})
	case []any:
		chain := append(ancestors, t)
		for i, v := range t {
			if next := w.step(states, edge{idx: i}); len(next) > 0 {
				w.visit(v, chain, next)
			}
		}
	}
}

// closure adds the states reachable without consuming a level: a deep
// wildcard may match zero levels.
func (w *walker) closure(states []state) []state {
	out := states
	for i := 0; i < len(out); i++ {
		s := out[i]
		segs := w.patterns[s.pat].segs
		if s.pos < len(segs) && segs[s.pos].kind == segDeep {
			out = appendState(out, state{pat: s.pat, pos: s.pos + 1})
		}
	}
	return out
}

// step returns the states that survive descending along e.
func (w *walker) step(states []state, e edge) []state {
	var next []state
	for _, s := range states {
		segs := w.patterns[s.pat].segs
		if s.pos >= len(segs) {
			continue
		}
		seg := segs[s.pos]
		switch seg.kind {
		case segDeep:
			next = appendState(next, s)
		case segKey:
			if e.isKey && e.key == seg.key {
				next = appendState(next, state{pat: s.pat, pos: s.pos + 1})
			}
		case segIndex:
			if !e.isKey && e.idx == seg.idx {
				next = appendState(next, state{pat: s.pat, pos: s.pos + 1})
			}
		case segAnyIndex:
			if !e.isKey {
				next = appendState(next, state{pat: s.pat, pos: s.pos + 1})
			}
		}
	}
	return next
}

func appendState(states []state, s state) []state {
	for _, cur := range states {
		if cur == s {
			return states
		}
	}
	return append(states, s)
}
