package treematch

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

type segmentKind int

const (
	segKey segmentKind = iota
	segIndex
	segAnyIndex
	segDeep
)

// DeepWildcard is the pattern segment matching zero or more levels.
const DeepWildcard = "**"

type segment struct {
	kind segmentKind
	key  string
	idx  int
}

func (s segment) String() string {
	switch s.kind {
	case segKey:
		return s.key
	case segIndex:
		return "[" + strconv.Itoa(s.idx) + "]"
	case segAnyIndex:
		return "[*]"
	default:
		return DeepWildcard
	}
}

// Pattern is a compiled dotted key path.
type Pattern struct {
	raw  string
	segs []segment
}

// String returns the source text of the pattern.
func (p *Pattern) String() string { return p.raw }

// Len returns the number of compiled segments. A segment like `b[0]` compiles to two.
func (p *Pattern) Len() int { return len(p.segs) }

var patternCache sync.Map // string -> *Pattern

// ParsePattern compiles s. Results are cached by source string.
//
// Grammar:
//
//	pattern := part ("." part)*
//	part    := "**" | key index*
//	index   := "[" (digits | "*") "]"
//
// A part may also be a bare index list (`[0]`) to address array elements
// directly below the previous part.
func ParsePattern(s string) (*Pattern, error) {
	if v, ok := patternCache.Load(s); ok {
		return v.(*Pattern), nil
	}
	p, err := parsePattern(s)
	if err != nil {
		return nil, err
	}
	actual, _ := patternCache.LoadOrStore(s, p)
	return actual.(*Pattern), nil
}

// MustParsePattern is like ParsePattern but panics on error.
// It is meant for package-level rule tables.
func MustParsePattern(s string) *Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parsePattern(s string) (*Pattern, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return nil, fmt.Errorf("treematch: empty pattern")
	}
	parts := strings.Split(raw, ".")
	segs := make([]segment, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("treematch: pattern %q: empty segment at position %d", raw, i)
		}
		if part == DeepWildcard {
			// "**.**" is the same as "**".
			if len(segs) > 0 && segs[len(segs)-1].kind == segDeep {
				continue
			}
			segs = append(segs, segment{kind: segDeep})
			continue
		}
		parsed, err := splitIndexes(part)
		if err != nil {
			return nil, fmt.Errorf("treematch: pattern %q: %w", raw, err)
		}
		segs = append(segs, parsed...)
	}
	return &Pattern{raw: raw, segs: segs}, nil
}

// splitIndexes splits `name[0][*]` into a key segment followed by index segments.
func splitIndexes(part string) ([]segment, error) {
	open := strings.IndexByte(part, '[')
	if open < 0 {
		if strings.ContainsAny(part, "]*") {
			return nil, fmt.Errorf("invalid segment %q", part)
		}
		return []segment{{kind: segKey, key: part}}, nil
	}
	out := make([]segment, 0, 2)
	if name := part[:open]; name != "" {
		if strings.ContainsAny(name, "]*") {
			return nil, fmt.Errorf("invalid segment %q", part)
		}
		out = append(out, segment{kind: segKey, key: name})
	}
	rest := part[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("invalid index suffix in %q", part)
		}
		closeIdx := strings.IndexByte(rest, ']')
		if closeIdx < 0 {
			return nil, fmt.Errorf("unterminated index in %q", part)
		}
		inner := strings.TrimSpace(rest[1:closeIdx])
		if inner == "*" {
			out = append(out, segment{kind: segAnyIndex})
		} else {
			n, err := strconv.Atoi(inner)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid index %q in %q", inner, part)
			}
			out = append(out, segment{kind: segIndex, idx: n})
		}
		rest = rest[closeIdx+1:]
	}
	return out, nil
}
