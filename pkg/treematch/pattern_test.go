package treematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "a.b.c", want: []string{"a", "b", "c"}},
		{in: "a.b[0].c", want: []string{"a", "b", "[0]", "c"}},
		{in: "**.Stops.Stop", want: []string{"**", "Stops", "Stop"}},
		{in: "**.ServiceDays[0]", want: []string{"**", "ServiceDays", "[0]"}},
		{in: "items[*].id", want: []string{"items", "[*]", "id"}},
		{in: "m[1][2]", want: []string{"m", "[1]", "[2]"}},
		{in: "**.**.x", want: []string{"**", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePattern(tt.in)
			require.NoError(t, err)
			got := make([]string, 0, len(p.segs))
			for _, s := range p.segs {
				got = append(got, s.String())
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), p.Len())
		})
	}
}

func TestParsePattern_Invalid(t *testing.T) {
	for _, in := range []string{"", "a..b", "a[x]", "a[1", "a[-1]", "a]b", "a*"} {
		_, err := ParsePattern(in)
		assert.Errorf(t, err, "pattern %q should be rejected", in)
	}
}

func TestParsePattern_Cached(t *testing.T) {
	a, err := ParsePattern("x.y[3]")
	require.NoError(t, err)
	b, err := ParsePattern("x.y[3]")
	require.NoError(t, err)
	assert.Same(t, a, b)
}
