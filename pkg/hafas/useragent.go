package hafas

import (
	crand "crypto/rand"
	"encoding/hex"
	"io"
	"math/rand"
	"strings"
)

// userAgent inserts a per-client random id into the configured user agent
// every 5 to 10 characters, so operators cannot block a fixed string.
type userAgent struct {
	base string
	id   string
}

func newUserAgent(base string, random io.Reader) (userAgent, error) {
	if random == nil {
		random = crand.Reader
	}
	b := make([]byte, 6)
	if _, err := io.ReadFull(random, b); err != nil {
		return userAgent{}, err
	}
	return userAgent{base: base, id: hex.EncodeToString(b)}, nil
}

func (u userAgent) String() string {
	var b strings.Builder
	b.Grow(len(u.base) + len(u.id)*(len(u.base)/5+1))
	next := 5 + rand.Intn(6)
	for i, r := range u.base {
		if i >= next {
			b.WriteString(u.id)
			next += 5 + rand.Intn(6)
		}
		b.WriteRune(r)
	}
	return b.String()
}
