package hafas

import (
	"errors"
	"strconv"
	"time"
)

// Bool returns a pointer to b, for the optional flags of the option structs.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

var errZeroTime = errors.New("must be a valid instant")

// checkTime rejects explicitly passed zero instants.
func checkTime(field string, t *time.Time) error {
	if t != nil && t.IsZero() {
		return validationError(field, errZeroTime)
	}
	return nil
}

func (c *Client) formatWhen(rc *RequestContext, t time.Time) (date, clock string) {
	t = t.In(c.profile.Location())
	return c.profile.FormatDate(rc, t), c.profile.FormatTime(rc, t)
}

// productsBitmask formats a products filter; a nil filter is not sent.
func (c *Client) productsBitmask(rc *RequestContext, products map[string]bool) (string, bool, error) {
	if products == nil {
		return "", false, nil
	}
	mask, err := c.profile.FormatProductsBitmask(rc, products)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return "", false, err
		}
		return "", false, validationError("products", err)
	}
	return strconv.Itoa(mask), true, nil
}
