package jsontree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CoerceString converts strings and numbers to string.
func CoerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// CoerceInt converts common numeric-like values to int.
func CoerceInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	}
	return 0
}

// CoerceFloat converts common numeric-like values to float64.
// The second result is false when v holds no number.
func CoerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// CoerceBool accepts booleans and the "true"/"false" strings some operators send.
func CoerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	default:
		return false
	}
}

// AsObject returns v as *Object.
func AsObject(v any) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok && o != nil
}

// AsArray returns v as a slice. A single object is wrapped into a one-element
// slice since operators collapse one-item lists into bare objects.
func AsArray(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case *Object:
		if t == nil {
			return nil
		}
		return []any{t}
	default:
		return nil
	}
}

// String reads a string field of o.
func (o *Object) String(key string) string {
	v, _ := o.Get(key)
	return CoerceString(v)
}

// Int reads an integer field of o.
func (o *Object) Int(key string) int {
	v, _ := o.Get(key)
	return CoerceInt(v)
}

// Float reads a numeric field of o.
func (o *Object) Float(key string) (float64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return CoerceFloat(v)
}

// Bool reads a boolean field of o.
func (o *Object) Bool(key string) bool {
	v, _ := o.Get(key)
	return CoerceBool(v)
}

// Object reads a nested object field of o.
func (o *Object) Object(key string) (*Object, bool) {
	v, _ := o.Get(key)
	return AsObject(v)
}

// Array reads a list field of o, see AsArray.
func (o *Object) Array(key string) []any {
	v, _ := o.Get(key)
	return AsArray(v)
}

// FirstString returns the first non-empty string field among keys.
func (o *Object) FirstString(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(o.String(k)); v != "" {
			return v
		}
	}
	return ""
}
