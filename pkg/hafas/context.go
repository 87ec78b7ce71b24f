package hafas

import "github.com/r9s-ai/hafas-rest-client/pkg/jsontree"

// Options are the per-call settings parsers may consult.
type Options struct {
	Language  string
	Remarks   bool
	Stopovers bool
	Polylines bool
}

// RequestContext carries the profile, the caller options and the normalized
// response body through every parser of one call. It is never modified after
// creation.
type RequestContext struct {
	profile *Profile
	opt     Options
	body    any
}

// NewRequestContext builds a context. body may be nil for contexts used
// while formatting a request.
func NewRequestContext(p *Profile, opt Options, body any) *RequestContext {
	return &RequestContext{profile: p, opt: opt, body: body}
}

func (rc *RequestContext) Profile() *Profile { return rc.profile }
func (rc *RequestContext) Options() Options  { return rc.opt }

// Body is the decoded response: a *jsontree.Object for JSON replies, a
// string for anything else, nil before the call.
func (rc *RequestContext) Body() any { return rc.body }

// Object returns the body when it is a JSON object.
func (rc *RequestContext) Object() (*jsontree.Object, bool) {
	o, ok := rc.body.(*jsontree.Object)
	return o, ok && o != nil
}

// TaggedLocation is a raw location record together with the type tag it was
// wrapped in, e.g. "StopLocation" or "CoordLocation".
type TaggedLocation struct {
	Type string
	Raw  *jsontree.Object
}
