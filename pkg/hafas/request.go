package hafas

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/r9s-ai/hafas-rest-client/pkg/jsontree"
	"github.com/r9s-ai/hafas-rest-client/pkg/treematch"
)

const redacted = "***"

// request sends one API call and returns the normalized response.
func (c *Client) request(ctx context.Context, method string, opt Options, query url.Values) (*RequestContext, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	q := url.Values{}
	if lang := c.language(opt); lang != "" {
		q.Set("lang", lang)
	}
	for k, vals := range query {
		q[k] = append([]string(nil), vals...)
	}
	q.Set("format", "json")
	q.Set("accessId", c.profile.AccessID)

	endpoint := c.profile.Endpoint
	reqURL := strings.TrimSuffix(endpoint, "/") + "/" + method + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("hafas: build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br, deflate")
	req.Header.Set("User-Agent", c.ua.String())

	if c.debugOut != nil {
		_, _ = fmt.Fprintf(c.debugOut, "debug hafas_request method=%s url=%s\n", method, redactURL(reqURL))
	}

	newErr := func(kind ErrorKind, status int, cause error) *Error {
		return &Error{
			Kind:       kind,
			StatusCode: status,
			Endpoint:   endpoint,
			URL:        redactURL(reqURL),
			Query:      redactQuery(q),
			Request:    RequestInfo{Method: req.Method, Header: req.Header.Clone()},
			Err:        cause,
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newErr(KindTransport, 0, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := readBody(resp)
	if err != nil {
		return nil, newErr(KindTransport, resp.StatusCode, err)
	}
	if c.debugOut != nil {
		_, _ = fmt.Fprintf(c.debugOut, "debug hafas_response method=%s status=%d body=%s\n", method, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded any = string(body)
	var decodeErr error
	if isJSON(resp.Header.Get("Content-Type")) {
		decoded, decodeErr = jsontree.DecodeBytes(body)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := newErr(KindHTTP, resp.StatusCode, nil)
		if decodeErr != nil {
			e.Message = strings.TrimSpace(string(body))
		} else {
			c.describeFailure(e, decoded)
		}
		return nil, e
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("hafas: decode %s response: %w", method, decodeErr)
	}

	treematch.DefaultNormalizer.Normalize(decoded)
	return NewRequestContext(&c.profile, opt, decoded), nil
}

// describeFailure fills code, message and the error-table fields from an
// error reply body.
func (c *Client) describeFailure(e *Error, body any) {
	obj, ok := jsontree.AsObject(body)
	if !ok {
		if s, isText := body.(string); isText {
			e.Message = strings.TrimSpace(s)
		}
		return
	}
	e.Code = obj.FirstString("errorCode", "code")
	e.Message = obj.FirstString("errorText", "message")
	if e.Code == "" {
		return
	}
	info, known := c.profile.ErrorCodes[e.Code]
	if !known {
		return
	}
	e.Name = info.Name
	e.Category = info.Category
	e.IsServer = info.IsServer
	if e.Message == "" {
		e.Message = info.Message
	}
}

func (c *Client) language(opt Options) string {
	if l := strings.TrimSpace(opt.Language); l != "" {
		return l
	}
	return c.profile.Language
}

func readBody(resp *http.Response) ([]byte, error) {
	r, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func redactQuery(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, vals := range q {
		out[k] = append([]string(nil), vals...)
	}
	if out.Has("accessId") {
		out.Set("accessId", redacted)
	}
	return out
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = redactQuery(u.Query()).Encode()
	return u.String()
}
