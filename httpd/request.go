package httpd

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"rvx.dev/go/httpd/httpd/internal/http1"
)

// Request is one parsed inbound request. It lives for a single dispatch:
// built fresh per wire message, discarded when the handler returns.
type Request struct {
	Method string
	// Path is the canonical route pattern when one matched, otherwise
	// the raw request path.
	Path    string
	RawPath string
	Proto   string
	// Params holds the values captured by the matched pattern's
	// parameter segments, keyed by name. Nil when no pattern matched or
	// the pattern had no parameters.
	Params map[string]string
	Header Header
	Body   string

	// ID identifies this request in logs; Log is the server logger with
	// the ID attached.
	ID  string
	Log zerolog.Logger

	ctx context.Context
}

// Context returns the request's context. If nil, returns Background.
func (r *Request) Context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r with its context changed to ctx.
func WithContext(r *Request, ctx context.Context) *Request {
	if r == nil {
		return nil
	}
	r2 := *r
	r2.ctx = ctx
	return &r2
}

func newRequest(pr *http1.ParsedRequest) *Request {
	h := make(Header, len(pr.Fields))
	for _, f := range pr.Fields {
		h.Set(f.Name, f.Value)
	}
	return &Request{
		Method:  pr.Method,
		Path:    pr.RequestURI,
		RawPath: pr.RequestURI,
		Proto:   pr.Proto,
		Header:  h,
		Body:    string(pr.Body),
	}
}

// acceptsGzip reports whether the client's Accept-Encoding lists gzip.
// Entries are comma-separated and trimmed; any scheme other than gzip is
// ignored, not rejected. Decided once before the handler runs.
func (r *Request) acceptsGzip() bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(enc) == "gzip" {
			return true
		}
	}
	return false
}
