package httpd

import "strings"

// HandlerFunc is the application callback for a matched route.
type HandlerFunc func(w *Response, r *Request)

// Router maps (method, pattern) pairs to handlers. Patterns are path
// templates whose segments either match literally or, when prefixed with
// ':', capture one segment as a named parameter. Routes are tried in
// registration order and the first match wins; duplicate patterns for a
// method shadow later registrations rather than replacing them.
//
// Registration happens before serving starts; Match is read-only and
// safe for concurrent use afterwards.
type Router struct {
	methods map[string][]route
}

type route struct {
	pattern string
	segs    []segment
	handler HandlerFunc
}

// segment is one compiled piece of a pattern: a literal to compare, or a
// parameter name to capture into.
type segment struct {
	literal string
	param   string
}

func NewRouter() *Router {
	return &Router{methods: make(map[string][]route)}
}

// Register stores h under (method, pattern). Pattern syntax is not
// validated; a zero-parameter pattern degenerates to an exact-match
// check against the raw path.
func (rt *Router) Register(method, pattern string, h HandlerFunc) {
	rt.methods[method] = append(rt.methods[method], route{
		pattern: pattern,
		segs:    compilePattern(pattern),
		handler: h,
	})
}

// Match resolves path against the routes registered for method. On a hit
// it returns the canonical pattern, its handler, and the captured
// parameter values keyed by name. A method with no registrations is an
// ordinary miss, never a fault.
func (rt *Router) Match(method, path string) (string, HandlerFunc, map[string]string, bool) {
	for _, r := range rt.methods[method] {
		if params, ok := matchSegments(r.segs, path); ok {
			return r.pattern, r.handler, params, true
		}
	}
	return "", nil, nil, false
}

func compilePattern(pattern string) []segment {
	parts := strings.Split(pattern, "/")
	segs := make([]segment, len(parts))
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			segs[i] = segment{param: p[1:]}
		} else {
			segs[i] = segment{literal: p}
		}
	}
	return segs
}

// matchSegments compares a concrete path against a compiled pattern,
// anchored at both ends. A parameter consumes exactly one non-empty
// segment of word characters, hyphen, or dot; it can never span a '/'.
func matchSegments(segs []segment, path string) (map[string]string, bool) {
	parts := strings.Split(path, "/")
	if len(parts) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range segs {
		if seg.param == "" {
			if parts[i] != seg.literal {
				return nil, false
			}
			continue
		}
		if !validParamValue(parts[i]) {
			return nil, false
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[seg.param] = parts[i]
	}
	return params, true
}

func validParamValue(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return true
}
