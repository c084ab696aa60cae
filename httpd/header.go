package httpd

import "strings"

// Header holds request header values keyed by the internal form of the
// field name: lower-cased with hyphens mapped to underscores, so
// "User-Agent" is stored under "user_agent". Accessors normalize their
// argument, so callers may use either form.
type Header map[string]string

// HeaderKey returns the internal mapping key for a wire field name.
func HeaderKey(name string) string {
	b := []byte(strings.ToLower(name))
	for i, c := range b {
		if c == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}

func (h Header) Get(name string) string {
	if h == nil {
		return ""
	}
	return h[HeaderKey(name)]
}

func (h Header) Set(name, value string) {
	if h == nil {
		return
	}
	h[HeaderKey(name)] = value
}

func (h Header) Del(name string) {
	if h == nil {
		return
	}
	delete(h, HeaderKey(name))
}
