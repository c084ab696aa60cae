package http1

import (
	"fmt"
	"io"
	"strings"
)

// EncodeResponse renders a complete HTTP/1.1 response: status line,
// fields in the given order, blank line, then the body verbatim with no
// trailing terminator. It is pure so framing can be tested without a
// socket; writing the bytes is the caller's step.
func EncodeResponse(status int, fields []Field, body []byte) []byte {
	var b strings.Builder
	b.Grow(64 + len(body))
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", status, ReasonPhrase(status))
	for _, f := range fields {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(sanitizeFieldValue(f.Value))
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	out := make([]byte, 0, b.Len()+len(body))
	out = append(out, b.String()...)
	out = append(out, body...)
	return out
}

// WriteNotFound writes the bare frame used when no route matches,
// bypassing header accumulation entirely.
func WriteNotFound(w io.Writer) error {
	_, err := io.WriteString(w, "HTTP/1.1 404 Not Found\r\n\r\n")
	return err
}

// ReasonPhrase maps the status codes this server emits. The set is
// closed; an unknown code renders an empty reason and is a caller bug.
func ReasonPhrase(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 404:
		return "Not Found"
	default:
		return ""
	}
}

func sanitizeFieldValue(v string) string {
	if !strings.ContainsAny(v, "\r\n\x7f") {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
