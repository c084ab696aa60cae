package httpd

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"rvx.dev/go/httpd/httpd/internal/http1"
)

// Response accumulates a status code, ordered header fields, and a body,
// then frames and writes the result to the connection exactly once via
// the terminal Send. Serialization itself is pure (http1.EncodeResponse);
// Send only appends the single socket write.
//
// Whether the body gets gzip-compressed is fixed from the request's
// Accept-Encoding before the handler runs; handlers cannot change it.
type Response struct {
	status   int
	fields   []http1.Field
	compress bool
	sent     bool
	w        io.Writer
	log      zerolog.Logger
}

func newResponse(w io.Writer, compress bool, log zerolog.Logger) *Response {
	return &Response{status: 404, compress: compress, w: w, log: log}
}

// Status sets the status line's code. Repeated calls before Send keep
// only the last value; the default when never called is 404.
func (w *Response) Status(code int) {
	if w.sent {
		return
	}
	w.status = code
}

// Header upserts a response header. First insertion fixes the field's
// position in the output; updates keep it.
func (w *Response) Header(name, value string) {
	if w.sent {
		return
	}
	w.setField(name, value)
}

func (w *Response) setField(name, value string) {
	for i := range w.fields {
		if strings.EqualFold(w.fields[i].Name, name) {
			w.fields[i].Value = value
			return
		}
	}
	w.fields = append(w.fields, http1.Field{Name: name, Value: value})
}

func (w *Response) hasHeader(name string) bool {
	for i := range w.fields {
		if strings.EqualFold(w.fields[i].Name, name) {
			return true
		}
	}
	return false
}

// Send writes the response. The body's type decides the automatic
// headers:
//
//   - nil: no body, no automatic headers
//   - string: text/plain
//   - []byte: application/octet-stream
//   - anything else: JSON-encoded, application/json
//
// Content-Type is only set when the handler has not set one;
// Content-Length always reflects the bytes actually framed. When the
// negotiated encoding is gzip the body is compressed, Content-Length is
// overwritten with the compressed size, and Content-Encoding: gzip is
// appended. A compression failure is logged and the body goes out
// uncompressed with its original Content-Length.
//
// A second Send returns ErrSent without writing.
func (w *Response) Send(body any) error {
	if w.sent {
		return ErrSent
	}
	w.sent = true

	var b []byte
	switch v := body.(type) {
	case nil:
	case string:
		b = []byte(v)
		w.autoType("text/plain")
	case []byte:
		b = v
		w.autoType("application/octet-stream")
	default:
		j, err := json.Marshal(v)
		if err != nil {
			return err
		}
		b = j
		w.autoType("application/json")
	}
	if body != nil {
		w.setField("Content-Length", strconv.Itoa(len(b)))
		if w.compress {
			if gz, err := gzipBytes(b); err != nil {
				w.log.Warn().Err(err).Msg("gzip failed, sending identity")
			} else {
				b = gz
				w.setField("Content-Length", strconv.Itoa(len(b)))
				w.setField("Content-Encoding", "gzip")
			}
		}
	}

	_, err := w.w.Write(http1.EncodeResponse(w.status, w.fields, b))
	return err
}

func (w *Response) autoType(ct string) {
	if !w.hasHeader("Content-Type") {
		w.setField("Content-Type", ct)
	}
}

func gzipBytes(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
