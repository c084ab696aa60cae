package http1

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

var (
	ErrMalformedRequest = errors.New("http1: malformed request line")
	ErrHeaderTooLarge   = errors.New("http1: header line too large")
	ErrBodyTooLarge     = errors.New("http1: body exceeds limit")
)

// Field is one header line as it arrived on the wire, name untouched.
type Field struct {
	Name  string
	Value string
}

// ParsedRequest is the wire-level form of one request: the request line
// tokens, headers in arrival order, and the raw body bytes.
type ParsedRequest struct {
	Method     string
	RequestURI string
	Proto      string
	Fields     []Field
	Body       []byte
}

// Reader reads one request at a time from a buffered stream. It frames
// bodies by Content-Length; absent that header the body is empty. The
// same Reader is reused for consecutive requests on one connection.
type Reader struct {
	BR             *bufio.Reader
	MaxHeaderBytes int
	MaxBodyBytes   int64
}

func (r *Reader) ReadRequest() (*ParsedRequest, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	parts := strings.Split(line, " ")
	if len(parts) < 2 {
		return nil, ErrMalformedRequest
	}
	pr := &ParsedRequest{
		Method:     parts[0],
		RequestURI: parts[1],
	}
	if len(parts) >= 3 {
		pr.Proto = parts[2]
	}
	if pr.Fields, err = r.readFields(); err != nil {
		return nil, err
	}
	cl := int64(0)
	if v, ok := lookup(pr.Fields, "Content-Length"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 0 {
			return nil, ErrMalformedRequest
		}
		cl = n
	}
	if r.MaxBodyBytes > 0 && cl > r.MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	if cl > 0 {
		pr.Body = make([]byte, cl)
		if _, err := io.ReadFull(r.BR, pr.Body); err != nil {
			return nil, err
		}
	}
	return pr, nil
}

// readFields consumes header lines up to the blank separator. Lines
// without a colon are skipped rather than rejected: malformed input
// degrades to a lookup miss downstream, never to a parse fault.
func (r *Reader) readFields() ([]Field, error) {
	var fields []Field
	for {
		line, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			return fields, nil
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}
		fields = append(fields, Field{
			Name:  line[:i],
			Value: strings.TrimSpace(line[i+1:]),
		})
	}
}

func (r *Reader) readLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.BR.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if r.MaxHeaderBytes > 0 && sb.Len() > r.MaxHeaderBytes {
			return "", ErrHeaderTooLarge
		}
	}
	return sb.String(), nil
}

func lookup(fields []Field, name string) (string, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}
