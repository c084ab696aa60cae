package httpd

import (
	"testing"

	"rvx.dev/go/httpd/httpd/internal/http1"
)

func TestNewRequest_NormalizesHeaders(t *testing.T) {
	pr := &http1.ParsedRequest{
		Method:     "GET",
		RequestURI: "/user-agent",
		Proto:      "HTTP/1.1",
		Fields: []http1.Field{
			{Name: "User-Agent", Value: "test-agent"},
			{Name: "ACCEPT-ENCODING", Value: "gzip"},
		},
		Body: []byte("x"),
	}
	r := newRequest(pr)
	if got := r.Header["user_agent"]; got != "test-agent" {
		t.Fatalf("user_agent = %q", got)
	}
	if got := r.Header.Get("Accept-Encoding"); got != "gzip" {
		t.Fatalf("accept_encoding = %q", got)
	}
	if r.Body != "x" {
		t.Fatalf("body = %q", r.Body)
	}
	if r.Path != "/user-agent" || r.RawPath != "/user-agent" {
		t.Fatalf("path = %q raw = %q", r.Path, r.RawPath)
	}
}

func TestRequest_AcceptsGzip(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"gzip", true},
		{"deflate, gzip, br", true},
		{" gzip ", true},
		{"identity", false},
		{"gzipped", false},
		{"", false},
	}
	for _, tc := range cases {
		r := &Request{Header: Header{}}
		if tc.value != "" {
			r.Header.Set("Accept-Encoding", tc.value)
		}
		if got := r.acceptsGzip(); got != tc.want {
			t.Fatalf("acceptsGzip(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
