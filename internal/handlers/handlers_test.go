package handlers

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rvx.dev/go/httpd/httpd"
)

func startServer(t *testing.T, dir string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &httpd.Server{Router: Routes(dir)}
	go func() { _ = s.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return ln.Addr().String()
}

func roundTrip(t *testing.T, addr, raw string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	if _, err := c.Write([]byte(raw)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if tc, ok := c.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	b, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func TestFiles_MissingIs404(t *testing.T) {
	addr := startServer(t, t.TempDir())
	got := roundTrip(t, addr, "GET /files/missing.txt HTTP/1.1\r\n\r\n")
	if !strings.HasPrefix(got, "HTTP/1.1 404 Not Found\r\n") {
		t.Fatalf("frame = %q", got)
	}
	if !strings.HasSuffix(got, "\r\n\r\nFile not found") {
		t.Fatalf("frame = %q", got)
	}
}

func TestFiles_WriteThenRead(t *testing.T) {
	dir := t.TempDir()
	addr := startServer(t, dir)

	got := roundTrip(t, addr, "POST /files/new.txt HTTP/1.1\r\nContent-Length: 11\r\n\r\nhello world")
	if got != "HTTP/1.1 201 Created\r\n\r\n" {
		t.Fatalf("frame = %q", got)
	}
	b, err := os.ReadFile(filepath.Join(dir, "new.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "hello world" {
		t.Fatalf("stored = %q", b)
	}

	got = roundTrip(t, addr, "GET /files/new.txt HTTP/1.1\r\n\r\n")
	want := "HTTP/1.1 200 OK\r\nContent-Type: application/octet-stream\r\nContent-Length: 11\r\n\r\nhello world"
	if got != want {
		t.Fatalf("frame = %q, want %q", got, want)
	}
}

func TestFiles_TraversalRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(filepath.Dir(dir), "secret"), []byte("s"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	addr := startServer(t, dir)
	got := roundTrip(t, addr, "GET /files/.. HTTP/1.1\r\n\r\n")
	if !strings.HasPrefix(got, "HTTP/1.1 404 Not Found\r\n") {
		t.Fatalf("frame = %q", got)
	}
}

func TestFiles_WriteFailureIs404(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	addr := startServer(t, dir)
	got := roundTrip(t, addr, "POST /files/new.txt HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi")
	if !strings.HasPrefix(got, "HTTP/1.1 404 Not Found\r\n") {
		t.Fatalf("frame = %q", got)
	}
	if !strings.HasSuffix(got, "\r\n\r\nFailed to write file") {
		t.Fatalf("frame = %q", got)
	}
}

func TestEchoAndUserAgentRoutes(t *testing.T) {
	addr := startServer(t, t.TempDir())
	if got := roundTrip(t, addr, "GET / HTTP/1.1\r\n\r\n"); got != "HTTP/1.1 200 OK\r\n\r\n" {
		t.Fatalf("root frame = %q", got)
	}
	got := roundTrip(t, addr, "GET /echo/abc HTTP/1.1\r\n\r\n")
	if !strings.HasSuffix(got, "\r\n\r\nabc") {
		t.Fatalf("echo frame = %q", got)
	}
	got = roundTrip(t, addr, "GET /user-agent HTTP/1.1\r\nUser-Agent: foobar/1.2.3\r\n\r\n")
	if !strings.HasSuffix(got, "\r\n\r\nfoobar/1.2.3") {
		t.Fatalf("user-agent frame = %q", got)
	}
}

func TestSecurePath(t *testing.T) {
	dir := t.TempDir()
	if _, err := securePath(dir, ".."); err == nil {
		t.Fatal("expected traversal rejection for ..")
	}
	if _, err := securePath(dir, "."); err == nil {
		t.Fatal("expected rejection for .")
	}
	p, err := securePath(dir, "ok.txt")
	if err != nil {
		t.Fatalf("securePath: %v", err)
	}
	if p != filepath.Join(dir, "ok.txt") {
		t.Fatalf("path = %q", p)
	}
}
