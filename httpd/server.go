package httpd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"rvx.dev/go/httpd/httpd/internal/http1"
	"rvx.dev/go/httpd/internal/obs"
)

// Server accepts TCP connections and runs the parse/route/respond
// pipeline on each. The Router must be fully registered before serving
// starts; it is read-only afterwards, so dispatch needs no locking.
//
// Each connection gets its own goroutine and processes its requests
// strictly in order, so every peer sees responses in dispatch order.
type Server struct {
	Addr           string // defaults to 127.0.0.1:4221
	Router         *Router
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxHeaderBytes int   // per header line; 8 KiB when zero
	MaxBodyBytes   int64 // request body cap; unlimited when zero

	Log   *zerolog.Logger // nil discards
	Meter obs.Meter       // nil discards

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = "127.0.0.1:4221"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	if s.conns == nil {
		s.conns = make(map[net.Conn]struct{})
	}
	s.mu.Unlock()
	defer l.Close()
	for {
		c, err := l.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return ErrServerClosed
			}
			return err
		}
		s.mu.Lock()
		s.conns[c] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.serveConn(c)
	}
}

// Shutdown stops accepting and waits for in-flight connections. If ctx
// expires first, remaining connections are closed and ctx's error is
// returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	ln := s.listener
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		for c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

func (s *Server) serveConn(c net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
		_ = c.Close()
	}()

	log := s.logger().With().Str("remote", c.RemoteAddr().String()).Logger()
	rr := &http1.Reader{
		BR:             bufio.NewReader(c),
		MaxHeaderBytes: s.headerLimit(),
		MaxBodyBytes:   s.MaxBodyBytes,
	}
	// The connection stays open for further requests until the peer
	// closes it, a read fails, or the server shuts down.
	for {
		if s.ReadTimeout > 0 {
			_ = c.SetReadDeadline(time.Now().Add(s.ReadTimeout))
		}
		pr, err := rr.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			// Malformed input degrades to a route miss: answer the bare
			// frame and drop the connection, since body framing is
			// unknown from here on.
			log.Debug().Err(err).Msg("unreadable request")
			_ = http1.WriteNotFound(c)
			return
		}
		if s.WriteTimeout > 0 {
			_ = c.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
		}
		s.dispatch(c, pr, log)
	}
}

func (s *Server) dispatch(c net.Conn, pr *http1.ParsedRequest, log zerolog.Logger) {
	start := time.Now()
	req := newRequest(pr)
	req.ID = newRequestID()
	req.Log = log.With().Str("request_id", req.ID).Logger()
	req.ctx = WithRequestID(context.Background(), req.ID)
	s.meter().Counter("httpd_requests_total", 1,
		obs.Label{Key: "method", Value: req.Method})

	var handler HandlerFunc
	if s.Router != nil {
		if pattern, h, params, ok := s.Router.Match(req.Method, req.RawPath); ok {
			req.Path = pattern
			req.Params = params
			handler = h
		}
	}

	status := 404
	if handler == nil {
		// No route for this method and path: the bare frame, zero
		// headers, bypassing the Response builder.
		_ = http1.WriteNotFound(c)
	} else {
		w := newResponse(c, req.acceptsGzip(), req.Log)
		handler(w, req)
		if !w.sent {
			req.Log.Warn().Str("route", req.Path).Msg("handler returned without sending")
		}
		status = w.status
	}

	elapsed := time.Since(start)
	s.meter().Counter("httpd_responses_total", 1,
		obs.Label{Key: "status", Value: strconv.Itoa(status)})
	s.meter().Histogram("httpd_request_seconds", elapsed.Seconds())
	req.Log.Info().
		Str("method", req.Method).
		Str("path", req.RawPath).
		Str("route", req.Path).
		Int("status", status).
		Dur("elapsed", elapsed).
		Msg("request")
}

func (s *Server) logger() zerolog.Logger {
	if s.Log == nil {
		return zerolog.Nop()
	}
	return *s.Log
}

func (s *Server) meter() obs.Meter {
	if s.Meter == nil {
		return obs.NopMeter{}
	}
	return s.Meter
}

func (s *Server) headerLimit() int {
	if s.MaxHeaderBytes <= 0 {
		return 8 << 10
	}
	return s.MaxHeaderBytes
}
