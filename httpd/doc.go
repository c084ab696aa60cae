// Package httpd is a small HTTP/1.1 server built directly on TCP
// streams, aimed at learning and at tools that want full control over
// request parsing and response framing.
//
// Highlights
//   - Router with literal and :param path templates, compiled at
//     registration, first-registered-wins lookup.
//   - Incremental wire reader (request line, headers, Content-Length
//     body) with header and body size limits.
//   - Response builder with ordered headers, automatic Content-Type /
//     Content-Length from the body's type, negotiated gzip encoding,
//     and byte-exact framing separated from the socket write.
//   - Structured logging via zerolog and pluggable Meter hooks.
//
// Quick start:
//
//	rt := httpd.NewRouter()
//	rt.Register("GET", "/echo/:msg", func(w *httpd.Response, r *httpd.Request) {
//	    w.Status(200)
//	    w.Send(r.Params["msg"])
//	})
//	s := &httpd.Server{Addr: "127.0.0.1:4221", Router: rt}
//	if err := s.ListenAndServe(); err != nil { log.Fatal(err) }
package httpd
