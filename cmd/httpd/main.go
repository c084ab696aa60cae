package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"rvx.dev/go/httpd/httpd"
	"rvx.dev/go/httpd/internal/handlers"
	"rvx.dev/go/httpd/internal/obs"
)

func main() {
	dir := flag.String("directory", ".", "directory served under /files/")
	addr := flag.String("addr", "127.0.0.1:4221", "listen address")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()
	// A bare trailing argument is also accepted as the served directory.
	if args := flag.Args(); len(args) > 0 {
		*dir = args[0]
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := obs.NewLogger(os.Stderr, level, true)

	s := &httpd.Server{
		Addr:           *addr,
		Router:         handlers.Routes(*dir),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 8 << 10,
		MaxBodyBytes:   1 << 20,
		Log:            &log,
	}
	log.Info().Str("addr", *addr).Str("dir", *dir).Msg("listening")
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, httpd.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}
