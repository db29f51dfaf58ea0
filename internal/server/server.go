package server

import (
	"context"
	"net/http"
	"time"
)

// Server serves the Cooked API: the instrumented v1 router behind an http.Server
// with configured read and write timeouts.
type Server struct {
	// server — listener for the metrics-wrapped ApiV1Router.
	server *http.Server
}

// ListenAndServe accepts API requests until Shutdown is called, then returns
// http.ErrServerClosed. Every request passes through the metrics middleware.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for running analyses to finish
// until ctx expires. Analyses still waiting on the model after that are cut off.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// NewServer creates and configures a new server instance.
//
// Parameters:
// - address: address and port to listen on (e.g., ":8080").
// - router: API v1 router.
// - readTimeout: time allowed to read a request, uploads included.
// - writeTimeout: time allowed to write a response; analyses wait on model calls.
//
// Limits header size and wraps the router with request metrics.
func NewServer(address string, router *ApiV1Router, readTimeout, writeTimeout time.Duration) *Server {
	s := Server{&http.Server{
		Addr:              address,
		Handler:           router.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: time.Second * 3,
		WriteTimeout:      writeTimeout,
		MaxHeaderBytes:    1024 * 10,
	}}

	return &s
}
