// Package server provides an HTTP façade over internal/presburger: submit a
// formula, get back its accepting automaton rendered as DOT and a sample of
// its satisfying solutions.
//
// server:
//   - POST   /automaton/dot     - build (or fetch cached) the automaton for
//     a formula and render it to DOT + a sample of solutions.
//   - POST   /automaton/update  - re-render, without re-parsing the formula,
//     an automaton that /automaton/dot has already built and cached. The
//     cache lookup key is the formula text plus the order, so an order not
//     previously built for that formula returns 404.
//   - GET    /info              - default-config info (listen address,
//     solution cap, cache type).
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/presburger/server/cache"
	"github.com/dekarrin/presburger/server/middle"
)

// AutomatonServer is the HTTP façade described above. The zero value is not
// usable; construct one with New.
type AutomatonServer struct {
	mux   *chi.Mux
	cfg   Config
	cache cache.Store
}

// New constructs an AutomatonServer from cfg, connecting its configured
// cache backend. Call Close when done to release the cache's resources.
func New(cfg Config) (*AutomatonServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cfg.Cache.Connect()
	if err != nil {
		return nil, err
	}

	srv := &AutomatonServer{
		mux:   chi.NewRouter(),
		cfg:   cfg,
		cache: store,
	}
	srv.initHandlers()
	return srv, nil
}

func (s *AutomatonServer) initHandlers() {
	s.mux.Use(middle.WithRequestID())
	s.mux.Use(middle.LogRequests())
	s.mux.Use(middle.DontPanic())

	if len(s.cfg.CORSOrigins) > 0 {
		s.mux.Use(s.corsMiddleware)
	}

	s.mux.Post("/automaton/dot", s.handlePostAutomatonDot)
	s.mux.Post("/automaton/update", s.handlePostAutomatonUpdate)
	s.mux.Get("/info", s.handleGetInfo)
}

func (s *AutomatonServer) corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(s.cfg.CORSOrigins))
	for _, o := range s.cfg.CORSOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		next.ServeHTTP(w, req)
	})
}

// ServeHTTP lets AutomatonServer satisfy http.Handler directly.
func (s *AutomatonServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.mux.ServeHTTP(w, req)
}

// ListenAndServe starts the HTTP server on cfg.ListenAddress, blocking until
// it exits.
func (s *AutomatonServer) ListenAndServe() error {
	httpSrv := &http.Server{
		Addr:         s.cfg.ListenAddress,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return httpSrv.ListenAndServe()
}

// Close releases the server's cache resources.
func (s *AutomatonServer) Close() error {
	return s.cache.Close()
}

// requestContext derives a context that bounds a whole request to 10 seconds.
// The formula build itself runs under the shorter buildTimeout via the
// worker package.
func requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 10*time.Second)
}
