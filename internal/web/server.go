package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/decksite/internal/build"
	"github.com/woozymasta/decksite/internal/metrics"
)

// Server is the dev HTTP server exposing validated content, health and
// metrics endpoints.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	ctx    context.Context
	cancel context.CancelFunc

	started      atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// NewRouter builds the dev server routes. m may be nil, in which case
// /metrics is not registered.
func NewRouter(store *build.Store, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	h := &handlers{store: store}
	r.Get("/health", healthHandler)
	r.Get("/health/live", healthHandler)
	r.Get("/health/ready", h.ready)
	r.Get("/version", buildInfoHandler)
	r.Get("/build", h.latestBuild)
	r.Get("/content/{collection}", h.listEntries)
	r.Get("/content/{collection}/*", h.getEntry)
	r.Get("/", buildInfoHandler)

	return r
}

// NewServer creates a new Server listening on addr.
func NewServer(ctx context.Context, addr string, store *build.Store, m *metrics.Metrics) (*Server, error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(store, m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	serverCtx, cancel := context.WithCancel(ctx)

	log.Info().
		Str("addr", ln.Addr().String()).
		Bool("metrics_enabled", m != nil).
		Msg("Starting dev HTTP server")

	return &Server{
		srv:    srv,
		ln:     ln,
		ctx:    serverCtx,
		cancel: cancel,
	}, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Start starts the HTTP server in a separate goroutine.
func (s *Server) Start() {
	s.started.Store(true)
	go func() {
		if err := s.srv.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			log.Warn().Err(err).Msg("Dev HTTP server stopped with error")
		}
	}()

	go func() {
		<-s.ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to shutdown dev HTTP server")
		}
	}()
}

// Shutdown gracefully shuts down the HTTP server. A server that was never
// started only releases its listener. Only the first call has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.cancel()
		if !s.started.Load() {
			if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				s.shutdownErr = err
			}
			return
		}
		s.shutdownErr = s.srv.Shutdown(ctx)
	})
	return s.shutdownErr
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
