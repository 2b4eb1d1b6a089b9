// Package web serves the upload form and runs the pipeline per request.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/call-summary/internal/log"
	"github.com/alnah/call-summary/internal/pipeline"
)

// Defaults.
const (
	DefaultMaxUpload       = 25 << 20
	DefaultShutdownTimeout = 10 * time.Second

	// multipartOverhead allows for form fields and boundaries on top of
	// the file itself.
	multipartOverhead = 1 << 20
)

// Server is the HTTP front-end.
type Server struct {
	pipeline        *pipeline.Pipeline
	router          *gin.Engine
	maxUpload       int64
	development     bool
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithMaxUpload sets the maximum accepted file size in bytes.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithDevelopment enables gin debug mode and skips security headers.
func WithDevelopment(dev bool) Option {
	return func(s *Server) {
		s.development = dev
	}
}

// WithShutdownTimeout bounds how long Serve waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New creates a Server backed by p.
func New(p *pipeline.Pipeline, opts ...Option) *Server {
	s := &Server{
		pipeline:        p,
		maxUpload:       DefaultMaxUpload,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	if !s.development {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.RequestID())
	r.Use(log.GinLogger())
	if !s.development {
		r.Use(securityHeaders())
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/download/"})))

	_ = r.SetTrustedProxies(nil)
	r.MaxMultipartMemory = s.maxUpload
	r.SetHTMLTemplate(parseTemplates())

	r.GET("/", s.handleIndex)
	r.POST("/process", s.handleProcess)
	r.GET("/download/:name", s.handleDownload)
	r.GET("/healthz", s.handleHealth)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. Returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.StdErrorLogger(), // Route Go's internal HTTP errors through zerolog
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("HTTP server starting")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		log.Info().Msg("server shutdown complete")
		return nil
	})

	return g.Wait()
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
