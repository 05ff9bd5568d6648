// Package server sets up the HTTP server with all routes
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/mbd888/peerpay/internal/addressbook"
	"github.com/mbd888/peerpay/internal/config"
	"github.com/mbd888/peerpay/internal/guard"
	"github.com/mbd888/peerpay/internal/health"
	"github.com/mbd888/peerpay/internal/logging"
	"github.com/mbd888/peerpay/internal/metrics"
	"github.com/mbd888/peerpay/internal/modals"
	"github.com/mbd888/peerpay/internal/pages"
	"github.com/mbd888/peerpay/internal/ratelimit"
	"github.com/mbd888/peerpay/internal/realtime"
	"github.com/mbd888/peerpay/internal/requests"
	"github.com/mbd888/peerpay/internal/retry"
	"github.com/mbd888/peerpay/internal/security"
	"github.com/mbd888/peerpay/internal/session"
	"github.com/mbd888/peerpay/internal/traces"
	"github.com/mbd888/peerpay/internal/validation"
	"github.com/mbd888/peerpay/migrations"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg          *config.Config
	version      string
	db           *sql.DB // nil if using in-memory
	store        session.Store
	sessions     *session.Manager
	janitor      *session.Janitor
	requests     *requests.Service
	validator    *addressbook.Validator
	modals       *modals.Service
	pages        *pages.Handler
	realtimeHub  *realtime.Hub
	rateLimiter  *ratelimit.Limiter
	checks       *health.Registry
	router       *gin.Engine
	httpSrv      *http.Server
	logger       *slog.Logger
	connectDelay time.Duration
	drainDelay   time.Duration
	stopTracing  func(context.Context) error

	// Health state
	ready   atomic.Bool
	healthy atomic.Bool
	running atomic.Bool
}

// Option configures the server
type Option func(*Server)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessionStore replaces the store chosen from DATABASE_URL (for testing)
func WithSessionStore(store session.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithConnectDelay makes connect hold the session in its loading state
// for d, the way a wallet prompt would.
func WithConnectDelay(d time.Duration) Option {
	return func(s *Server) {
		s.connectDelay = d
	}
}

// WithVersion sets the version reported by /health
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// New creates a new server instance
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		version: "dev",
		logger:  logging.New(cfg.LogLevel, cfg.LogFormat),
	}
	if cfg.IsProduction() {
		s.drainDelay = 5 * time.Second
	}

	for _, opt := range opts {
		opt(s)
	}

	ctx := context.Background()

	if err := validation.RegisterBindings(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	stopTracing, err := traces.Init(ctx, cfg.OTLPEndpoint, s.version, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	s.stopTracing = stopTracing

	// Initialize storage (Postgres if DATABASE_URL set, otherwise in-memory)
	if s.store == nil {
		if cfg.DatabaseURL != "" {
			db, err := openDatabase(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			s.db = db
			s.store = session.NewPostgresStore(db)
			s.logger.Info("using PostgreSQL session storage", "url", maskDSN(cfg.DatabaseURL))
		} else {
			s.store = session.NewMemoryStore()
			s.logger.Info("using in-memory session storage (sessions will not persist)")
		}
	}

	s.realtimeHub = realtime.NewHub(s.logger)

	s.sessions = session.NewManager(s.store, session.Identity{
		Address: cfg.MockAddress,
		ENSName: cfg.MockENS,
		ChainID: cfg.DefaultChainID,
	}, s.logger).WithPublisher(s.realtimeHub)
	if s.connectDelay > 0 {
		s.sessions.WithConnectDelay(s.connectDelay)
	}
	s.janitor = session.NewJanitor(s.sessions, cfg.SessionTTL, s.logger)

	seeded, err := requests.NewSeededStore()
	if err != nil {
		return nil, fmt.Errorf("failed to load sample requests: %w", err)
	}
	s.requests = requests.NewService(seeded)

	s.validator = addressbook.NewValidator(addressbook.NewStaticResolver(cfg.MockAddress, addressbook.DefaultReverseName))
	s.modals = modals.NewService(s.validator, s.requests, cfg.MockAddress)

	s.pages, err = pages.NewHandler(s.sessions, s.requests, s.modals, s.validator)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	rl := ratelimit.DefaultConfig()
	rl.RequestsPerSecond = float64(cfg.RateLimitRPS)
	rl.BurstSize = cfg.RateLimitBurst
	s.rateLimiter = ratelimit.New(rl)

	s.checks = health.NewRegistry(2 * time.Second)
	s.checks.Register("sessions", health.Ping("sessions", s.store.Ping))
	if s.db != nil {
		s.checks.Register("database", health.Ping("database", s.db.PingContext))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.healthy.Store(true)

	return s, nil
}

func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.Do(ctx, retry.Startup, "database.ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// maskDSN hides password in connection string for logging
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func (s *Server) setupMiddleware() {
	// Recovery with logging
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}))

	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(metrics.Middleware())

	s.router.Use(security.HeadersMiddleware())
	s.router.Use(security.CORSMiddleware(s.cfg.CORSOrigins))

	s.router.Use(validation.RequestSizeMiddleware(validation.MaxRequestSize))
	s.router.Use(s.rateLimiter.Middleware())
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for existing request ID (from load balancer, etc.)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, s.logger)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := logging.L(c.Request.Context())

		// Log level based on status code
		switch {
		case status >= 500:
			logger.Error("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.ClientIP(),
			)
		case status >= 400:
			logger.Warn("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		default:
			logger.Debug("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}
	}
}

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	// Health & metrics endpoints
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/health/live", s.livenessHandler)
	s.router.GET("/health/ready", s.readinessHandler)
	s.router.GET("/metrics", metrics.Handler())

	provider := session.Provider(s.sessions, session.CookieConfig{
		Name:   s.cfg.SessionCookie,
		TTL:    s.cfg.SessionTTL,
		Secure: s.cfg.IsProduction(),
	})
	sameOrigin := security.SameOriginPosts(s.cfg.CORSOrigins)

	// Pages and their form posts
	app := s.router.Group("/", provider, sameOrigin)
	s.pages.RegisterRoutes(app)

	// WebSocket for session events
	s.router.GET("/ws", provider, s.realtimeHub.Handler())

	// V1 API group
	v1 := s.router.Group("/v1", provider, sameOrigin)
	session.NewHandler(s.sessions).RegisterRoutes(v1)
	addressbook.NewHandler(s.validator).RegisterRoutes(v1)

	connected := v1.Group("", guard.RequireConnectedAPI())
	requests.NewHandler(s.requests).RegisterProtectedRoutes(connected)
	modals.NewHandler(s.modals).RegisterProtectedRoutes(connected)

	s.router.NoRoute(session.ReadOnly(s.sessions, s.cfg.SessionCookie), s.pages.NotFound)
}

// -----------------------------------------------------------------------------
// Health
// -----------------------------------------------------------------------------

// HealthResponse is the body of /health
type HealthResponse struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Checks    []health.Status `json:"checks"`
	Timestamp string          `json:"timestamp"`
}

func (s *Server) healthHandler(c *gin.Context) {
	ok, checks := s.checks.CheckAll(c.Request.Context())

	status := "healthy"
	httpStatus := http.StatusOK
	if !ok {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:    status,
		Version:   s.version,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	if ok, checks := s.checks.CheckAll(c.Request.Context()); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Run starts the HTTP server and the background loops, and blocks until
// ctx is cancelled, a shutdown signal arrives, or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("server: already running")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.checks.Register("realtime", health.Running("realtime", s.hubRunning))
	s.checks.Register("janitor", health.Running("janitor", s.janitor.Running))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.realtimeHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		s.rateLimiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		s.janitor.Start(gctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("starting server",
			"port", s.cfg.Port,
			"env", s.cfg.Env,
			"address", s.cfg.MockAddress,
		)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Mark as ready after brief delay for startup
	g.Go(func() error {
		select {
		case <-time.After(100 * time.Millisecond):
			s.ready.Store(true)
			s.logger.Info("server ready")
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutdown requested")
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) hubRunning() bool {
	select {
	case <-s.realtimeHub.Done():
		return false
	default:
		return s.running.Load()
	}
}

// shutdown gracefully stops the server
func (s *Server) shutdown() error {
	s.ready.Store(false)
	s.logger.Info("starting graceful shutdown")

	// Give load balancers time to stop sending traffic
	time.Sleep(s.drainDelay)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var errs []error
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		errs = append(errs, err)
	}

	s.janitor.Stop()

	if err := s.stopTracing(ctx); err != nil {
		s.logger.Error("tracer shutdown error", "error", err)
	}

	if err := s.Close(); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info("server stopped")
	return errors.Join(errs...)
}

// Close releases the database connection pool, if any.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		s.logger.Error("database close error", "error", err)
		return err
	}
	s.logger.Info("database connection closed")
	return nil
}

// Router returns the gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Sessions returns the session manager for testing
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}
