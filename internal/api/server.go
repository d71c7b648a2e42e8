package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	api "hostpulse/internal/api/application"
	"hostpulse/internal/api/handlers"
	apimiddleware "hostpulse/internal/api/middleware"
	configapp "hostpulse/internal/config/application"
	metricsdomain "hostpulse/internal/metrics/domain"
	sharedlogger "hostpulse/internal/shared/logger"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	logger     sharedlogger.Logger
}

// NewServer creates a new API server. stream serves /api/v1/stream and may
// be nil to disable push.
func NewServer(
	logger sharedlogger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	metricsService metricsdomain.Service,
	stream http.Handler,
) (*Server, error) {
	if err := runtimeCfg.Validate(); err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:         runtimeCfg.Addr(),
		Handler:      NewRouter(logger, runtimeCfg, metricsService, stream),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Debug("Server configured",
		"addr", httpServer.Addr,
		"dev_mode", runtimeCfg.DevMode,
		"allowed_origin", runtimeCfg.AllowedOrigin,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog", "NoStore", "CORS"},
	)

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// NewRouter builds the chi router with every route and middleware
func NewRouter(
	logger sharedlogger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	metricsService metricsdomain.Service,
	stream http.Handler,
) http.Handler {
	metricsHandler := handlers.NewMetricsHandler(api.NewMetricsService(metricsService))

	// Setup chi router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// HTTP logging middleware - need concrete slog.Logger for httplog
	// Type assert to infrastructure logger to get underlying slog.Logger
	var slogLogger *slog.Logger
	if infraLogger, ok := logger.(interface{ SLog() *slog.Logger }); ok {
		slogLogger = infraLogger.SLog()
	} else {
		// Fallback to default if type assertion fails
		slogLogger = slog.Default()
	}

	r.Use(httplog.RequestLogger(slogLogger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{}, // Log no headers by default to reduce verbosity
	}))
	r.Use(apimiddleware.WithLogger(slogLogger))
	r.Use(apimiddleware.CORS(runtimeCfg.AllowedOrigin))

	// Swagger UI (only in dev mode)
	if runtimeCfg.DevMode {
		swaggerHandler := httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		)
		r.Handle("/swagger/*", swaggerHandler)
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apimiddleware.NoStore)

		r.Get("/healthz", metricsHandler.Health)

		r.Get("/system", metricsHandler.GetSystem)
		r.Get("/cpu", metricsHandler.GetCPU)
		r.Get("/memory", metricsHandler.GetMemory)
		r.Get("/disks", metricsHandler.GetDisks)
		r.Get("/network", metricsHandler.GetNetwork)
		r.Get("/processes", metricsHandler.GetProcesses)

		r.Get("/stats/realtime", metricsHandler.GetRealTimeStats)
		r.Get("/stats/extended", metricsHandler.GetExtendedStats)

		r.Get("/history", metricsHandler.ListHistory)
		r.Delete("/history", metricsHandler.ResetAllHistory)
		r.Get("/history/{key}", metricsHandler.GetHistory)
		r.Delete("/history/{key}", metricsHandler.ResetHistory)

		if stream != nil {
			r.Handle("/stream", stream)
		}
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
