package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/service"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/store"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/workflow"
	"github.com/BrandonDHaskell/loungegate/internal/monitoring"
)

type Dependencies struct {
	Logger      *slog.Logger
	Addr        string
	Kiosk       *service.Kiosk
	Directory   *service.Directory
	AccessLog   *service.AccessLog
	Metrics     *monitoring.Service // optional
	CORSOrigins []string
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	router     *chi.Mux
	metrics    *monitoring.Service
	kiosk      *service.Kiosk
	directory  *service.Directory
	accessLog  *service.AccessLog
}

func NewServer(d Dependencies) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	s := &Server{
		logger:    logger,
		router:    r,
		metrics:   d.Metrics,
		kiosk:     d.Kiosk,
		directory: d.Directory,
		accessLog: d.AccessLog,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(chiMiddleware.Recoverer)

	s.routes()

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		ExposedHeaders: []string{traceHeader},
	}).Handler(r)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	s.handle(http.MethodGet, "/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.MetricsHandler())
	}

	s.handle(http.MethodGet, "/v1/routes", s.handleRoutes)
	s.handle(http.MethodGet, "/v1/security/protocols", s.handleProtocols)

	s.handle(http.MethodGet, "/v1/members", s.handleListMembers)
	s.handle(http.MethodGet, "/v1/members/{id}", s.handleGetMember)
	s.handle(http.MethodGet, "/v1/stats", s.handleStats)
	s.handle(http.MethodGet, "/v1/access_log", s.handleAccessLog)

	s.handle(http.MethodPost, "/v1/enrollments", s.handleOpenEnrollment)
	s.handle(http.MethodGet, "/v1/enrollments/{id}", s.handleGetEnrollment)
	s.handle(http.MethodDelete, "/v1/enrollments/{id}", s.handleCloseEnrollment)
	s.handle(http.MethodPost, "/v1/enrollments/{id}/open", s.handleReopenEnrollment)
	s.handle(http.MethodPost, "/v1/enrollments/{id}/scan", s.handleEnrollmentScan)
	s.handle(http.MethodPost, "/v1/enrollments/{id}/submit", s.handleEnrollmentSubmit)

	s.handle(http.MethodPost, "/v1/recognitions", s.handleStartRecognition)
	s.handle(http.MethodGet, "/v1/recognitions/{id}", s.handleGetRecognition)
	s.handle(http.MethodDelete, "/v1/recognitions/{id}", s.handleEndRecognition)
	s.handle(http.MethodPost, "/v1/recognitions/{id}/camera", s.handleActivateCamera)
	s.handle(http.MethodDelete, "/v1/recognitions/{id}/camera", s.handleStopCamera)
	s.handle(http.MethodPost, "/v1/recognitions/{id}/scan", s.handleRecognitionScan)
}

// handle registers h, measured under its route pattern so path parameters
// do not multiply metric series.
func (s *Server) handle(method, pattern string, h http.HandlerFunc) {
	if s.metrics == nil {
		s.router.Method(method, pattern, h)
		return
	}
	s.router.With(s.metrics.HandlerID(pattern)).Method(method, pattern, h)
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// writeDomainError maps service and workflow errors onto the error envelope.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, store.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	// A tier problem on submit is also an invalid form; report the narrower code.
	case errors.Is(err, types.ErrInvalidTier):
		writeError(w, r, http.StatusBadRequest, "invalid_tier", err.Error())
	case errors.Is(err, workflow.ErrInvalidForm):
		writeError(w, r, http.StatusBadRequest, "invalid_form", err.Error())
	case errors.Is(err, workflow.ErrCaptureUnavailable):
		writeError(w, r, http.StatusConflict, "capture_unavailable", err.Error())
	case errors.Is(err, workflow.ErrScanInProgress):
		writeError(w, r, http.StatusConflict, "scan_in_progress", err.Error())
	case errors.Is(err, workflow.ErrCameraInactive):
		writeError(w, r, http.StatusConflict, "camera_inactive", err.Error())
	case errors.Is(err, workflow.ErrInvalidState), errors.Is(err, workflow.ErrClosed):
		writeError(w, r, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, workflow.ErrStoreFailed):
		s.logger.WarnContext(r.Context(), op+" store error", "err", err)
		writeError(w, r, http.StatusBadGateway, "store_error", "member store unavailable")
	default:
		s.logger.ErrorContext(r.Context(), op+" error", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}
