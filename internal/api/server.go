package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
	"github.com/nao1215/nrcap/internal/observability"
	"github.com/nao1215/nrcap/internal/pipeline"
	"github.com/nao1215/nrcap/internal/report"
)

// defaultScenarioName names requests that do not carry a scenario name.
const defaultScenarioName = "api"

// Server wires the dimensioning pipeline to HTTP.
type Server struct {
	logger      *slog.Logger
	collector   *observability.Collector
	version     string
	concurrency int
	origins     []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and pipeline logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCollector enables Prometheus metrics and the /metrics route.
func WithCollector(c *observability.Collector) Option {
	return func(s *Server) {
		s.collector = c
	}
}

// WithVersion sets the version reported by /health and the OpenAPI document.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithConcurrency sets how many scenarios of one batch request run at once.
func WithConcurrency(n int) Option {
	return func(s *Server) {
		s.concurrency = n
	}
}

// WithAllowedOrigins enables CORS for the given origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		version:     "dev",
		concurrency: pipeline.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Handler builds the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.requestLogger)
	router.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}
	if s.collector != nil {
		router.Use(s.collector.Middleware)
		router.Method(http.MethodGet, "/metrics", s.collector.Handler())
	}

	config := huma.DefaultConfig("nrcap API", s.version)
	config.Info.Description = "5G NR capacity dimensioning: busy-hour traffic to cells and sites."
	api := humachi.New(router, config)

	s.register(api)
	return router
}

func (s *Server) register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
		Tags:        []string{"System"},
	}, s.health)

	huma.Register(api, huma.Operation{
		OperationID: "dimension",
		Method:      http.MethodPost,
		Path:        "/v1/dimension",
		Summary:     "Dimension a scenario",
		Description: "Estimates busy-hour traffic, per-cell throughput and the cells and sites required for one scenario.",
		Tags:        []string{"Dimensioning"},
	}, s.dimension)

	huma.Register(api, huma.Operation{
		OperationID: "dimensionBatch",
		Method:      http.MethodPost,
		Path:        "/v1/batch",
		Summary:     "Dimension several scenarios",
		Description: "Runs every scenario independently. Scenarios that fail carry their error in the report; the request itself succeeds.",
		Tags:        []string{"Dimensioning"},
	}, s.dimensionBatch)
}

func (s *Server) health(_ context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Version = s.version
	resp.Body.Time = time.Now()
	return resp, nil
}

func (s *Server) newPipeline() *pipeline.Pipeline {
	return pipeline.DefaultPipeline(
		[]pipeline.Option{pipeline.WithLogger(s.logger)},
		pipeline.WithAdvisoryLogger(s.logger),
	)
}

func (s *Server) dimension(ctx context.Context, in *DimensionInput) (*DimensionOutput, error) {
	rep := in.Body.Job().NewReport()
	err := s.newPipeline().Execute(ctx, rep)
	s.collector.ObserveReport(rep)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &DimensionOutput{Body: rep}, nil
}

func (s *Server) dimensionBatch(ctx context.Context, in *BatchInput) (*BatchOutput, error) {
	jobs := make([]pipeline.Job, len(in.Body.Scenarios))
	for i, sc := range in.Body.Scenarios {
		jobs[i] = sc.Job()
	}

	bp := pipeline.NewBatchProcessor(s.newPipeline,
		pipeline.WithConcurrency(s.concurrency),
		pipeline.WithBatchLogger(s.logger),
	)
	reports := make([]*model.ScenarioReport, len(jobs))
	err := bp.ProcessBatchWithCallback(ctx, jobs, func(r *model.ScenarioReport, i int) {
		reports[i] = r
		s.collector.ObserveReport(r)
	})
	if err != nil {
		return nil, huma.Error503ServiceUnavailable("batch cancelled", err)
	}
	return &BatchOutput{Body: report.NewBatchReport(reports, s.version)}, nil
}

// toHTTPError maps capacity model errors to 422 and anything else to 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, capacity.ErrInvalidParameter), errors.Is(err, capacity.ErrInvalidCapacity):
		return huma.Error422UnprocessableEntity(err.Error(), err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return huma.Error503ServiceUnavailable("request cancelled", err)
	default:
		return huma.Error500InternalServerError("dimensioning failed", err)
	}
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_ip", r.RemoteAddr,
				"status", ww.Status(),
				"latency", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
