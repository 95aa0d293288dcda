package observability

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
)

// Dimensioning outcomes used as the "outcome" label.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidParameter = "invalid_parameter"
	OutcomeInvalidCapacity  = "invalid_capacity"
	OutcomeError            = "error"
)

// Collector bundles the Prometheus metrics of the HTTP server.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	Dimensionings *prometheus.CounterVec
	SelectedRange *prometheus.CounterVec
	SitesRequired prometheus.Histogram
}

// NewCollector registers the metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil. Registering twice
// against the same registry returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nrcap_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by method, route and status code.",
	}, []string{"method", "route", "code"}), "nrcap_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nrcap_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"}), "nrcap_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	dimensionings, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nrcap_dimensionings_total",
		Help: "Total number of dimensioning runs, labeled by outcome.",
	}, []string{"outcome"}), "nrcap_dimensionings_total")
	if err != nil {
		return nil, err
	}

	selected, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nrcap_selected_range_total",
		Help: "Successful dimensioning runs by the frequency range that needed fewer cells.",
	}, []string{"range"}), "nrcap_selected_range_total")
	if err != nil {
		return nil, err
	}

	sites, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nrcap_sites_required",
		Help:    "Estimated sites per successful dimensioning run.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}), "nrcap_sites_required")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		HTTPRequests:  requests,
		HTTPDurations: durations,
		Dimensionings: dimensionings,
		SelectedRange: selected,
		SitesRequired: sites,
	}, nil
}

// Middleware records request counts and durations. The route label is the
// chi route pattern, so path parameters do not create new series.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if c == nil {
			return
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDurations.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveReport records the outcome of one dimensioning run.
func (c *Collector) ObserveReport(report *model.ScenarioReport) {
	if c == nil || report == nil {
		return
	}

	outcome := Outcome(report.Error)
	c.Dimensionings.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK || report.Sites == nil {
		return
	}
	c.SelectedRange.WithLabelValues(string(report.Sites.Selected)).Inc()
	c.SitesRequired.Observe(float64(report.Sites.Sites))
}

// Outcome maps a dimensioning error to its metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, capacity.ErrInvalidParameter):
		return OutcomeInvalidParameter
	case errors.Is(err, capacity.ErrInvalidCapacity):
		return OutcomeInvalidCapacity
	default:
		return OutcomeError
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
