package observability

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nao1215/nrcap/internal/capacity"
	"github.com/nao1215/nrcap/internal/model"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return c, reg
}

func TestNewCollectorReusesRegistered(t *testing.T) {
	t.Parallel()

	first, reg := newTestCollector(t)
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}

	first.Dimensionings.WithLabelValues(OutcomeOK).Inc()
	if got := testutil.ToFloat64(second.Dimensionings.WithLabelValues(OutcomeOK)); got != 1 {
		t.Fatalf("second collector sees %v, want shared counter value 1", got)
	}
}

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	t.Parallel()

	c, _ := newTestCollector(t)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/v1/scenarios/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	for _, path := range []string{"/v1/scenarios/a", "/v1/scenarios/b", "/health"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues(http.MethodGet, "/v1/scenarios/{name}", "404")); got != 2 {
		t.Errorf("requests for pattern = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues(http.MethodGet, "/health", "200")); got != 1 {
		t.Errorf("requests for /health = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.HTTPDurations); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestObserveReport(t *testing.T) {
	t.Parallel()

	c, _ := newTestCollector(t)

	ok := model.NewScenarioReport("a", capacity.Input{})
	ok.Sites = &capacity.SiteEstimate{Cells: 12, Sites: 4, Selected: capacity.FR2}
	c.ObserveReport(ok)

	bad := model.NewScenarioReport("b", capacity.Input{})
	bad.SetError(&capacity.ParamError{Field: "area_km2", Reason: "must be positive"})
	c.ObserveReport(bad)
	c.ObserveReport(nil)

	if got := testutil.ToFloat64(c.Dimensionings.WithLabelValues(OutcomeOK)); got != 1 {
		t.Errorf("ok outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Dimensionings.WithLabelValues(OutcomeInvalidParameter)); got != 1 {
		t.Errorf("invalid_parameter outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.SelectedRange.WithLabelValues("FR2")); got != 1 {
		t.Errorf("FR2 selections = %v, want 1", got)
	}
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: OutcomeOK},
		{name: "param error", err: &capacity.ParamError{Field: "x"}, want: OutcomeInvalidParameter},
		{name: "wrapped capacity", err: fmt.Errorf("run: %w", capacity.ErrInvalidCapacity), want: OutcomeInvalidCapacity},
		{name: "other", err: errors.New("boom"), want: OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Outcome(tt.err); got != tt.want {
				t.Errorf("Outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	t.Parallel()

	c, _ := newTestCollector(t)
	c.Dimensionings.WithLabelValues(OutcomeOK).Inc()

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `nrcap_dimensionings_total{outcome="ok"} 1`) {
		t.Errorf("metrics output missing dimensionings counter:\n%s", rr.Body.String())
	}
}
