// Package monitoring owns the Prometheus registry: HTTP request metrics and
// the lounge workflow counters.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	prometheus_metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/workflow"
)

const (
	metricsNamespace = "loungegate"
	workflowLabel    = "workflow"
	outcomeLabel     = "outcome"
)

type Service struct {
	registry      *prometheus.Registry
	middleware    middleware.Middleware
	scans         *prometheus.CounterVec
	enrollments   prometheus.Counter
	captureFailed *prometheus.CounterVec
}

var _ workflow.Observer = (*Service)(nil)

func NewService() *Service {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	scans := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "recognition",
			Name:      "scans_total",
			Help:      "Resolved recognition scans by outcome",
		},
		[]string{outcomeLabel},
	)
	enrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "enrollment",
		Name:      "members_total",
		Help:      "Members created through enrollment",
	})
	captureFailed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "capture",
			Name:      "failures_total",
			Help:      "Camera acquisitions that failed",
		},
		[]string{workflowLabel},
	)
	reg.MustRegister(scans, enrollments, captureFailed)

	return &Service{
		registry: reg,
		middleware: middleware.New(middleware.Config{
			Service: metricsNamespace,
			Recorder: prometheus_metrics.NewRecorder(prometheus_metrics.Config{
				Registry: reg,
			}),
		}),
		scans:         scans,
		enrollments:   enrollments,
		captureFailed: captureFailed,
	}
}

// HandlerID wraps with a fixed handler ID, which keeps label cardinality
// bounded for routes with path parameters.
func (s *Service) HandlerID(id string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return std.Handler(id, s.middleware, h)
	}
}

// MetricsHandler serves the registry in the Prometheus text format.
func (s *Service) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

func (s *Service) ScanResolved(outcome types.AccessOutcome) {
	s.scans.With(prometheus.Labels{outcomeLabel: string(outcome)}).Inc()
}

func (s *Service) MemberEnrolled() {
	s.enrollments.Inc()
}

func (s *Service) CaptureFailed(workflow string) {
	s.captureFailed.With(prometheus.Labels{workflowLabel: workflow}).Inc()
}
