package api

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/skufinskiy/itnelep-tools/pkg/kit"
	"github.com/skufinskiy/itnelep-tools/pkg/pipeline"
)

// Metrics holds the Prometheus metrics of the API.
//
//   - greeter_requests_total{endpoint,outcome}
//   - greeter_endpoint_duration_seconds{endpoint}
//   - greeter_leaders_total{status}
//   - greeter_degraded_total
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Leaders  *prometheus.CounterVec
	Degraded prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "greeter_requests_total",
			Help: "Endpoint calls by outcome",
		}, []string{"endpoint", "outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "greeter_endpoint_duration_seconds",
			Help:    "Endpoint latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}, []string{"endpoint"}),
		Leaders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "greeter_leaders_total",
			Help: "Composed leaders by resolution status",
		}, []string{"status"}),
		Degraded: f.NewCounter(prometheus.CounterOpts{
			Name: "greeter_degraded_total",
			Help: "Leaders composed without the requested grammatical case",
		}),
	}
}

// Middleware counts and times calls of the named endpoint.
func (m *Metrics) Middleware(name string) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			m.Duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			m.Requests.WithLabelValues(name, outcome).Inc()
			return resp, err
		}
	}
}

func (m *Metrics) observeResults(results []pipeline.Result) {
	for _, r := range results {
		m.Leaders.WithLabelValues(string(r.Status)).Inc()
		if r.Degraded {
			m.Degraded.Inc()
		}
	}
}
