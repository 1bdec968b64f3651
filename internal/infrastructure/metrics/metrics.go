package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
)

// Metrics 客服编排的 Prometheus 指标
type Metrics struct {
	registry *prometheus.Registry

	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	collaboratorCalls  *prometheus.CounterVec
	collaboratorTiming *prometheus.HistogramVec
	recordFailures     prometheus.Counter
}

// NewMetrics 在独立 Registry 上注册指标
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportdesk_requests_total",
				Help: "Total number of customer messages handled",
			},
			[]string{"status", "category", "handled_by"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "supportdesk_request_duration_seconds",
				Help:    "Duration of customer message handling in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		collaboratorCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportdesk_collaborator_calls_total",
				Help: "Total number of collaborator calls by outcome",
			},
			[]string{"collaborator", "outcome"},
		),
		collaboratorTiming: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "supportdesk_collaborator_duration_seconds",
				Help: "Duration of collaborator calls in seconds",
			},
			[]string{"collaborator"},
		),
		recordFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "supportdesk_record_failures_total",
				Help: "Total number of conversation records that failed to persist",
			},
		),
	}
}

// ProvideMetrics 关闭指标时返回 nil
func ProvideMetrics(cfg *config.MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return NewMetrics()
}

// ObserveRequest 记录一次请求
func (m *Metrics) ObserveRequest(status, category, handledBy string, elapsed time.Duration) {
	m.requests.WithLabelValues(status, category, handledBy).Inc()
	m.requestDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// ObserveCollaborator 记录一次协作方调用
func (m *Metrics) ObserveCollaborator(name string, elapsed time.Duration, err error) {
	m.collaboratorCalls.WithLabelValues(name, outcome(err)).Inc()
	m.collaboratorTiming.WithLabelValues(name).Observe(elapsed.Seconds())
}

// ObserveRecordFailure 记录一次持久化失败
func (m *Metrics) ObserveRecordFailure() {
	m.recordFailures.Inc()
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCollaboratorTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrMalformedOutput):
		return "malformed"
	default:
		return "error"
	}
}
