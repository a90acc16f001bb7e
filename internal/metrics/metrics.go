// Package metrics exposes Prometheus collectors for LLM calls, service use
// cases and HTTP requests.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/alexanderramin/clarity/internal/llm"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clarity"

// Metrics satisfies llm.Observer and service.UseCaseObserver so one value
// can be handed to both layers.
type Metrics struct {
	llmCalls        *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec
	useCases        *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

var (
	_ llm.Observer            = (*Metrics)(nil)
	_ service.UseCaseObserver = (*Metrics)(nil)
)

// MustNewMetrics registers the collectors with reg, reusing collectors
// already registered under the same names. Any other registration error
// panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		llmCalls: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "LLM calls by task, provider and outcome.",
		}, []string{"task", "provider", "status"})),
		llmLatency: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "LLM call latency including retries.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 45, 90},
		}, []string{"task", "provider"})),
		useCases: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "use_cases_total",
			Help:      "Service use case executions by outcome.",
		}, []string{"use_case", "status"})),
		useCaseDuration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"})),
		httpRequests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"})),
		httpDuration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *Metrics) OnCallComplete(event llm.LLMCallEvent) {
	if m == nil {
		return
	}
	status := "ok"
	if !event.Success {
		status = event.ErrorCode
		if status == "" {
			status = "error"
		}
	}
	m.llmCalls.WithLabelValues(string(event.Task), event.Provider, status).Inc()
	m.llmLatency.WithLabelValues(string(event.Task), event.Provider).
		Observe(time.Duration(event.LatencyMs * int64(time.Millisecond)).Seconds())
}

func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	if m == nil {
		return
	}
	status := "ok"
	if !event.Success {
		status = "error"
	}
	m.useCases.WithLabelValues(event.Name, status).Inc()
	m.useCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

// ObserveRequest records one served HTTP request. route is the matched
// route pattern, not the raw path.
func (m *Metrics) ObserveRequest(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
