// 🚀 Prometheus 指标采集器
// HTTP 层与管线层共用一个 Collector，注册表由调用方注入，测试可隔离。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 汇聚服务的全部 Prometheus 指标。
// 所有 Record 方法对 nil 接收者安全，未接指标时直接成为空操作。
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
	generations   *prometheus.CounterVec
	generationDur prometheus.Histogram
	vendorCalls   *prometheus.CounterVec
	vendorDur     *prometheus.HistogramVec
	taskPolls     *prometheus.CounterVec
}

// NewCollector registers all metrics against the given registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prompt2model",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "prompt2model",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "prompt2model",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served.",
		}),
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prompt2model",
			Subsystem: "pipeline",
			Name:      "generations_total",
			Help:      "Image generation rounds by outcome.",
		}, []string{"outcome"}),
		generationDur: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prompt2model",
			Subsystem: "pipeline",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of a full dual-image generation round.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 120},
		}),
		vendorCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prompt2model",
			Subsystem: "vendor",
			Name:      "requests_total",
			Help:      "Upstream vendor calls by vendor, operation and outcome.",
		}, []string{"vendor", "operation", "outcome"}),
		vendorDur: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "prompt2model",
			Subsystem: "vendor",
			Name:      "request_duration_seconds",
			Help:      "Upstream vendor call latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"vendor", "operation"}),
		taskPolls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prompt2model",
			Subsystem: "vendor",
			Name:      "task_polls_total",
			Help:      "Status polls against async vendor tasks.",
		}, []string{"kind", "outcome"}),
	}
}

// RecordHTTPRequest counts one served request.
func (c *Collector) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, status).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RequestStarted marks a request in flight; the returned func ends it.
func (c *Collector) RequestStarted() func() {
	if c == nil {
		return func() {}
	}
	c.httpInFlight.Inc()
	return c.httpInFlight.Dec
}

// RecordGeneration counts one dual-image generation round.
func (c *Collector) RecordGeneration(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.generations.WithLabelValues(outcome).Inc()
	c.generationDur.Observe(duration.Seconds())
}

// RecordVendorRequest counts one upstream call.
func (c *Collector) RecordVendorRequest(vendor, operation string, err error, duration time.Duration) {
	if c == nil {
		return
	}
	c.vendorCalls.WithLabelValues(vendor, operation, outcomeLabel(err)).Inc()
	c.vendorDur.WithLabelValues(vendor, operation).Observe(duration.Seconds())
}

// RecordTaskPoll counts one status poll against an async vendor task.
func (c *Collector) RecordTaskPoll(kind string, err error) {
	if c == nil {
		return
	}
	c.taskPolls.WithLabelValues(kind, outcomeLabel(err)).Inc()
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
