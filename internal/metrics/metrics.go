// Package metrics はPrometheus向けのリクエスト計測と注文イベント計測を持つ。
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"buildseason/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "buildseason"

type ServerMetrics struct {
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	OrderEvents *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// reg が nil ならデフォルトレジストリを使う
func NewServerMetrics(service string, reg *prometheus.Registry) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "order_events_total",
		Help:      "Order lifecycle events by type and publish result.",
	}, []string{"type", "result"})

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	registerer.MustRegister(requests, latency, events)

	return &ServerMetrics{Requests: requests, LatencyMS: latency, OrderEvents: events, gatherer: gatherer}
}

// ルートのパターン（/teams/:teamId/orders/:orderId）単位で数える
func (m *ServerMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(method, route).Observe(float64(time.Since(start).Microseconds()) / 1000)
			return err
		}
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

type orderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error
}

type InstrumentedPublisher struct {
	next    orderEventPublisher
	metrics *ServerMetrics
}

// InstrumentPublisher は送信結果を order_events_total に数えるラッパーを返す。
func (m *ServerMetrics) InstrumentPublisher(next orderEventPublisher) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, metrics: m}
}

func (p *InstrumentedPublisher) PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error {
	err := p.next.PublishOrderEvent(ctx, ev)
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.metrics.OrderEvents.WithLabelValues(ev.Type, result).Inc()
	return err
}
