package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"buildseason/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	m := NewServerMetrics("api", prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/teams/:teamId/orders", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "nope")
	})

	for _, path := range []string{"/teams/a/orders", "/teams/b/orders", "/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/teams/:teamId/orders", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/fail", "409")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := NewServerMetrics("api", prometheus.NewRegistry())
	m.Requests.WithLabelValues("GET", "/health", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "buildseason_api_http_requests_total"))
}

type stubPublisher struct{ err error }

func (s stubPublisher) PublishOrderEvent(context.Context, model.OrderEvent) error { return s.err }

func TestInstrumentPublisher(t *testing.T) {
	m := NewServerMetrics("api", prometheus.NewRegistry())

	ok := m.InstrumentPublisher(stubPublisher{})
	require.NoError(t, ok.PublishOrderEvent(context.Background(), model.OrderEvent{Type: "order.pending"}))

	failing := m.InstrumentPublisher(stubPublisher{err: errors.New("broker down")})
	assert.Error(t, failing.PublishOrderEvent(context.Background(), model.OrderEvent{Type: "order.pending"}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderEvents.WithLabelValues("order.pending", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderEvents.WithLabelValues("order.pending", "error")))
}
