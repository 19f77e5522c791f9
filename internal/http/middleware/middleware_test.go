package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		id, _ := c.Locals(RequestIDLocalKey).(string)
		return c.SendString(id)
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		resp, _ := app.Test(req)

		got := resp.Header.Get(RequestIDHeader)
		require.NotEmpty(t, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	})

	t.Run("propagates an incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "client-supplied")
		resp, _ := app.Test(req)

		assert.Equal(t, "client-supplied", resp.Header.Get(RequestIDHeader))
	})
}

func TestPrometheusMiddleware(t *testing.T) {
	// Fresh registry per test to avoid duplicate registration panics.
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(pm.Handler())
	app.Get("/drafts/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})

	req := httptest.NewRequest(http.MethodGet, "/drafts/abc-123", nil)
	resp, _ := app.Test(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Counted under the route pattern, not the raw path.
	count := testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/drafts/:id", "200"))
	assert.Equal(t, float64(1), count)

	reqErr := httptest.NewRequest(http.MethodGet, "/error", nil)
	app.Test(reqErr)
	countErr := testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/error", "400"))
	assert.Equal(t, float64(1), countErr)
}

func TestPrometheusMiddleware_ExcludesMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(pm.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	app.Test(req)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" {
			assert.Empty(t, mf.GetMetric())
		}
	}
}
