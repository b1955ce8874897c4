package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Resolution("session")
	m.Resolution("session")
	m.Completion("mindful-week")
	m.Enrollment("mindful-week", true)
	m.Generation("daily_tip", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutions.WithLabelValues("session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completions.WithLabelValues("mindful-week")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.enrollments.WithLabelValues("mindful-week", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("daily_tip", "fallback")))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/42", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/ping/:id", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "zenmindful_http_requests_total")
}
