package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/guttosm/hffactors/internal/metrics"
)

func TestToString(t *testing.T) {
	if s := toString(nil); s != "" {
		t.Fatalf("nil -> %q, want empty", s)
	}
	if s := toString("abc"); s != "abc" {
		t.Fatalf("string -> %q, want 'abc'", s)
	}
	if s := toString(123); s != "" {
		t.Fatalf("non-string -> %q, want empty", s)
	}
}

func TestRequestLogger_RouteLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/api/v1/factors/:id/series", func(c *gin.Context) {
		if c.Query("ticker") == "" {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		target string
		route  string
		status string
	}{
		{name: "path params collapse to template", target: "/api/v1/factors/A17/series?ticker=000001&date=20230301", route: "/api/v1/factors/:id/series", status: "200"},
		{name: "status is labelled", target: "/api/v1/factors/A3/series", route: "/api/v1/factors/:id/series", status: "400"},
		{name: "unknown path", target: "/api/v1/nope/42", route: "unmatched", status: "404"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, tc.route, tc.status)
			before := testutil.ToFloat64(counter)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.target, nil))

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Fatalf("%s %s counter = %v, want %v", tc.route, tc.status, got, before+1)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Fatalf("missing X-Request-ID header")
			}
		})
	}
}

func TestRequestLogger_RawPathNotALabel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/api/v1/factors/:id/series", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/factors/A29/series", nil))

	if n := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/factors/A29/series", "200")); n != 0 {
		t.Fatalf("raw path leaked into labels: %v", n)
	}
}
