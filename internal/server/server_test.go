package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSkipAuthPaths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want bool
	}{
		{path: "/ping", want: true},
		{path: "/health", want: true},
		{path: "/status", want: true},
		{path: "/ai-webhook", want: false},
		{path: "/test-tools", want: false},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if got := skipAuth(c); got != tc.want {
			t.Fatalf("path=%q want=%v got=%v", tc.path, tc.want, got)
		}
	}
}

type routeHandler struct{}

func (routeHandler) Register(e *echo.Echo) {
	e.POST("/ai-webhook", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

func TestServerEnforcesToken(t *testing.T) {
	t.Parallel()

	srv := New(slog.Default(), ":0", "hunter2", []Handler{routeHandler{}})

	req := httptest.NewRequest(http.MethodPost, "/ai-webhook", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		t.Fatal("request without token must be rejected")
	}

	req = httptest.NewRequest(http.MethodPost, "/ai-webhook", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer hunter2")
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authorized request rejected: %d", rec.Code)
	}
}
