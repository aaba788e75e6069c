package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apphttp "score_portal_backend/internal/http"
	"score_portal_backend/platform/httpkit"
	"score_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testConfig struct{}

func (testConfig) GetHTTPAddr() string        { return ":0" }
func (testConfig) GetCORSAllowAll() bool      { return false }
func (testConfig) GetCORSOrigins() []string   { return []string{"http://localhost:4200"} }
func (testConfig) GetCORSAllowCreds() bool    { return true }
func (testConfig) GetRateLimitRPS() float64   { return 100 }
func (testConfig) GetRateLimitBurst() int     { return 100 }
func (testConfig) GetJWTAccessSecret() string { return "secret" }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/echo", func(c *gin.Context) { httpkit.OK(c, "echo") })
	ctx.V1.GET("/public", func(c *gin.Context) { httpkit.OK(c, "public") })
	ctx.Admin.POST("/echo", func(c *gin.Context) { httpkit.OK(c, "admin") })
}

func bearer(t *testing.T, roles ...string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uuid.NewString(),
		"type":  "access",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testConfig{}.GetJWTAccessSecret()))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func newEngine(health apphttp.HealthChecker) *gin.Engine {
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.Discard(),
		Health:  health,
		Modules: []apphttp.Module{echoModule{}},
	})
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		health apphttp.HealthChecker
		want   int
	}{
		{"healthy", pinger{}, http.StatusOK},
		{"database down", pinger{err: errors.New("refused")}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newEngine(tc.health).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestModuleRoutesAndAuth(t *testing.T) {
	engine := newEngine(pinger{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected protected route to require auth, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected public route to pass, got %d", w.Code)
	}
	if w.Header().Get(httpkit.HeaderRequestID) == "" {
		t.Fatal("expected request id header")
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	engine := newEngine(pinger{})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"no admin role", bearer(t, "agent"), http.StatusForbidden},
		{"admin", bearer(t, "agent", httpkit.RoleAdmin), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/echo", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}
