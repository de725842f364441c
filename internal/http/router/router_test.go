package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "phonenorm_backend/internal/http"
	"phonenorm_backend/internal/phones"
	"phonenorm_backend/platform/config"
	"phonenorm_backend/platform/logger"
	"phonenorm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestApp(t *testing.T, burst int) *apphttp.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CORSOrigins:        []string{"http://localhost:4200"},
		RateLimitRPS:       0.001,
		RateLimitBurst:     burst,
		PhoneNoiseTolerant: true,
		PhoneMaxBatch:      100,
		PhoneDefaultColumn: "phone",
	}
	log := logger.NewWithWriter("production", io.Discard)
	normalizer, err := phones.NewNormalizer(cfg, log)
	if err != nil {
		t.Fatalf("normalizer: %v", err)
	}

	return &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Modules: []apphttp.Module{phones.NewModule(normalizer, validator.New(), cfg, log)},
	}
}

func TestHealth(t *testing.T) {
	engine := New(newTestApp(t, 10))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestNormalizeRouteIsRateLimited(t *testing.T) {
	engine := New(newTestApp(t, 1))

	send := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/phones/normalize", strings.NewReader(`{"inputs":["+84912345678"]}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", first.Code, first.Body.String())
	}
	var body struct {
		Items []struct {
			Normalized string `json:"normalized"`
		} `json:"items"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].Normalized != "0912345678" {
		t.Fatalf("unexpected items %+v", body.Items)
	}

	if second := send(); second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}

	tables := httptest.NewRecorder()
	engine.ServeHTTP(tables, httptest.NewRequest(http.MethodGet, "/api/v1/phones/tables", nil))
	if tables.Code != http.StatusOK {
		t.Fatalf("expected tables route outside the limiter, got %d", tables.Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	engine := New(newTestApp(t, 10))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/phones/normalize", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	engine.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:4200" {
		t.Fatalf("expected allowed origin header, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
