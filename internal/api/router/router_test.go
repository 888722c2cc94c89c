package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"padron-agremiados/config"
	"padron-agremiados/internal/api/handler"
	"padron-agremiados/internal/api/middleware"
	"padron-agremiados/internal/repository"
	"padron-agremiados/internal/service"
	"padron-agremiados/pkg/metrics"
	"padron-agremiados/pkg/redis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BodyLimit: 1 << 10,
			CORS:      config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		},
		RateLimit: config.RateLimitConfig{Requests: 100, Window: time.Minute},
	}
}

// setupEngine builds the full API over a seeded in-memory store.
func setupEngine(t *testing.T, cfg *config.Config, limiter middleware.RateLimiter) *gin.Engine {
	t.Helper()
	repo := repository.NewMemoryRepository()
	_, err := repository.SeedIfEmpty(t.Context(), repo.Agremiado, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	logger := zap.NewNop()
	m := metrics.New()
	svc := service.NewService(repo, logger, m)
	return Setup(cfg, Deps{
		Handler: handler.NewHandler(svc, repo),
		Limiter: limiter,
		Metrics: m,
		Logger:  logger,
	})
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type pageBody struct {
	Data []struct {
		ID  int64  `json:"id"`
		Cop string `json:"cop"`
	} `json:"data"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) pageBody {
	t.Helper()
	var p pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p), w.Body.String())
	return p
}

func TestRouter_MemberLifecycle(t *testing.T) {
	r := setupEngine(t, testConfig(), nil)

	// list
	w := call(r, http.MethodGet, "/api/agremiados?limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decodePage(t, w)
	assert.Equal(t, int64(8), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "0567", page.Data[0].Cop)

	// create
	w = call(r, http.MethodPost, "/api/agremiados",
		`{"cop":"0999","nombres":"carmen","apellidos":"quispe ñahui","colegio":"VI_CUSCO"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID         int64  `json:"id"`
			Nombres    string `json:"nombres"`
			Estado     string `json:"estado"`
			Habilitado string `json:"habilitado"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "CARMEN", created.Data.Nombres)
	assert.Equal(t, "ACTIVO", created.Data.Estado)
	assert.Equal(t, "ACTIVO", created.Data.Habilitado)
	id := created.Data.ID

	// newest first, and reachable by folded search
	page = decodePage(t, call(r, http.MethodGet, "/api/agremiados?limit=1", ""))
	assert.Equal(t, "0999", page.Data[0].Cop)
	page = decodePage(t, call(r, http.MethodGet, "/api/agremiados/search?q=nahui", ""))
	require.Len(t, page.Data, 1)
	assert.Equal(t, id, page.Data[0].ID)

	// duplicate
	w = call(r, http.MethodPost, "/api/agremiados",
		`{"cop":"0999","nombres":"OTRA","apellidos":"PERSONA","colegio":"I_LIMA"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// update
	path := "/api/agremiados/" + jsonID(id)
	w = call(r, http.MethodPut, path, `{"habilitado":"INACTIVO"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"habilitado":"INACTIVO"`)

	w = call(r, http.MethodPut, path, `{"cop":"1000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "El número COP no puede modificarse")

	// delete
	assert.Equal(t, http.StatusNoContent, call(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, path, "").Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestRouter_SearchSemantics(t *testing.T) {
	r := setupEngine(t, testConfig(), nil)

	tests := []struct {
		q    string
		want []string
	}{
		{"perez", []string{"0123"}},
		{"III%20LIMA%20CALLAO", []string{"0061", "0047", "0015"}},
		{"lima", []string{"0123", "0061", "0047", "0015"}},
		{"i%20lima", []string{"0123"}},
		{"%25", nil},
		{"", []string{"0567", "0456", "0345", "0234", "0123", "0061", "0047", "0015"}},
	}
	for _, tt := range tests {
		page := decodePage(t, call(r, http.MethodGet, "/api/agremiados/search?q="+tt.q, ""))
		got := make([]string, 0, len(page.Data))
		for _, d := range page.Data {
			got = append(got, d.Cop)
		}
		if tt.want == nil {
			assert.Empty(t, got, tt.q)
			continue
		}
		assert.Equal(t, tt.want, got, tt.q)
	}
}

func TestRouter_Operational(t *testing.T) {
	r := setupEngine(t, testConfig(), nil)

	w := call(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	call(r, http.MethodGet, "/api/agremiados/1", "")
	w = call(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `padron_http_requests_total{method="GET",route="/api/agremiados/:id",status="200"} 1`)
}

func TestRouter_RejectsOutOfRangeInput(t *testing.T) {
	r := setupEngine(t, testConfig(), nil)

	for _, path := range []string{
		"/api/agremiados?page=9223372036854775807",
		"/api/agremiados/search?q=a&page=9223372036854775807",
	} {
		w := call(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), `"field":"page"`, path)
		assert.Contains(t, w.Body.String(), "La página solicitada está fuera de rango", path)
	}

	w := call(r, http.MethodPost, "/api/agremiados",
		`{"cop":"`+strings.Repeat("9", 40)+`","nombres":"ANA","apellidos":"RUIZ","colegio":"I_LIMA"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "El COP no puede exceder 32 dígitos")
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/agremiados/9", "").Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	r := setupEngine(t, testConfig(), nil)

	big := `{"cop":"1","nombres":"` + strings.Repeat("A", 2048) + `","apellidos":"B","colegio":"I_LIMA"}`
	w := call(r, http.MethodPost, "/api/agremiados", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func callFrom(r http.Handler, method, path, body, remote, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remote
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newRedisLimiter(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redis.NewFromCmdable(rdb, zap.NewNop())
}

func TestRouter_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 2
	r := setupEngine(t, cfg, newRedisLimiter(t))

	for i, ip := range []string{"198.51.100.1", "198.51.100.2"} {
		w := callFrom(r, http.MethodPut, "/api/agremiados/1", `{"nombres":"X"}`, "192.0.2.10:1234", ip)
		require.Equal(t, http.StatusBadRequest, w.Code, "request %d", i)
	}
	w := callFrom(r, http.MethodPut, "/api/agremiados/1", `{"nombres":"X"}`, "192.0.2.10:1234", "198.51.100.3")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_RateLimitPerUserBehindTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 2
	cfg.Server.TrustedProxies = []string{"127.0.0.1"}
	r := setupEngine(t, cfg, newRedisLimiter(t))

	for _, user := range []string{"198.51.100.1", "198.51.100.2"} {
		for i := 0; i < 2; i++ {
			w := callFrom(r, http.MethodPut, "/api/agremiados/1", `{"nombres":"X"}`, "127.0.0.1:40000", user)
			require.Equal(t, http.StatusBadRequest, w.Code, "%s request %d", user, i)
		}
	}
	w := callFrom(r, http.MethodPut, "/api/agremiados/1", `{"nombres":"X"}`, "127.0.0.1:40000", "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_RateLimitWithRedis(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 2
	r := setupEngine(t, cfg, newRedisLimiter(t))

	body := `{"nombres":"X"}`
	for i := 0; i < 2; i++ {
		w := call(r, http.MethodPut, "/api/agremiados/1", body)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	}
	w := call(r, http.MethodPut, "/api/agremiados/1", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// reads are not limited
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/agremiados/1", "").Code)
}
