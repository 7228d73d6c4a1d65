package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/limiter"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) app.Res {
	t.Helper()
	var res app.Res
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLangWithTranslator(t *testing.T) {
	r := gin.New()
	r.Use(LangWithTranslator(nil))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetLang(c)) })

	tests := []struct {
		name   string
		url    string
		header map[string]string
		want   string
	}{
		{"query", "/?lang=de", nil, "de"},
		{"header", "/", map[string]string{"lang": "de-DE"}, "de"},
		{"accept language", "/", map[string]string{"Accept-Language": "de-CH,de;q=0.9,en;q=0.8"}, "de"},
		{"unsupported falls back", "/?lang=fr", nil, code.FALLBACK_LNG},
		{"none", "/", nil, code.FALLBACK_LNG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, serve(r, req).Body.String())
		})
	}
}

func TestUserAuthToken(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "test", Expiry: time.Hour})
	token, err := tm.Generate(7, "anna", "")
	require.NoError(t, err)

	r := gin.New()
	r.Use(UserAuthToken(tm))
	r.GET("/", func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.Success.WithData(app.GetUID(c)))
	})

	res := decode(t, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, code.ErrorNotUserAuthToken.Code(), res.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	res = decode(t, serve(r, req))
	assert.Equal(t, code.ErrorInvalidUserAuthToken.Code(), res.Code)

	for _, set := range []func(*http.Request){
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
		func(r *http.Request) { r.Header.Set("Token", token) },
		func(r *http.Request) { r.URL.RawQuery = "token=" + token },
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		set(req)
		res := decode(t, serve(r, req))
		assert.True(t, res.Status)
		assert.EqualValues(t, 7, res.Data)
	}
}

func TestRecoveryWithLogger_ReportsPanic(t *testing.T) {
	var reports []PanicReport
	r := gin.New()
	r.Use(TraceMiddleware(""), RecoveryWithLogger(zap.NewNop(), func(p PanicReport) {
		reports = append(reports, p)
	}))
	r.GET("/boom", func(c *gin.Context) { panic("kaputt") })

	req := httptest.NewRequest(http.MethodGet, "/boom?x=1", nil)
	req.Header.Set(DefaultTraceIDHeader, "trace-1")
	res := decode(t, serve(r, req))

	assert.Equal(t, code.ErrorServerInternal.Code(), res.Code)
	assert.Equal(t, "trace-1", res.Details)
	require.Len(t, reports, 1)
	assert.Equal(t, "kaputt", reports[0].Value)
	assert.Equal(t, "trace-1", reports[0].TraceID)
	assert.Contains(t, reports[0].Text(), "GET /boom?x=1")
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware("X-Request-ID"))
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, GetTraceIDFromGin(c), GetTraceID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36, "generated ids are uuids")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	assert.Equal(t, "abc", serve(r, req).Header().Get("X-Request-ID"))
}

func TestTracing_StartsSpan(t *testing.T) {
	tracer := mocktracer.New()
	r := gin.New()
	r.Use(TraceMiddleware(""), Tracing(tracer))
	r.GET("/api/contracts", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
	req.Header.Set(DefaultTraceIDHeader, "t-42")
	serve(r, req)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/contracts", spans[0].OperationName)
	assert.Equal(t, "t-42", spans[0].Tag(TraceIDKey))
	assert.EqualValues(t, http.StatusOK, spans[0].Tag("http.status_code"))
}

func TestCors(t *testing.T) {
	r := gin.New()
	r.Use(Cors([]string{"https://office.example.org"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://office.example.org")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://office.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key: "/api/user/login", FillInterval: time.Hour, Capacity: 1, Quantum: 1,
	})
	r := gin.New()
	r.Use(RateLimiter(l))
	r.POST("/api/user/login", func(c *gin.Context) { app.NewResponse(c).ToResponse(code.Success) })
	r.GET("/api/contracts", func(c *gin.Context) { app.NewResponse(c).ToResponse(code.Success) })

	assert.True(t, decode(t, serve(r, httptest.NewRequest(http.MethodPost, "/api/user/login", nil))).Status)
	res := decode(t, serve(r, httptest.NewRequest(http.MethodPost, "/api/user/login", nil)))
	assert.Equal(t, code.ErrorTooManyRequests.Code(), res.Code)

	for i := 0; i < 3; i++ {
		assert.True(t, decode(t, serve(r, httptest.NewRequest(http.MethodGet, "/api/contracts", nil))).Status)
	}
}

func TestNoFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoFound())
	res := decode(t, serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil)))
	assert.Equal(t, code.ErrorNotFoundAPI.Code(), res.Code)
	assert.True(t, strings.HasSuffix(res.Details.(string), "/nope"))
}
