package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wechat-relay/cmd/relay/trace"
)

func newEngine(mw ...gin.HandlerFunc) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	hits := 0
	r := gin.New()
	r.Use(mw...)
	r.POST("/sync", func(c *gin.Context) {
		hits++
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, "%s|%s", trace.RequestIDFromContext(c.Request.Context()), string(body))
	})
	return r, &hits
}

func TestSecretAuthMiddleware(t *testing.T) {
	r, hits := newEngine(SecretAuthMiddleware("s3cr3t"))

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	assert.Zero(t, *hits)

	req = httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("Authorization", "Bearer s3cr3t")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *hits)
}

func TestRequestTraceKeepsBodyAndID(t *testing.T) {
	r, _ := newEngine(RequestTrace())

	req := httptest.NewRequest(http.MethodPost, "/sync", bytes.NewBufferString(`{"app_secret":"x"}`))
	req.Header.Set("X-Request-Id", "req-7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `req-7|{"app_secret":"x"}`, rec.Body.String())
	assert.Equal(t, "req-7", rec.Header().Get(headerRequestID))
	assert.Equal(t, "0", rec.Header().Get(headerSpanID))
}

func TestRequestTraceGeneratesID(t *testing.T) {
	r, _ := newEngine(RequestTrace())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

	assert.Len(t, rec.Header().Get(headerRequestID), 32)
}

func TestMaskBody(t *testing.T) {
	masked := maskBody([]byte(`{"app_id":"wx","app_secret":"very-secret","issue_title":"t"}`))
	assert.NotContains(t, masked, "very-secret")
	assert.Contains(t, masked, `"app_secret":"***"`)
	assert.Contains(t, masked, `"app_id":"wx"`)

	assert.Equal(t, "plain text", maskBody([]byte("plain text")))
	assert.Equal(t, "", maskBody(nil))
	assert.Len(t, maskBody(bytes.Repeat([]byte("a"), 4096)), maxBodyLog)
}

func TestCORS(t *testing.T) {
	r, hits := newEngine(CORS([]string{"https://github.com"}))

	req := httptest.NewRequest(http.MethodOptions, "/sync", nil)
	req.Header.Set("Origin", "https://github.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://github.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Zero(t, *hits)

	req = httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
