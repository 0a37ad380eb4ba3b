package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(origins []string, origin, method string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAllowedOriginGetsCredentials(t *testing.T) {
	w := performRequest([]string{"https://admin.roadfy.com"}, "https://admin.roadfy.com", http.MethodGet)
	assert.Equal(t, "https://admin.roadfy.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestWildcardOriginNeverPairsCredentials(t *testing.T) {
	w := performRequest(nil, "", http.MethodGet)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestUnlistedOriginGetsNoAllowHeader(t *testing.T) {
	w := performRequest([]string{"https://admin.roadfy.com"}, "https://evil.example", http.MethodGet)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestExposesDownloadHeaders(t *testing.T) {
	w := performRequest(nil, "https://admin.roadfy.com", http.MethodGet)
	exposed := w.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Content-Disposition")
	assert.Contains(t, exposed, "X-Request-ID")
}

func TestPreflightShortCircuits(t *testing.T) {
	w := performRequest(nil, "https://admin.roadfy.com", http.MethodOptions)
	require.Equal(t, http.StatusNoContent, w.Code)
}
