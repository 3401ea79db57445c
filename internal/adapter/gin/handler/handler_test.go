package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"grocery-delivery-service/internal/adapter/gin/middleware"
	"grocery-delivery-service/pkg/token"
)

var testTokens = token.NewManager("handler-test-secret-0123456789", time.Hour, "test")

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// authed returns a group that requires a session, like the real /api routes.
func authed(r *gin.Engine) *gin.RouterGroup {
	return r.Group("", middleware.Authenticate(testTokens, "token"))
}

func bearer(t *testing.T, id int64, role string) string {
	t.Helper()
	tok, _, err := testTokens.Issue(id, role)
	require.NoError(t, err)
	return tok
}

// serve performs a request. body may be nil, a string or any JSON value.
func serve(r *gin.Engine, method, path string, body any, tok string) *httptest.ResponseRecorder {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		rd = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
