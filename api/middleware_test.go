package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogInternalServerErrors_RecoversPanics(t *testing.T) {
	handler := middleware.RequestID(logInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := middleware.RequestID(requestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ana/baglist/nope", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, float64(len("missing")), line["bytes"])
	assert.Equal(t, "/ana/baglist/nope", line["path"])
	assert.NotEmpty(t, line["request_id"])
}

func TestCORS(t *testing.T) {
	handler := CORSCheckMiddleware([]string{"https://baglist.test"})(
		corsMiddleware([]string{"https://baglist.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/baglists", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	allowed := preflight("https://baglist.test")
	assert.Less(t, allowed.Code, 300)
	assert.Equal(t, "https://baglist.test", allowed.Header().Get("Access-Control-Allow-Origin"))

	blocked := preflight("https://evil.test")
	assert.Equal(t, http.StatusForbidden, blocked.Code)
}
