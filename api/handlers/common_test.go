// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchform/logger"
	"github.com/meghashyamc/searchform/secrets"
	"github.com/meghashyamc/searchform/services/search"
	"github.com/meghashyamc/searchform/ui"
	"github.com/meghashyamc/searchform/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

var formTestRequestHeaders = map[string]string{"Content-Type": "application/x-www-form-urlencoded"}

var testSecrets = mapStore{
	"indiav1_jwt_token":          "jwt-indiav1",
	"indiav1_user_id":            "user-indiav1",
	"indiav1_lite_jwt_token":     "jwt-lite",
	"indiav1_lite_user_id":       "user-lite",
	"company_registry_jwt_token": "registry-token",
}

type testCase struct {
	name             string
	variant          string
	upstreamStatus   int
	upstreamBody     string
	requestHeaders   map[string]string
	requestBody      map[string]any
	expectedStatus   int
	expectedResponse map[string]any
	expectedContains []string
}

type mapStore map[string]string

func (m mapStore) Get(key string) (string, error) {
	if value, ok := m[key]; ok {
		return value, nil
	}
	return "", &secrets.NotFoundError{Key: key}
}

type staticEndpoints map[string]string

func (s staticEndpoints) GetVariantEndpoint(variant string) string {
	return s[variant]
}

type testUpstream struct {
	server        *httptest.Server
	calls         atomic.Int32
	authorization atomic.Value
	body          atomic.Value
}

// newTestUpstream answers every request with status and body. A zero status answers 200.
func newTestUpstream(t *testing.T, status int, body string) *testUpstream {
	if status == 0 {
		status = http.StatusOK
	}
	upstream := &testUpstream{}
	upstream.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstream.calls.Add(1)
		upstream.authorization.Store(r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		upstream.body.Store(string(raw))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(upstream.server.Close)
	return upstream
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

// setupTestServer routes every variant to upstreamURL.
func setupTestServer(t *testing.T, assert *require.Assertions, upstreamURL string, store secrets.Store) *gin.Engine {
	testLogger := newTestLogger()

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")
	service := search.New(testLogger, validator, search.NewHTTPClient(0))

	templates, err := ui.Templates()
	assert.NoError(err, "could not parse templates")

	endpoints := staticEndpoints{
		"indiav1":          upstreamURL,
		"indiav1-lite":     upstreamURL,
		"indiav1-tables":   upstreamURL,
		"company-registry": upstreamURL,
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupSearch(router, testLogger, service, store, endpoints)
	SetupForms(router, templates, testLogger, service, store, endpoints)

	return router
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	var body []byte
	var req *http.Request
	if requestBodyMap != nil {
		if headers["Content-Type"] == formTestRequestHeaders["Content-Type"] {
			form := url.Values{}
			for key, value := range requestBodyMap {
				form.Set(key, value.(string))
			}
			body = []byte(form.Encode())
		} else {
			body, err = json.Marshal(requestBodyMap)
			assert.NoError(err)
		}
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(body))

	if len(body) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(body))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

func assertContainsAll(assert *require.Assertions, body string, expected []string) {
	for _, fragment := range expected {
		assert.True(strings.Contains(body, fragment), "expected %q in response:\n%s", fragment, body)
	}
}
