package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/meghashyamc/searchform/logger"
	"github.com/meghashyamc/searchform/validation"
	"github.com/meghashyamc/searchform/variants"
	"github.com/stretchr/testify/require"
)

type upstreamCall struct {
	method        string
	authorization string
	contentType   string
	body          map[string]any
}

type fakeUpstream struct {
	server *httptest.Server
	calls  atomic.Int32
	last   atomic.Pointer[upstreamCall]
}

func newFakeUpstream(t *testing.T, status int, body string) *fakeUpstream {
	upstream := &fakeUpstream{}
	upstream.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstream.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		call := &upstreamCall{
			method:        r.Method,
			authorization: r.Header.Get("Authorization"),
			contentType:   r.Header.Get("Content-Type"),
		}
		_ = json.Unmarshal(raw, &call.body)
		upstream.last.Store(call)

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(upstream.server.Close)
	return upstream
}

func newTestService(t *testing.T) *Service {
	testLogger := newTestLogger()
	validator, err := validation.New(testLogger)
	require.NoError(t, err, "could not create validator")
	return New(testLogger, validator, NewHTTPClient(0))
}

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func mustVariant(t *testing.T, name string) variants.Variant {
	v, err := variants.Get(name)
	require.NoError(t, err)
	return v
}

var validationTestCases = []struct {
	name            string
	variant         string
	submission      variants.Submission
	expectedMessage string
}{
	{
		name:            "MissingToken",
		variant:         "indiav1",
		submission:      variants.Submission{Query: "acme", UserID: "u-1"},
		expectedMessage: msgMissingCredentials,
	},
	{
		name:            "MissingUserID",
		variant:         "indiav1",
		submission:      variants.Submission{Query: "acme", Token: "t"},
		expectedMessage: msgMissingCredentials,
	},
	{
		name:            "MissingEndpoint",
		variant:         "indiav1-lite",
		submission:      variants.Submission{Query: "acme", Token: "t", UserID: "u-1", Endpoint: "   "},
		expectedMessage: msgMissingCredentials,
	},
	{
		name:            "EndpointNotAURL",
		variant:         "indiav1-lite",
		submission:      variants.Submission{Query: "acme", Token: "t", UserID: "u-1", Endpoint: "not a url"},
		expectedMessage: "invalid endpoint URL",
	},
	{
		name:            "EmptyQuery",
		variant:         "indiav1",
		submission:      variants.Submission{Token: "t", UserID: "u-1"},
		expectedMessage: validation.ErrInvalidQuery.Error(),
	},
	{
		name:            "BlankQuery",
		variant:         "company-registry",
		submission:      variants.Submission{Query: "  ", Token: "t"},
		expectedMessage: validation.ErrInvalidQuery.Error(),
	},
	{
		name:            "UnknownSearchType",
		variant:         "company-registry",
		submission:      variants.Submission{Query: "acme", Token: "t", SearchType: "gst"},
		expectedMessage: "invalid search type 'gst'",
	},
}

func TestSubmitValidationMakesNoCall(t *testing.T) {
	upstream := newFakeUpstream(t, http.StatusOK, `{}`)
	service := newTestService(t)

	for _, testCase := range validationTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			submission := testCase.submission
			if submission.Endpoint == "" {
				submission.Endpoint = upstream.server.URL
			}

			view, err := service.Submit(context.Background(), mustVariant(t, testCase.variant), submission)
			assert.Nil(view)
			assert.True(errors.Is(err, ErrValidation), "expected a validation error, got %v", err)
			assert.EqualError(err, testCase.expectedMessage)
		})
	}

	require.Equal(t, int32(0), upstream.calls.Load(), "no request should reach the upstream")
}

func TestSubmitSendsOneAuthenticatedPost(t *testing.T) {
	assert := require.New(t)
	upstream := newFakeUpstream(t, http.StatusOK, `{"execution_time": "5ms", "total_matches": 1, "matches": [{"table": "t1", "field": "name", "value": "Acme"}]}`)
	service := newTestService(t)

	view, err := service.Submit(context.Background(), mustVariant(t, "indiav1"), variants.Submission{
		Endpoint: upstream.server.URL,
		Query:    "acme",
		Token:    "jwt-123",
		UserID:   "u-1",
	})
	assert.NoError(err)
	assert.Equal(int32(1), upstream.calls.Load())

	call := upstream.last.Load()
	assert.Equal(http.MethodPost, call.method)
	assert.Equal("Bearer jwt-123", call.authorization)
	assert.Equal("application/json", call.contentType)
	assert.Equal(map[string]any{"query": "acme", "searchType": "partial", "userId": "u-1"}, call.body, "search type defaults to the first option")

	assert.Equal("API call successful in 5ms.", view.Notice)
	assert.Len(view.Sections, 1)
}

func TestSubmitCompanyRegistryWithoutUserID(t *testing.T) {
	assert := require.New(t)
	upstream := newFakeUpstream(t, http.StatusOK, `{"success": true, "results": [], "total_results": 0}`)
	service := newTestService(t)

	view, err := service.Submit(context.Background(), mustVariant(t, "company-registry"), variants.Submission{
		Endpoint:   upstream.server.URL,
		Query:      "acme",
		SearchType: "cin",
		Token:      "api-token",
	})
	assert.NoError(err)
	assert.Equal("No results found.", view.Empty)
	assert.Equal(map[string]any{"search_term": "acme", "search_type": "cin"}, upstream.last.Load().body)
}

func TestSubmitDropsSearchTypeForVariantsWithoutSelector(t *testing.T) {
	assert := require.New(t)
	upstream := newFakeUpstream(t, http.StatusOK, `{"totalMatches": 5, "results": [{"table":"t1","matches":[{"name":"Acme"}]}]}`)
	service := newTestService(t)

	view, err := service.Submit(context.Background(), mustVariant(t, "indiav1-lite"), variants.Submission{
		Endpoint:   upstream.server.URL,
		Query:      "acme",
		SearchType: "exact",
		Token:      "t",
		UserID:     "u-1",
	})
	assert.NoError(err)
	assert.Equal(map[string]any{"query": "acme", "userId": "u-1"}, upstream.last.Load().body)

	total, _ := view.SummaryValue("Total Matches")
	assert.Equal("5", total)
	assert.Equal("t1", view.Sections[0].Title)
	assert.Equal([][]string{{"Acme"}}, view.Sections[0].Table.Rows)
}

func TestSubmitErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusMultipleChoices, http.StatusUnauthorized, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			assert := require.New(t)
			upstream := newFakeUpstream(t, status, `{"error":"token expired"}`)
			service := newTestService(t)

			_, err := service.Submit(context.Background(), mustVariant(t, "indiav1"), variants.Submission{
				Endpoint: upstream.server.URL, Query: "acme", Token: "t", UserID: "u",
			})

			var statusErr *StatusError
			assert.True(errors.As(err, &statusErr))
			assert.True(errors.Is(err, ErrStatus))
			assert.Equal(status, statusErr.StatusCode)
			assert.Contains(err.Error(), strconv.Itoa(status))
			assert.Contains(err.Error(), `{"error":"token expired"}`)
		})
	}
}

func TestSubmitMalformedJSON(t *testing.T) {
	assert := require.New(t)
	upstream := newFakeUpstream(t, http.StatusOK, `<html>not json</html>`)
	service := newTestService(t)

	_, err := service.Submit(context.Background(), mustVariant(t, "indiav1-tables"), variants.Submission{
		Endpoint: upstream.server.URL, Query: "acme", Token: "t", UserID: "u",
	})
	assert.True(errors.Is(err, ErrTransport))
	assert.True(errors.Is(err, variants.ErrInvalidJSON))
	assert.Contains(err.Error(), "error contacting API")
}

func TestSubmitConnectionError(t *testing.T) {
	assert := require.New(t)
	upstream := newFakeUpstream(t, http.StatusOK, `{}`)
	closedURL := upstream.server.URL
	upstream.server.Close()
	service := newTestService(t)

	submission := variants.Submission{Endpoint: closedURL, Query: "acme", Token: "t", UserID: "u"}
	_, err := service.Submit(context.Background(), mustVariant(t, "indiav1"), submission)

	var transportErr *TransportError
	assert.True(errors.As(err, &transportErr))
	assert.Equal("post", transportErr.Op)
	assert.Contains(err.Error(), "error contacting API: ")
	assert.Contains(err.Error(), transportErr.Err.Error(), "the underlying error text is shown")

	// the service holds no state between submissions
	working := newFakeUpstream(t, http.StatusOK, `{"total_matches": 0, "matches": []}`)
	submission.Endpoint = working.server.URL
	view, err := service.Submit(context.Background(), mustVariant(t, "indiav1"), submission)
	assert.NoError(err)
	assert.Equal("No enforcement matches found.", view.Empty)
}

func TestSubmitCancelledContext(t *testing.T) {
	assert := require.New(t)
	upstream := newFakeUpstream(t, http.StatusOK, `{}`)
	service := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Submit(ctx, mustVariant(t, "indiav1"), variants.Submission{
		Endpoint: upstream.server.URL, Query: "acme", Token: "t", UserID: "u",
	})
	assert.True(errors.Is(err, ErrTransport))
	assert.True(errors.Is(err, context.Canceled))
}
