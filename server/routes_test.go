package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesAPI(t *testing.T) {
	s := newTestServer(t, testAssets())
	handler := s.Routes()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantJSON   string
		wantXML    string
	}{
		{
			name:       "success",
			target:     "/success",
			wantStatus: http.StatusOK,
			wantJSON:   `{"message":"This is a successful response!"}`,
			wantXML:    "<response><message>This is a successful response!</message></response>",
		},
		{
			name:       "bad request with valid",
			target:     "/badRequest?valid=true",
			wantStatus: http.StatusOK,
			wantJSON:   `{"message":"This request has the required parameters"}`,
			wantXML:    "<response><message>This request has the required parameters</message></response>",
		},
		{
			name:       "bad request without query",
			target:     "/badRequest",
			wantStatus: http.StatusBadRequest,
			wantJSON:   `{"message":"Missing valid query parameter set to true","id":"badRequest"}`,
			wantXML:    "<response><message>Missing valid query parameter set to true</message><id>badRequest</id></response>",
		},
		{
			name:       "bad request with valid false",
			target:     "/badRequest?valid=false",
			wantStatus: http.StatusBadRequest,
			wantJSON:   `{"message":"Missing valid query parameter set to true","id":"badRequest"}`,
			wantXML:    "<response><message>Missing valid query parameter set to true</message><id>badRequest</id></response>",
		},
		{
			name:       "bad request with uppercase value",
			target:     "/badRequest?valid=TRUE",
			wantStatus: http.StatusBadRequest,
			wantJSON:   `{"message":"Missing valid query parameter set to true","id":"badRequest"}`,
			wantXML:    "<response><message>Missing valid query parameter set to true</message><id>badRequest</id></response>",
		},
		{
			name:       "bad request with repeated valid",
			target:     "/badRequest?valid=true&valid=true",
			wantStatus: http.StatusBadRequest,
			wantJSON:   `{"message":"Missing valid query parameter set to true","id":"badRequest"}`,
			wantXML:    "<response><message>Missing valid query parameter set to true</message><id>badRequest</id></response>",
		},
		{
			name:       "unauthorized logged in",
			target:     "/unauthorized?loggedIn=yes",
			wantStatus: http.StatusOK,
			wantJSON:   `{"message":"You have successfully viewed the content."}`,
			wantXML:    "<response><message>You have successfully viewed the content.</message></response>",
		},
		{
			name:       "unauthorized without query",
			target:     "/unauthorized",
			wantStatus: http.StatusUnauthorized,
			wantJSON:   `{"message":"Missing loggedIn query parameter set to yes","id":"unauthorized"}`,
			wantXML:    "<response><message>Missing loggedIn query parameter set to yes</message><id>unauthorized</id></response>",
		},
		{
			name:       "unauthorized with wrong key case",
			target:     "/unauthorized?loggedin=yes",
			wantStatus: http.StatusUnauthorized,
			wantJSON:   `{"message":"Missing loggedIn query parameter set to yes","id":"unauthorized"}`,
			wantXML:    "<response><message>Missing loggedIn query parameter set to yes</message><id>unauthorized</id></response>",
		},
		{
			name:       "forbidden ignores query",
			target:     "/forbidden?valid=true&loggedIn=yes",
			wantStatus: http.StatusForbidden,
			wantJSON:   `{"message":"You do not have access to this content.","id":"forbidden"}`,
			wantXML:    "<response><message>You do not have access to this content.</message><id>forbidden</id></response>",
		},
		{
			name:       "internal",
			target:     "/internal",
			wantStatus: http.StatusInternalServerError,
			wantJSON:   `{"message":"Internal server error. Something went wrong.","id":"internal"}`,
			wantXML:    "<response><message>Internal server error. Something went wrong.</message><id>internal</id></response>",
		},
		{
			name:       "not implemented",
			target:     "/notImplemented",
			wantStatus: http.StatusNotImplemented,
			wantJSON:   `{"message":"A GET request for this page has not been implemented yet.","id":"notImplemented"}`,
			wantXML:    "<response><message>A GET request for this page has not been implemented yet.</message><id>notImplemented</id></response>",
		},
		{
			name:       "unknown path",
			target:     "/doesNotExist",
			wantStatus: http.StatusNotFound,
			wantJSON:   `{"message":"The page you are looking for was not found.","id":"notFound"}`,
			wantXML:    "<response><message>The page you are looking for was not found.</message><id>notFound</id></response>",
		},
		{
			name:       "trailing slash",
			target:     "/success/",
			wantStatus: http.StatusNotFound,
			wantJSON:   `{"message":"The page you are looking for was not found.","id":"notFound"}`,
			wantXML:    "<response><message>The page you are looking for was not found.</message><id>notFound</id></response>",
		},
		{
			name:       "path is case sensitive",
			target:     "/Success",
			wantStatus: http.StatusNotFound,
			wantJSON:   `{"message":"The page you are looking for was not found.","id":"notFound"}`,
			wantXML:    "<response><message>The page you are looking for was not found.</message><id>notFound</id></response>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := doRequest(t, handler, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rs.Status)
			assert.Equal(t, "application/json", rs.ContentType)
			assert.JSONEq(t, tt.wantJSON, rs.Body)

			rs = doRequest(t, handler, http.MethodGet, tt.target, "application/json")
			assert.Equal(t, tt.wantStatus, rs.Status)
			assert.Equal(t, "application/json", rs.ContentType)
			assert.JSONEq(t, tt.wantJSON, rs.Body)

			rs = doRequest(t, handler, http.MethodGet, tt.target, "text/xml")
			assert.Equal(t, tt.wantStatus, rs.Status)
			assert.Equal(t, "application/xml", rs.ContentType)
			assert.Equal(t, tt.wantXML, rs.Body)
		})
	}
}

func TestRoutesIgnoreMethod(t *testing.T) {
	s := newTestServer(t, testAssets())
	handler := s.Routes()

	methods := []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		http.MethodOptions, http.MethodTrace, http.MethodConnect, "PURGE", "PROPFIND", "BREW",
	}
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			rs := doRequest(t, handler, method, "/notImplemented", "")
			assert.Equal(t, http.StatusNotImplemented, rs.Status)
			assert.JSONEq(t, `{"message":"A GET request for this page has not been implemented yet.","id":"notImplemented"}`, rs.Body)

			rs = doRequest(t, handler, method, "/badRequest?valid=true", "application/xml")
			assert.Equal(t, http.StatusOK, rs.Status)
			assert.Equal(t, "<response><message>This request has the required parameters</message></response>", rs.Body)

			rs = doRequest(t, handler, method, "/client.html", "")
			assert.Equal(t, http.StatusOK, rs.Status)
			assert.Equal(t, testHTML, rs.Body)

			rs = doRequest(t, handler, method, "/success", "")
			assert.Equal(t, http.StatusOK, rs.Status)
			assert.JSONEq(t, `{"message":"This is a successful response!"}`, rs.Body)

			rs = doRequest(t, handler, method, "/nowhere", "")
			assert.Equal(t, http.StatusNotFound, rs.Status)
			assert.JSONEq(t, `{"message":"The page you are looking for was not found.","id":"notFound"}`, rs.Body)
		})
	}
}

func TestRoutesStaticFiles(t *testing.T) {
	s := newTestServer(t, testAssets())
	handler := s.Routes()

	tests := []struct {
		target          string
		wantContentType string
		wantBody        string
	}{
		{"/", "text/html", testHTML},
		{"/client.html", "text/html", testHTML},
		{"/style.css", "text/css", testCSS},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			for _, accept := range []string{"", "text/xml"} {
				rs := doRequest(t, handler, http.MethodGet, tt.target, accept)
				assert.Equal(t, http.StatusOK, rs.Status)
				assert.Equal(t, tt.wantContentType, rs.ContentType)
				assert.Equal(t, tt.wantBody, rs.Body)
			}
		})
	}
}

func TestRoutesMissingStaticFileIsAlwaysJSON(t *testing.T) {
	s := newTestServer(t, http.FS(fstest.MapFS{}))
	handler := s.Routes()

	for _, target := range []string{"/", "/client.html", "/style.css"} {
		t.Run(target, func(t *testing.T) {
			for _, accept := range []string{"", "application/json", "text/xml"} {
				rs := doRequest(t, handler, http.MethodGet, target, accept)
				assert.Equal(t, http.StatusInternalServerError, rs.Status)
				assert.Equal(t, "application/json", rs.ContentType)
				assert.JSONEq(t, `{"message":"Internal Server Error","id":"internal"}`, rs.Body)
			}
		})
	}

	// api routes do not depend on the client files
	rs := doRequest(t, handler, http.MethodGet, "/success", "")
	assert.Equal(t, http.StatusOK, rs.Status)
}

func TestRoutesRateLimit(t *testing.T) {
	s := newTestServer(t, testAssets(), func(cfg *Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.Requests = 1
		cfg.RateLimit.Duration = time.Minute
	})
	handler := s.Routes()

	rs := doRequest(t, handler, http.MethodGet, "/success", "")
	require.Equal(t, http.StatusOK, rs.Status)

	rs = doRequest(t, handler, http.MethodGet, "/success", "text/xml")
	assert.Equal(t, http.StatusTooManyRequests, rs.Status)
	assert.Equal(t, "application/xml", rs.ContentType)
	assert.Equal(t, "<response><message>Too many requests, please try again later.</message><id>tooManyRequests</id></response>", rs.Body)
}

func TestRoutesRateLimitPerRoute(t *testing.T) {
	s := newTestServer(t, testAssets(), func(cfg *Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.Requests = 1
		cfg.RateLimit.Duration = time.Minute
	})
	handler := s.Routes()

	require.Equal(t, http.StatusOK, doRequest(t, handler, http.MethodGet, "/success", "").Status)
	assert.Equal(t, http.StatusForbidden, doRequest(t, handler, http.MethodGet, "/forbidden", "").Status)
	assert.Equal(t, http.StatusOK, doRequest(t, handler, http.MethodGet, "/badRequest?valid=true", "").Status)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, handler, http.MethodGet, "/badRequest", "").Status)

	// unknown paths share one budget
	assert.Equal(t, http.StatusNotFound, doRequest(t, handler, http.MethodGet, "/a", "").Status)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, handler, http.MethodGet, "/b", "").Status)
}

func TestRateLimitKey(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/", "192.0.2.1 /"},
		{"/client.html", "192.0.2.1 /client.html"},
		{"/style.css", "192.0.2.1 /style.css"},
		{"/badRequest?valid=true", "192.0.2.1 /badRequest"},
		{"/notImplemented", "192.0.2.1 /notImplemented"},
		{"/success/", "192.0.2.1 *"},
		{"/doesNotExist", "192.0.2.1 *"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rq := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.want, rateLimitKey(rq))
		})
	}
}

func TestRecoverer(t *testing.T) {
	s := newTestServer(t, testAssets())
	handler := s.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rq := httptest.NewRequest(http.MethodGet, "/success", nil)
	rq.Header.Set("Accept", "application/xml")
	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rr, rq)
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/xml", rr.Header().Get("Content-Type"))
	assert.Equal(t, "<response><message>Internal server error. Something went wrong.</message><id>internal</id></response>", rr.Body.String())
}

func TestQueryIs(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"/badRequest?valid=true", true},
		{"/badRequest?other=1&valid=true", true},
		{"/badRequest?valid=true&valid=false", false},
		{"/badRequest?valid=", false},
		{"/badRequest?valid", false},
		{"/badRequest?valid=true%20", false},
		{"/badRequest", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rq := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.want, queryIs(rq, "valid", "true"))
		})
	}
}

func TestEndpointsMatchRouter(t *testing.T) {
	s := newTestServer(t, testAssets())
	handler := s.Routes()

	for _, endpoint := range Endpoints {
		target := endpoint.Path
		if endpoint.Query != "" {
			target += "?" + endpoint.Query
		}
		t.Run(target, func(t *testing.T) {
			rs := doRequest(t, handler, http.MethodGet, target, "application/xml")
			assert.Equal(t, endpoint.Status, rs.Status)
			assert.Equal(t, string(MarshalXML(endpoint.Payload)), rs.Body)
		})
	}
}
