package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/topi314/statusdemo/internal/ver"
)

const (
	testHTML = "<!DOCTYPE html><html><body>client</body></html>"
	testCSS  = "body { margin: 0; }"
)

func testAssets() http.FileSystem {
	return http.FS(fstest.MapFS{
		FileClientHTML: {Data: []byte(testHTML)},
		FileStyleCSS:   {Data: []byte(testCSS)},
	})
}

func newTestServer(t *testing.T, assets http.FileSystem, opts ...func(cfg *Config)) *Server {
	t.Helper()

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := NewServer(ver.Version{Version: "test"}, cfg, assets)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

type testResponse struct {
	Status      int
	ContentType string
	Body        string
}

func doRequest(t *testing.T, handler http.Handler, method string, target string, accept string) testResponse {
	t.Helper()

	rq := httptest.NewRequest(method, target, nil)
	if accept != "" {
		rq.Header.Set("Accept", accept)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, rq)

	body, err := io.ReadAll(rr.Result().Body)
	require.NoError(t, err)

	return testResponse{
		Status:      rr.Code,
		ContentType: rr.Header().Get("Content-Type"),
		Body:        string(body),
	}
}
