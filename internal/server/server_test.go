package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackielii/viewroutes/internal/config"
	"github.com/jackielii/viewroutes/internal/countries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct{}

var france = countries.Country{Name: "France", Code: "FR", Capital: "Paris"}

func (stubSource) All(ctx context.Context) ([]countries.Country, error) {
	return []countries.Country{france}, nil
}

func (stubSource) ByCode(ctx context.Context, code string) (*countries.Country, error) {
	if code == france.Code {
		c := france
		return &c, nil
	}
	return nil, countries.ErrNotFound
}

func (stubSource) Search(ctx context.Context, name string) ([]countries.Country, error) {
	return countries.Filter([]countries.Country{france}, name), nil
}

func newTestServer(t *testing.T, basePath string) *Server {
	t.Helper()
	t.Setenv(config.EnvBaseURL, basePath)
	cfg := &config.Config{}
	require.NoError(t, cfg.Finalize())
	svc := countries.NewService(stubSource{}, time.Hour, discardLogger())
	s, err := New(cfg, svc, discardLogger())
	require.NoError(t, err)
	return s
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, "/explore/")

	tests := []struct {
		target     string
		wantStatus int
	}{
		{"/healthz", http.StatusOK},
		{"/api/countries/FR", http.StatusOK},
		{"/api/countries/search?name=fra", http.StatusOK},
		{"/explore/", http.StatusOK},
		{"/explore", http.StatusMovedPermanently},
		{"/explore/countries/france-FR", http.StatusOK},
		{"/explore/countries/", http.StatusNotFound},
		{"/explore/nonexistent", http.StatusNotFound},
		{"/elsewhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, "")

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/countries/france-FR", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
}

func TestServer_TableUsesBasePath(t *testing.T) {
	s := newTestServer(t, "explore")

	assert.Equal(t, "/explore", s.Table().BasePath())
	u, err := s.Table().URLFor("country", "france", "FR")
	require.NoError(t, err)
	assert.Equal(t, "/explore/countries/france-FR", u)
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, "")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
