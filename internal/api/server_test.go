package api

import (
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulateapp/circulate-server/internal/config"
	"github.com/circulateapp/circulate-server/internal/logger"
	"github.com/circulateapp/circulate-server/internal/service"
	"github.com/circulateapp/circulate-server/internal/store/sqlite"
)

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a server backed by a temp-file database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	log := logger.New(logger.Config{Writer: io.Discard, Format: "json"})

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:        "8080",
			CORSOrigins: []string{"*"},
		},
		Overdue: config.OverdueConfig{ThresholdDays: 3},
	}

	services := &Services{
		Book: service.NewBookService(st, log),
		Loan: service.NewLoanService(st, log, cfg.Overdue.ThresholdDays),
	}

	s := NewServer(cfg, services, log)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "healthy")
}
