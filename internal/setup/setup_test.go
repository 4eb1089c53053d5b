package setup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kcdcommunity/kcdbot/internal/bot/metrics"
	"github.com/kcdcommunity/kcdbot/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugMux(t *testing.T) {
	metrics.MembersWelcomed.Add(0)
	mux := newDebugMux()

	tests := []struct {
		path     string
		wantCode int
		contains string
	}{
		{path: "/metrics", wantCode: http.StatusOK, contains: "kcdbot_members_welcomed_total"},
		{path: "/debug/pprof/", wantCode: http.StatusOK, contains: "goroutine"},
		{path: "/unknown", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestInitTracingWithoutEndpoint(t *testing.T) {
	shutdown, err := initTracing(context.Background(), &config.Telemetry{ServiceName: "kcdbot"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
