package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/handler"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"} without a token.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{}), http.MethodGet, "/healthz", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[handler.HealthResponse](t, rec).Status)
}

func TestGetOpenAPI_servesEmbeddedDocument(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{}), http.MethodGet, "/openapi.yaml", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
	assert.Contains(t, rec.Body.String(), "/trips/{tripId}/join:")
}

func TestGetStats_200(t *testing.T) {
	svc := &mockStatsServicer{
		get: func(context.Context) (domain.ClubStats, error) {
			return domain.ClubStats{Profiles: 120, Trips: 34, Admins: 3}, nil
		},
	}

	rec := do(t, newHTTPHandler(handler.Services{Stats: svc}), http.MethodGet, "/stats", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.StatsResponse{Profiles: 120, Trips: 34, Admins: 3}, decode[handler.StatsResponse](t, rec))
}

func TestUnknownRoute_404(t *testing.T) {
	rec := do(t, newHTTPHandler(handler.Services{}), http.MethodGet, "/nope", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
