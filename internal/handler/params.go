package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/middleware"
)

// pathUUID binds a required uuid path parameter the same way generated
// oapi-codegen servers do.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return id, nil
}

// listTripsParams are the query parameters of GET /trips.
type listTripsParams struct {
	Scope *string
	Page  *int
	Limit *int
}

func bindListTripsParams(r *http.Request) (listTripsParams, error) {
	var p listTripsParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "scope", q, &p.Scope); err != nil {
		return p, fmt.Errorf("invalid format for parameter scope: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &p.Page); err != nil {
		return p, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		return p, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return p, nil
}

// reportParams are the query parameters of GET /trips/{tripId}/report.
type reportParams struct {
	Format *string
}

func bindReportParams(r *http.Request) (reportParams, error) {
	var p reportParams
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &p.Format); err != nil {
		return p, fmt.Errorf("invalid format for parameter format: %w", err)
	}
	return p, nil
}

// requireActor returns the caller stored by the auth middleware, writing 401 when
// the route was reached without one.
func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authorization token required")
	}
	return a, ok
}
