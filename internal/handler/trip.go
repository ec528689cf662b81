package handler

import (
	"net/http"

	"github.com/umoc/basecamp/backend/internal/domain"
)

const (
	scopeUpcoming = "upcoming"
	scopeAll      = "all"
)

// ListTrips handles GET /trips.
// scope=upcoming (the default) returns trips that have not started, soonest
// first. scope=all returns every trip, newest first, one page at a time.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params, err := bindListTripsParams(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	scope := scopeUpcoming
	if params.Scope != nil {
		scope = *params.Scope
	}

	switch scope {
	case scopeUpcoming:
		trips, err := s.svc.Trips.ListUpcoming(r.Context())
		if err != nil {
			s.serviceError(w, r, err, "trips not found")
			return
		}
		writeJSON(w, http.StatusOK, TripListResponse{Data: s.toTripResponses(trips)})

	case scopeAll:
		p := domain.NewPaginationParams(params.Page, params.Limit)
		trips, total, err := s.svc.Trips.ListAll(r.Context(), p)
		if err != nil {
			s.serviceError(w, r, err, "trips not found")
			return
		}
		writeJSON(w, http.StatusOK, TripListResponse{
			Data: s.toTripResponses(trips),
			Pagination: &Pagination{
				Page:       p.Page,
				Limit:      p.Limit,
				Total:      total,
				TotalPages: p.TotalPages(total),
			},
		})

	default:
		requestError(w, "scope must be upcoming or all")
	}
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req tripRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	trip, err := s.svc.Trips.Create(r.Context(), actor, req.toDomain())
	if err != nil {
		s.serviceError(w, r, err, "leader not found")
		return
	}
	writeJSON(w, http.StatusCreated, s.toTripResponse(trip))
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err.Error())
		return
	}

	trip, err := s.svc.Trips.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, s.toTripResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripId}.
// A capacity below the current roster size is refused with
// capacity_below_roster rather than silently clamped.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	var req tripRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	in := req.toDomain()
	in.ID = id
	trip, err := s.svc.Trips.Update(r.Context(), actor, in)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, s.toTripResponse(trip))
}

// DeleteTrip handles DELETE /trips/{tripId}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err.Error())
		return
	}

	if err := s.svc.Trips.Delete(r.Context(), actor, id); err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toTripResponses(trips []domain.Trip) []TripResponse {
	out := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, s.toTripResponse(t))
	}
	return out
}
