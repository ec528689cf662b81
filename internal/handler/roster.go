package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
)

type rosterOp func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)

// JoinTrip handles POST /trips/{tripId}/join.
func (s *Server) JoinTrip(w http.ResponseWriter, r *http.Request) {
	s.roster(w, r, s.svc.Trips.Join)
}

// LeaveTrip handles POST /trips/{tripId}/leave.
func (s *Server) LeaveTrip(w http.ResponseWriter, r *http.Request) {
	s.roster(w, r, s.svc.Trips.Leave)
}

// CancelTrip handles POST /trips/{tripId}/cancel.
func (s *Server) CancelTrip(w http.ResponseWriter, r *http.Request) {
	s.roster(w, r, s.svc.Trips.Cancel)
}

// roster runs one roster transition and returns the updated trip. A refused
// transition is a 403 whose code names the failed precondition
// (trip_full, already_joined, ...).
func (s *Server) roster(w http.ResponseWriter, r *http.Request, op rosterOp) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err.Error())
		return
	}

	trip, err := op(r.Context(), actor, id)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, s.toTripResponse(trip))
}
