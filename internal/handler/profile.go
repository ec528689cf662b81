package handler

import (
	"net/http"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/middleware"
)

// RegisterProfile handles POST /profiles.
// It is the only unauthenticated write: it creates a user-level profile
// and returns a bearer token for it.
func (s *Server) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	p, err := s.svc.Profiles.Register(r.Context(), req.toDomain())
	if err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	token, err := s.tokens.Generate(p.ID)
	if err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{Profile: toProfileResponse(p), Token: token})
}

// GetOwnProfile handles GET /profiles/me.
func (s *Server) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	p, err := s.svc.Profiles.Get(r.Context(), actor.ProfileID)
	if err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// UpdateOwnProfile handles PUT /profiles/me.
func (s *Server) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	p, err := s.svc.Profiles.UpdateOwn(r.Context(), actor, req.toDomain())
	if err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// GetProfile handles GET /profiles/{profileId}. Anyone may read it, but
// contact details are only included for the member themself and admins.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, signedIn := middleware.ActorFrom(r.Context())
	id, err := pathUUID(r, "profileId")
	if err != nil {
		requestError(w, err.Error())
		return
	}

	p, err := s.svc.Profiles.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	if signedIn && (actor.ProfileID == p.ID || actor.IsAdmin()) {
		writeJSON(w, http.StatusOK, toProfileResponse(p))
		return
	}
	writeJSON(w, http.StatusOK, publicProfile(p))
}

// SignWaiver handles POST /profiles/me/waiver.
func (s *Server) SignWaiver(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req waiverRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	p, err := s.svc.Profiles.SignWaiver(r.Context(), actor, req.Signature)
	if err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// ListProfiles handles GET /admin/profiles.
func (s *Server) ListProfiles(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	ps, err := s.svc.Profiles.List(r.Context(), actor)
	if err != nil {
		s.serviceError(w, r, err, "profiles not found")
		return
	}
	out := make([]ProfileResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProfileResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// SetAdminLevel handles PUT /admin/profiles/{profileId}/level.
func (s *Server) SetAdminLevel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "profileId")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	var req adminLevelRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	p, err := s.svc.Profiles.SetAdminLevel(r.Context(), actor, id, domain.AdminLevel(req.AdminLevel))
	if err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}
