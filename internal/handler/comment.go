package handler

import (
	"net/http"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// ListComments handles GET /trips/{tripId}/comments.
// Comments come back in thread order: each reply directly under its parent,
// siblings oldest first, with padding set for rendering.
func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err.Error())
		return
	}

	threaded, err := s.svc.Comments.List(r.Context(), tripID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}

	out := make([]CommentResponse, 0, len(threaded))
	for _, c := range threaded {
		out = append(out, toCommentResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// PostComment handles POST /trips/{tripId}/comments.
func (s *Server) PostComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	var req commentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	c, err := s.svc.Comments.Post(r.Context(), actor, tripID, req.Text, req.ParentID)
	if err != nil {
		s.serviceError(w, r, err, "trip or parent comment not found")
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(domain.ThreadedComment{Comment: c}))
}
