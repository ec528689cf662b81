package handler

import "net/http"

// ListNotifications handles GET /notifications.
// It returns the caller's undismissed notifications, newest first.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	ns, err := s.svc.Notifications.ListActive(r.Context(), actor)
	if err != nil {
		s.serviceError(w, r, err, "notifications not found")
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

// DismissNotification handles POST /notifications/{notificationId}/dismiss.
// Dismissing twice is not an error.
func (s *Server) DismissNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "notificationId")
	if err != nil {
		requestError(w, err.Error())
		return
	}

	if err := s.svc.Notifications.Dismiss(r.Context(), actor, id); err != nil {
		s.serviceError(w, r, err, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
