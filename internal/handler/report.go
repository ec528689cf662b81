package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of a CSV report.
var csvHeaders = []string{
	"trip_id", "trip_name", "role", "first_name", "last_name",
	"email", "phone", "date_of_birth", "contact_name", "contact_phone",
}

const (
	roleLeader      = "leader"
	roleParticipant = "participant"
)

// GetTripReport handles GET /trips/{tripId}/report.
// It returns the leader and roster with emergency contacts to the trip's
// leader or an admin. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetTripReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err.Error())
		return
	}
	params, err := bindReportParams(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	report, err := s.svc.Trips.Report(r.Context(), actor, id)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}

	if params.Format != nil && *params.Format == "csv" {
		writeCSVReport(w, report)
		return
	}
	writeJSON(w, http.StatusOK, s.buildJSONReport(report))
}

func (s *Server) buildJSONReport(report domain.TripReport) TripReportResponse {
	out := TripReportResponse{
		Trip:         s.toTripResponse(report.Trip),
		Participants: make([]ReportEntry, 0, len(report.Participants)),
	}
	if report.Leader.ID != uuid.Nil {
		out.Leader = &ReportEntry{ProfileResponse: toProfileResponse(report.Leader), Role: roleLeader}
	}
	for _, p := range report.Participants {
		out.Participants = append(out.Participants, ReportEntry{ProfileResponse: toProfileResponse(p), Role: roleParticipant})
	}
	return out
}

// writeCSVReport encodes the report with the leader on the first data row.
func writeCSVReport(w http.ResponseWriter, report domain.TripReport) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	if report.Leader.ID != uuid.Nil {
		//nolint:errcheck
		cw.Write(reportRecord(report.Trip, report.Leader, roleLeader))
	}
	for _, p := range report.Participants {
		//nolint:errcheck
		cw.Write(reportRecord(report.Trip, p, roleParticipant))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s-report.csv"`, report.Trip.ID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// reportRecord encodes one person as a flat string slice.
// A missing date of birth is encoded as an empty string.
func reportRecord(t domain.Trip, p domain.UserProfile, role string) []string {
	dob := ""
	if p.DateOfBirth != nil {
		dob = p.DateOfBirth.Format("2006-01-02")
	}
	return []string{
		t.ID.String(),
		t.Name,
		role,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		dob,
		p.ContactName,
		p.ContactPhone,
	}
}
