package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// TripResponse is a trip plus its status derived at response time.
type TripResponse struct {
	domain.Trip
	Status domain.TripStatus `json:"status"`
}

// Pagination describes one page of a paged listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TripListResponse is the body of GET /trips. Pagination is only present
// for scope=all.
type TripListResponse struct {
	Data       []TripResponse `json:"data"`
	Pagination *Pagination    `json:"pagination,omitempty"`
}

// CommentResponse is one comment in display order.
type CommentResponse struct {
	ID         uuid.UUID  `json:"id"`
	TripID     uuid.UUID  `json:"trip_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	AuthorName string     `json:"author_name"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Text       string     `json:"text"`
	Depth      int        `json:"depth"`
	Padding    int        `json:"padding"`
	Replies    int        `json:"replies"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ProfileResponse is a member profile. Private fields are left empty when
// the caller is not the member or an admin.
type ProfileResponse struct {
	ID           uuid.UUID           `json:"id"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	AdminLevel   domain.AdminLevel   `json:"admin_level"`
	Email        string              `json:"email,omitempty"`
	DateOfBirth  *openapi_types.Date `json:"date_of_birth,omitempty"`
	Phone        string              `json:"phone,omitempty"`
	ContactName  string              `json:"contact_name,omitempty"`
	ContactPhone string              `json:"contact_phone,omitempty"`
	CanJoinTrip  *bool               `json:"can_join_trip,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// RegisterResponse is returned by POST /profiles.
type RegisterResponse struct {
	Profile ProfileResponse `json:"profile"`
	Token   string          `json:"token"`
}

// ReportEntry is one person on a trip report.
type ReportEntry struct {
	ProfileResponse
	Role string `json:"role"`
}

// TripReportResponse is the JSON form of GET /trips/{tripId}/report.
type TripReportResponse struct {
	Trip         TripResponse  `json:"trip"`
	Leader       *ReportEntry  `json:"leader,omitempty"`
	Participants []ReportEntry `json:"participants"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Profiles int64 `json:"profiles"`
	Trips    int64 `json:"trips"`
	Admins   int64 `json:"admins"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) toTripResponse(t domain.Trip) TripResponse {
	if t.Participants == nil {
		t.Participants = []uuid.UUID{}
	}
	return TripResponse{Trip: t, Status: t.Status(s.now())}
}

func toCommentResponse(c domain.ThreadedComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		TripID:     c.TripID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		ParentID:   c.ParentID,
		Text:       c.Text,
		Depth:      c.Depth,
		Padding:    c.Padding(),
		Replies:    c.Replies,
		CreatedAt:  c.CreatedAt,
	}
}

// toProfileResponse includes every field; publicProfile strips the private ones.
func toProfileResponse(p domain.UserProfile) ProfileResponse {
	out := ProfileResponse{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		AdminLevel:   p.AdminLevel,
		Email:        p.Email,
		Phone:        p.Phone,
		ContactName:  p.ContactName,
		ContactPhone: p.ContactPhone,
		CanJoinTrip:  &p.CanJoinTrip,
		CreatedAt:    p.CreatedAt,
	}
	if p.DateOfBirth != nil {
		out.DateOfBirth = &openapi_types.Date{Time: *p.DateOfBirth}
	}
	return out
}

func publicProfile(p domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		AdminLevel: p.AdminLevel,
		CreatedAt:  p.CreatedAt,
	}
}
