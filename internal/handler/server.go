// Package handler implements the HTTP handlers for the club trip API.
// All handlers are methods on Server. They are split into resource files
// (trip.go, roster.go, comment.go, ...) but share the same Server struct so
// they can reach its dependencies. A handler decodes the request, calls
// exactly one service operation and writes the JSON result or error.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// TripServicer defines the trip and roster operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, actor domain.Actor, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListUpcoming(ctx context.Context) ([]domain.Trip, error)
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, actor domain.Actor, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	Join(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	Leave(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	Report(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.TripReport, error)
}

// CommentServicer defines the trip discussion operations.
type CommentServicer interface {
	List(ctx context.Context, tripID uuid.UUID) ([]domain.ThreadedComment, error)
	Post(ctx context.Context, actor domain.Actor, tripID uuid.UUID, text string, parentID *uuid.UUID) (domain.Comment, error)
}

// NotificationServicer defines the notification inbox operations.
type NotificationServicer interface {
	ListActive(ctx context.Context, actor domain.Actor) ([]domain.Notification, error)
	Dismiss(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

// ProfileServicer defines the member profile operations.
type ProfileServicer interface {
	Register(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error)
	Get(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)
	UpdateOwn(ctx context.Context, actor domain.Actor, p domain.UserProfile) (domain.UserProfile, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.UserProfile, error)
	SetAdminLevel(ctx context.Context, actor domain.Actor, id uuid.UUID, level domain.AdminLevel) (domain.UserProfile, error)
	SignWaiver(ctx context.Context, actor domain.Actor, signature string) (domain.UserProfile, error)
}

// Authenticator provides the two auth middlewares. *middleware.Authenticator
// satisfies it.
type Authenticator interface {
	// Require rejects anonymous requests.
	Require(next http.Handler) http.Handler
	// Optional stores the actor when a token is sent and lets anonymous
	// requests through.
	Optional(next http.Handler) http.Handler
}

// StatsServicer returns the landing page counters.
type StatsServicer interface {
	Get(ctx context.Context) (domain.ClubStats, error)
}

// TokenIssuer mints the bearer token returned on registration.
// *auth.JWTManager satisfies it.
type TokenIssuer interface {
	Generate(profileID uuid.UUID) (string, error)
}

// Services groups the service layer dependencies of Server.
type Services struct {
	Trips         TripServicer
	Comments      CommentServicer
	Notifications NotificationServicer
	Profiles      ProfileServicer
	Stats         StatsServicer
}

// Server holds the dependencies shared by every handler.
type Server struct {
	svc      Services
	tokens   TokenIssuer
	auth     Authenticator
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewServer constructs the Server. Writes and member-only reads go through
// auth.Require; the public trip, comment and profile reads go through
// auth.Optional.
func NewServer(svc Services, tokens TokenIssuer, auth Authenticator, log *slog.Logger) *Server {
	return &Server{
		svc:      svc,
		tokens:   tokens,
		auth:     auth,
		log:      log,
		validate: newValidator(),
		now:      time.Now,
	}
}

// WithClock replaces the clock used to derive trip status in responses.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Routes registers every API route on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/stats", s.GetStats)
	r.Post("/profiles", s.RegisterProfile)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Optional)

		r.Get("/trips", s.ListTrips)
		r.Get("/trips/{tripId}", s.GetTrip)
		r.Get("/trips/{tripId}/comments", s.ListComments)
		r.Get("/profiles/{profileId}", s.GetProfile)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Require)

		r.Post("/trips", s.CreateTrip)
		r.Put("/trips/{tripId}", s.UpdateTrip)
		r.Delete("/trips/{tripId}", s.DeleteTrip)
		r.Post("/trips/{tripId}/join", s.JoinTrip)
		r.Post("/trips/{tripId}/leave", s.LeaveTrip)
		r.Post("/trips/{tripId}/cancel", s.CancelTrip)
		r.Get("/trips/{tripId}/report", s.GetTripReport)
		r.Post("/trips/{tripId}/comments", s.PostComment)

		r.Get("/notifications", s.ListNotifications)
		r.Post("/notifications/{notificationId}/dismiss", s.DismissNotification)

		r.Get("/profiles/me", s.GetOwnProfile)
		r.Put("/profiles/me", s.UpdateOwnProfile)
		r.Post("/profiles/me/waiver", s.SignWaiver)

		r.Get("/admin/profiles", s.ListProfiles)
		r.Put("/admin/profiles/{profileId}/level", s.SetAdminLevel)
	})
}

// Handler returns a chi router serving Routes, for callers that do not need
// to add their own middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
