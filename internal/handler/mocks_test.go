package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/handler"
	"github.com/umoc/basecamp/backend/internal/middleware"
)

// ---- mock servicers ---------------------------------------------------------
// Set only the method fields your test needs.

type mockTripServicer struct {
	create       func(ctx context.Context, actor domain.Actor, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listUpcoming func(ctx context.Context) ([]domain.Trip, error)
	listAll      func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update       func(ctx context.Context, actor domain.Actor, trip domain.Trip) (domain.Trip, error)
	delete       func(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	join         func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	leave        func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	cancel       func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	report       func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.TripReport, error)
}

func (m *mockTripServicer) Create(ctx context.Context, a domain.Actor, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, a, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListUpcoming(ctx context.Context) ([]domain.Trip, error) {
	return m.listUpcoming(ctx)
}
func (m *mockTripServicer) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listAll(ctx, p)
}
func (m *mockTripServicer) Update(ctx context.Context, a domain.Actor, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, a, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, a domain.Actor, id uuid.UUID) error {
	return m.delete(ctx, a, id)
}
func (m *mockTripServicer) Join(ctx context.Context, a domain.Actor, id uuid.UUID) (domain.Trip, error) {
	return m.join(ctx, a, id)
}
func (m *mockTripServicer) Leave(ctx context.Context, a domain.Actor, id uuid.UUID) (domain.Trip, error) {
	return m.leave(ctx, a, id)
}
func (m *mockTripServicer) Cancel(ctx context.Context, a domain.Actor, id uuid.UUID) (domain.Trip, error) {
	return m.cancel(ctx, a, id)
}
func (m *mockTripServicer) Report(ctx context.Context, a domain.Actor, id uuid.UUID) (domain.TripReport, error) {
	return m.report(ctx, a, id)
}

type mockCommentServicer struct {
	list func(ctx context.Context, tripID uuid.UUID) ([]domain.ThreadedComment, error)
	post func(ctx context.Context, actor domain.Actor, tripID uuid.UUID, text string, parentID *uuid.UUID) (domain.Comment, error)
}

func (m *mockCommentServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.ThreadedComment, error) {
	return m.list(ctx, tripID)
}
func (m *mockCommentServicer) Post(ctx context.Context, a domain.Actor, tripID uuid.UUID, text string, parentID *uuid.UUID) (domain.Comment, error) {
	return m.post(ctx, a, tripID, text, parentID)
}

type mockNotificationServicer struct {
	listActive func(ctx context.Context, actor domain.Actor) ([]domain.Notification, error)
	dismiss    func(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

func (m *mockNotificationServicer) ListActive(ctx context.Context, a domain.Actor) ([]domain.Notification, error) {
	return m.listActive(ctx, a)
}
func (m *mockNotificationServicer) Dismiss(ctx context.Context, a domain.Actor, id uuid.UUID) error {
	return m.dismiss(ctx, a, id)
}

type mockProfileServicer struct {
	register      func(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error)
	get           func(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)
	updateOwn     func(ctx context.Context, actor domain.Actor, p domain.UserProfile) (domain.UserProfile, error)
	list          func(ctx context.Context, actor domain.Actor) ([]domain.UserProfile, error)
	setAdminLevel func(ctx context.Context, actor domain.Actor, id uuid.UUID, level domain.AdminLevel) (domain.UserProfile, error)
	signWaiver    func(ctx context.Context, actor domain.Actor, signature string) (domain.UserProfile, error)
}

func (m *mockProfileServicer) Register(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	return m.register(ctx, p)
}
func (m *mockProfileServicer) Get(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	return m.get(ctx, id)
}
func (m *mockProfileServicer) UpdateOwn(ctx context.Context, a domain.Actor, p domain.UserProfile) (domain.UserProfile, error) {
	return m.updateOwn(ctx, a, p)
}
func (m *mockProfileServicer) List(ctx context.Context, a domain.Actor) ([]domain.UserProfile, error) {
	return m.list(ctx, a)
}
func (m *mockProfileServicer) SetAdminLevel(ctx context.Context, a domain.Actor, id uuid.UUID, level domain.AdminLevel) (domain.UserProfile, error) {
	return m.setAdminLevel(ctx, a, id, level)
}
func (m *mockProfileServicer) SignWaiver(ctx context.Context, a domain.Actor, signature string) (domain.UserProfile, error) {
	return m.signWaiver(ctx, a, signature)
}

type mockStatsServicer struct {
	get func(ctx context.Context) (domain.ClubStats, error)
}

func (m *mockStatsServicer) Get(ctx context.Context) (domain.ClubStats, error) {
	return m.get(ctx)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer         = (*mockTripServicer)(nil)
	_ handler.CommentServicer      = (*mockCommentServicer)(nil)
	_ handler.NotificationServicer = (*mockNotificationServicer)(nil)
	_ handler.ProfileServicer      = (*mockProfileServicer)(nil)
	_ handler.StatsServicer        = (*mockStatsServicer)(nil)
	_ handler.Authenticator        = (*middleware.Authenticator)(nil)
)

// ---- auth stubs -------------------------------------------------------------

var (
	now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	adminActor  = domain.Actor{ProfileID: uuid.MustParse("0b1c7a52-3f0e-4c1b-9d0e-2a6f8c1d0001"), Level: domain.LevelAdmin}
	leaderActor = domain.Actor{ProfileID: uuid.MustParse("0b1c7a52-3f0e-4c1b-9d0e-2a6f8c1d0002"), Level: domain.LevelLeader}
	memberActor = domain.Actor{ProfileID: uuid.MustParse("0b1c7a52-3f0e-4c1b-9d0e-2a6f8c1d0003"), Level: domain.LevelUser}
)

// uuidTokens uses the profile id itself as the bearer token.
type uuidTokens struct{}

func (uuidTokens) Validate(token string) (uuid.UUID, error) { return uuid.Parse(token) }
func (uuidTokens) Generate(id uuid.UUID) (string, error) { return "token-" + id.String(), nil }

// knownActors resolves the three fixed test actors.
type knownActors struct{}

func (knownActors) ResolveActor(_ context.Context, id uuid.UUID) (domain.Actor, error) {
	for _, a := range []domain.Actor{adminActor, leaderActor, memberActor} {
		if a.ProfileID == id {
			return a, nil
		}
	}
	return domain.Actor{}, domain.ErrNotFound
}

// ---- helpers ----------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHTTPHandler wires a Server with the given mocks behind the real auth
// middleware. This mirrors how main.go wires it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	auth := middleware.NewAuthenticator(uuidTokens{}, knownActors{}, discardLogger())
	srv := handler.NewServer(svc, uuidTokens{}, auth, discardLogger()).
		WithClock(func() time.Time { return now })
	return srv.Handler()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends one request. body is JSON-encoded when non-nil; as adds the
// bearer token for that actor when non-nil.
func do(t *testing.T, h http.Handler, method, path string, body any, as *domain.Actor) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+as.ProfileID.String())
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error
}

func tripFixture() domain.Trip {
	start := time.Date(2026, 4, 11, 7, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:           uuid.New(),
		Name:         "Mt. Washington Day Hike",
		Description:  "Tuckerman Ravine up, Lion Head down.",
		Tag:          "hiking",
		StartTime:    start,
		EndTime:      start.Add(10 * time.Hour),
		Capacity:     8,
		NumSeats:     7,
		LeaderID:     leaderActor.ProfileID,
		Participants: []uuid.UUID{leaderActor.ProfileID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func profileFixture(id uuid.UUID, first, last string) domain.UserProfile {
	dob := time.Date(1994, 5, 17, 0, 0, 0, 0, time.UTC)
	return domain.UserProfile{
		ID:           id,
		FirstName:    first,
		LastName:     last,
		Email:        first + "@example.org",
		AdminLevel:   domain.LevelUser,
		DateOfBirth:  &dob,
		Phone:        "603-555-0100",
		ContactName:  "Pat " + last,
		ContactPhone: "603-555-0199",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
