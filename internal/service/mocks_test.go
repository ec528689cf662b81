package service_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/repo"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listUpcoming func(ctx context.Context, from time.Time) ([]domain.Trip, error)
	listPaged    func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	mutate       func(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListUpcoming(ctx context.Context, from time.Time) ([]domain.Trip, error) {
	return m.listUpcoming(ctx, from)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error) {
	return m.mutate(ctx, id, fn)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// memTripRepo keeps trips in memory and serializes Mutate per trip the way
// the row lock does, so roster races can be exercised without Postgres.
type memTripRepo struct {
	mu    sync.Mutex
	trips map[uuid.UUID]domain.Trip
	locks map[uuid.UUID]*sync.Mutex
}

func newMemTripRepo(trips ...domain.Trip) *memTripRepo {
	r := &memTripRepo{trips: map[uuid.UUID]domain.Trip{}, locks: map[uuid.UUID]*sync.Mutex{}}
	for _, t := range trips {
		r.trips[t.ID] = t
		r.locks[t.ID] = &sync.Mutex{}
	}
	return r
}

func (r *memTripRepo) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.New()
	t.Participants = []uuid.UUID{}
	r.trips[t.ID] = t
	r.locks[t.ID] = &sync.Mutex{}
	return t, nil
}

func (r *memTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	t.Participants = slices.Clone(t.Participants)
	return t, nil
}

func (r *memTripRepo) ListUpcoming(context.Context, time.Time) ([]domain.Trip, error) {
	return nil, nil
}

func (r *memTripRepo) ListPaged(context.Context, domain.PaginationParams) ([]domain.Trip, int64, error) {
	return nil, 0, nil
}

func (r *memTripRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error) {
	r.mu.Lock()
	lock, ok := r.locks[id]
	r.mu.Unlock()
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	t, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := fn(&t); err != nil {
		return domain.Trip{}, err
	}
	r.mu.Lock()
	r.trips[id] = t
	r.mu.Unlock()
	return t, nil
}

func (r *memTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.trips, id)
	return nil
}

var _ repo.TripRepo = (*memTripRepo)(nil)

// mockProfileRepo is a hand-written test double for repo.ProfileRepo.
type mockProfileRepo struct {
	create        func(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)
	getMany       func(ctx context.Context, ids []uuid.UUID) ([]domain.UserProfile, error)
	list          func(ctx context.Context) ([]domain.UserProfile, error)
	update        func(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error)
	setAdminLevel func(ctx context.Context, id uuid.UUID, level domain.AdminLevel) (domain.UserProfile, error)
	setCanJoin    func(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)
}

func (m *mockProfileRepo) Create(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	return m.create(ctx, p)
}
func (m *mockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	return m.getByID(ctx, id)
}
func (m *mockProfileRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.UserProfile, error) {
	return m.getMany(ctx, ids)
}
func (m *mockProfileRepo) List(ctx context.Context) ([]domain.UserProfile, error) {
	return m.list(ctx)
}
func (m *mockProfileRepo) Update(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	return m.update(ctx, p)
}
func (m *mockProfileRepo) SetAdminLevel(ctx context.Context, id uuid.UUID, level domain.AdminLevel) (domain.UserProfile, error) {
	return m.setAdminLevel(ctx, id, level)
}
func (m *mockProfileRepo) SetCanJoinTrip(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	return m.setCanJoin(ctx, id)
}

var _ repo.ProfileRepo = (*mockProfileRepo)(nil)

// profilesOf returns a ProfileRepo whose reads are served from ps.
func profilesOf(ps ...domain.UserProfile) *mockProfileRepo {
	byID := map[uuid.UUID]domain.UserProfile{}
	for _, p := range ps {
		byID[p.ID] = p
	}
	return &mockProfileRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.UserProfile, error) {
			p, ok := byID[id]
			if !ok {
				return domain.UserProfile{}, domain.ErrNotFound
			}
			return p, nil
		},
		getMany: func(_ context.Context, ids []uuid.UUID) ([]domain.UserProfile, error) {
			out := []domain.UserProfile{}
			for _, id := range ids {
				if p, ok := byID[id]; ok {
					out = append(out, p)
				}
			}
			return out, nil
		},
	}
}

// mockCommentRepo is a hand-written test double for repo.CommentRepo.
type mockCommentRepo struct {
	create     func(ctx context.Context, c domain.Comment) (domain.Comment, error)
	getByID    func(ctx context.Context, tripID, commentID uuid.UUID) (domain.Comment, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Comment, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	return m.create(ctx, c)
}
func (m *mockCommentRepo) GetByID(ctx context.Context, tripID, commentID uuid.UUID) (domain.Comment, error) {
	return m.getByID(ctx, tripID, commentID)
}
func (m *mockCommentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Comment, error) {
	return m.listByTrip(ctx, tripID)
}

var _ repo.CommentRepo = (*mockCommentRepo)(nil)

// mockNotificationRepo is a hand-written test double for repo.NotificationRepo.
type mockNotificationRepo struct {
	create     func(ctx context.Context, n domain.Notification) (domain.Notification, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Notification, error)
	listActive func(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error)
	dismiss    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return m.create(ctx, n)
}
func (m *mockNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	return m.getByID(ctx, id)
}
func (m *mockNotificationRepo) ListActive(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error) {
	return m.listActive(ctx, recipientID)
}
func (m *mockNotificationRepo) Dismiss(ctx context.Context, id uuid.UUID) error {
	return m.dismiss(ctx, id)
}

var _ repo.NotificationRepo = (*mockNotificationRepo)(nil)

// mockStatsRepo is a hand-written test double for repo.StatsRepo.
type mockStatsRepo struct {
	get func(ctx context.Context) (domain.ClubStats, error)
}

func (m *mockStatsRepo) Get(ctx context.Context) (domain.ClubStats, error) { return m.get(ctx) }

var _ repo.StatsRepo = (*mockStatsRepo)(nil)

// recordingNotifier collects every notification it is handed.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.sent)
}
