package roster_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/roster"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// scheduledTrip returns an empty trip starting tomorrow with the given capacity.
func scheduledTrip(capacity int) domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		Name:      "Old Rag Hike",
		StartTime: now.Add(24 * time.Hour),
		EndTime:   now.Add(30 * time.Hour),
		Capacity:  capacity,
		NumSeats:  capacity,
		LeaderID:  uuid.New(),
	}
}

func requireReason(t *testing.T, err error, want domain.Reason) {
	t.Helper()
	require.ErrorIs(t, err, domain.ErrNotPermitted)
	got, ok := domain.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

// ---- Join ------------------------------------------------------------------

func TestJoin_OK(t *testing.T) {
	trip := scheduledTrip(3)
	user := uuid.New()

	require.NoError(t, roster.Join(&trip, user, now))

	assert.True(t, trip.HasParticipant(user))
	assert.Equal(t, 2, trip.NumSeats)
	assert.NoError(t, roster.Check(trip))
}

func TestJoin_FillsToCapacityThenFull(t *testing.T) {
	trip := scheduledTrip(5)

	for i := 0; i < 5; i++ {
		require.NoError(t, roster.Join(&trip, uuid.New(), now))
	}
	err := roster.Join(&trip, uuid.New(), now)

	requireReason(t, err, domain.ReasonTripFull)
	assert.Equal(t, 0, trip.NumSeats)
	assert.Len(t, trip.Participants, 5)
	assert.NoError(t, roster.Check(trip))
}

func TestJoin_Rejections(t *testing.T) {
	member := uuid.New()

	tests := []struct {
		name   string
		setup  func(*domain.Trip)
		user   uuid.UUID
		reason domain.Reason
	}{
		{
			name:   "already joined",
			setup:  func(tr *domain.Trip) { require.NoError(t, roster.Join(tr, member, now)) },
			user:   member,
			reason: domain.ReasonAlreadyJoined,
		},
		{
			name:   "trip over",
			setup:  func(tr *domain.Trip) { tr.EndTime = now },
			user:   uuid.New(),
			reason: domain.ReasonTripOver,
		},
		{
			name:   "trip cancelled",
			setup:  func(tr *domain.Trip) { tr.Cancelled = true },
			user:   uuid.New(),
			reason: domain.ReasonTripCancelled,
		},
		{
			name: "trip full",
			setup: func(tr *domain.Trip) {
				tr.Capacity, tr.NumSeats = 1, 0
				tr.Participants = []uuid.UUID{uuid.New()}
			},
			user:   uuid.New(),
			reason: domain.ReasonTripFull,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trip := scheduledTrip(2)
			tc.setup(&trip)
			before := trip.NumSeats
			count := len(trip.Participants)

			err := roster.Join(&trip, tc.user, now)

			requireReason(t, err, tc.reason)
			assert.Equal(t, before, trip.NumSeats, "seats must not change")
			assert.Len(t, trip.Participants, count, "participants must not change")
		})
	}
}

// ---- Leave -----------------------------------------------------------------

func TestLeave_OK(t *testing.T) {
	trip := scheduledTrip(3)
	a, b := uuid.New(), uuid.New()
	require.NoError(t, roster.Join(&trip, a, now))
	require.NoError(t, roster.Join(&trip, b, now))

	require.NoError(t, roster.Leave(&trip, a, now))

	assert.Equal(t, []uuid.UUID{b}, trip.Participants)
	assert.Equal(t, 2, trip.NumSeats)
	assert.NoError(t, roster.Check(trip))
}

func TestLeave_LeaderAlwaysRejected(t *testing.T) {
	states := map[string]func(*domain.Trip){
		"scheduled, on roster": func(tr *domain.Trip) { require.NoError(t, roster.Join(tr, tr.LeaderID, now)) },
		"scheduled, off roster": func(*domain.Trip) {},
		"over":                  func(tr *domain.Trip) { tr.EndTime = now.Add(-time.Hour) },
		"cancelled":             func(tr *domain.Trip) { tr.Cancelled = true },
	}

	for name, setup := range states {
		t.Run(name, func(t *testing.T) {
			trip := scheduledTrip(3)
			setup(&trip)

			err := roster.Leave(&trip, trip.LeaderID, now)

			requireReason(t, err, domain.ReasonIsLeader)
		})
	}
}

func TestLeave_NotParticipant(t *testing.T) {
	trip := scheduledTrip(3)

	err := roster.Leave(&trip, uuid.New(), now)

	requireReason(t, err, domain.ReasonNotParticipant)
	assert.Equal(t, 3, trip.NumSeats)
}

func TestLeave_TripOver(t *testing.T) {
	trip := scheduledTrip(3)
	user := uuid.New()
	require.NoError(t, roster.Join(&trip, user, now))

	err := roster.Leave(&trip, user, trip.EndTime.Add(time.Minute))

	requireReason(t, err, domain.ReasonTripOver)
	assert.True(t, trip.HasParticipant(user))
}

func TestLeave_Cancelled(t *testing.T) {
	trip := scheduledTrip(3)
	user := uuid.New()
	require.NoError(t, roster.Join(&trip, user, now))
	trip.Cancelled = true

	err := roster.Leave(&trip, user, now)

	requireReason(t, err, domain.ReasonTripCancelled)
	assert.Equal(t, 2, trip.NumSeats)
}

// ---- Cancel ----------------------------------------------------------------

func TestCancel_ByLeader(t *testing.T) {
	trip := scheduledTrip(3)
	leader := domain.Actor{ProfileID: trip.LeaderID, Level: domain.LevelLeader}

	require.NoError(t, roster.Cancel(&trip, leader, now))

	assert.True(t, trip.Cancelled)
	assert.Equal(t, domain.TripCancelled, trip.Status(now))
}

func TestCancel_ByAdmin(t *testing.T) {
	trip := scheduledTrip(3)
	admin := domain.Actor{ProfileID: uuid.New(), Level: domain.LevelAdmin}

	require.NoError(t, roster.Cancel(&trip, admin, now))
	assert.True(t, trip.Cancelled)
}

func TestCancel_ByOtherLeader_Forbidden(t *testing.T) {
	trip := scheduledTrip(3)
	other := domain.Actor{ProfileID: uuid.New(), Level: domain.LevelLeader}

	err := roster.Cancel(&trip, other, now)

	requireReason(t, err, domain.ReasonForbidden)
	assert.False(t, trip.Cancelled)
}

func TestCancel_Twice(t *testing.T) {
	trip := scheduledTrip(3)
	admin := domain.Actor{ProfileID: uuid.New(), Level: domain.LevelAdmin}
	require.NoError(t, roster.Cancel(&trip, admin, now))

	err := roster.Cancel(&trip, admin, now)

	requireReason(t, err, domain.ReasonTripCancelled)
}

func TestCancel_Over(t *testing.T) {
	trip := scheduledTrip(3)
	admin := domain.Actor{ProfileID: uuid.New(), Level: domain.LevelAdmin}

	err := roster.Cancel(&trip, admin, trip.EndTime)

	requireReason(t, err, domain.ReasonTripOver)
	assert.False(t, trip.Cancelled)
}

// ---- Resize ----------------------------------------------------------------

func TestResize_GrowKeepsClaimedSeats(t *testing.T) {
	trip := scheduledTrip(4)
	require.NoError(t, roster.Join(&trip, uuid.New(), now))
	require.NoError(t, roster.Join(&trip, uuid.New(), now))

	require.NoError(t, roster.Resize(&trip, 10))

	assert.Equal(t, 10, trip.Capacity)
	assert.Equal(t, 8, trip.NumSeats)
	assert.NoError(t, roster.Check(trip))
}

func TestResize_ShrinkToRosterSize(t *testing.T) {
	trip := scheduledTrip(4)
	require.NoError(t, roster.Join(&trip, uuid.New(), now))
	require.NoError(t, roster.Join(&trip, uuid.New(), now))

	require.NoError(t, roster.Resize(&trip, 2))

	assert.Equal(t, 0, trip.NumSeats)
	assert.NoError(t, roster.Check(trip))
}

func TestResize_BelowRoster_Rejected(t *testing.T) {
	trip := scheduledTrip(4)
	for i := 0; i < 3; i++ {
		require.NoError(t, roster.Join(&trip, uuid.New(), now))
	}

	err := roster.Resize(&trip, 2)

	requireReason(t, err, domain.ReasonCapacityBelowRoster)
	assert.Equal(t, 4, trip.Capacity, "capacity must not change")
	assert.Equal(t, 1, trip.NumSeats, "seats must not change")
}

func TestResize_NonPositive(t *testing.T) {
	trip := scheduledTrip(4)

	err := roster.Resize(&trip, 0)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Check -----------------------------------------------------------------

func TestCheck_DetectsDrift(t *testing.T) {
	trip := scheduledTrip(3)
	trip.Participants = []uuid.UUID{uuid.New()} // seat not claimed

	assert.ErrorIs(t, roster.Check(trip), domain.ErrIntegrity)

	trip = scheduledTrip(3)
	trip.NumSeats = -1
	assert.ErrorIs(t, roster.Check(trip), domain.ErrIntegrity)
}
