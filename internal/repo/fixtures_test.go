package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/repo"
	"github.com/umoc/basecamp/backend/testutil"
)

// newTestTx is a rolled-back-on-cleanup transaction; see testutil.NewTx.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	return testutil.NewTx(t)
}

// profileFixture returns a profile with a unique email.
func profileFixture(first, last string) domain.UserProfile {
	return domain.UserProfile{
		FirstName:    first,
		LastName:     last,
		Email:        uuid.NewString() + "@example.org",
		Phone:        "555-0100",
		ContactName:  "Pat Contact",
		ContactPhone: "555-0199",
	}
}

// tripFixture returns a trip a week from now led by leaderID.
// Callers can override individual fields after calling this function.
func tripFixture(leaderID uuid.UUID) domain.Trip {
	start := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Second)
	return domain.Trip{
		Name:        "Ridge Hike",
		Description: "Full day on the ridge",
		Tag:         "hiking",
		StartTime:   start,
		EndTime:     start.Add(8 * time.Hour),
		Capacity:    5,
		NumSeats:    5,
		LeaderID:    leaderID,
	}
}

// mustProfile inserts a profile through tx and returns it.
func mustProfile(t *testing.T, tx pgx.Tx, first, last string) domain.UserProfile {
	t.Helper()
	p, err := repo.NewProfileRepo(tx).Create(context.Background(), profileFixture(first, last))
	require.NoError(t, err)
	return p
}

// mustTrip inserts a trip led by a fresh profile and returns it with the leader.
func mustTrip(t *testing.T, tx pgx.Tx) (domain.Trip, domain.UserProfile) {
	t.Helper()
	leader := mustProfile(t, tx, "Lee", "Leader")
	trip, err := repo.NewTripRepo(tx).Create(context.Background(), tripFixture(leader.ID))
	require.NoError(t, err)
	return trip, leader
}
