// Package domain contains the core data types for the club trip API.
// It depends only on uuid and is imported by every other internal package
// (roster, thread, repo, service, handler).
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// TripStatus is the derived lifecycle state of a trip.
type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripOver      TripStatus = "over"
	TripCancelled TripStatus = "cancelled"
)

// Trip is a scheduled club outing with a fixed capacity and a leader.
// NumSeats counts the unclaimed seats and always equals
// Capacity - len(Participants).
type Trip struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Tag          string      `json:"tag,omitempty"`
	StartTime    time.Time   `json:"start_time"`
	EndTime      time.Time   `json:"end_time"`
	Capacity     int         `json:"capacity"`
	NumSeats     int         `json:"num_seats"`
	Cancelled    bool        `json:"cancelled"`
	LeaderID     uuid.UUID   `json:"leader_id"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsOver reports whether the trip has ended at now.
func (t Trip) IsOver(now time.Time) bool {
	return !now.Before(t.EndTime)
}

// Status derives the lifecycle state. A cancelled trip reports cancelled
// even after its end time.
func (t Trip) Status(now time.Time) TripStatus {
	switch {
	case t.Cancelled:
		return TripCancelled
	case t.IsOver(now):
		return TripOver
	default:
		return TripScheduled
	}
}

// HasParticipant reports whether profileID is on the roster.
func (t Trip) HasParticipant(profileID uuid.UUID) bool {
	return slices.Contains(t.Participants, profileID)
}

// IsLeader reports whether profileID leads the trip.
func (t Trip) IsLeader(profileID uuid.UUID) bool {
	return t.LeaderID == profileID
}
