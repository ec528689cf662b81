package domain

import "github.com/google/uuid"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ProfileID uuid.UUID
	Level     AdminLevel
}

// IsAdmin reports whether the actor holds the admin level.
func (a Actor) IsAdmin() bool {
	return a.Level == LevelAdmin
}

// Capability is one way an actor can qualify for an operation.
type Capability uint8

const (
	// CapAdmin is held by any admin.
	CapAdmin Capability = 1 << iota
	// CapLeaderOfTrip is held by the leader of Subject.Trip.
	CapLeaderOfTrip
	// CapSelf is held when the actor is Subject.OwnerID.
	CapSelf
)

// Policy is the set of capabilities that each grant an operation.
type Policy = Capability

// Operation policies. Every service operation checks one of these through
// Allowed rather than testing admin levels inline.
const (
	PolicyManageTrips     Policy = CapAdmin
	PolicyCancelTrip      Policy = CapAdmin | CapLeaderOfTrip
	PolicyTripReport      Policy = CapAdmin | CapLeaderOfTrip
	PolicyManageProfiles  Policy = CapAdmin
	PolicyOwnNotification Policy = CapSelf
)

// Subject is what an operation acts on. Trip is nil for operations that do
// not concern a trip; OwnerID is uuid.Nil when there is no owner.
type Subject struct {
	Trip    *Trip
	OwnerID uuid.UUID
}

// Allowed reports whether a holds at least one capability in policy for s.
func Allowed(a Actor, policy Policy, s Subject) bool {
	if policy&CapAdmin != 0 && a.IsAdmin() {
		return true
	}
	if policy&CapLeaderOfTrip != 0 && s.Trip != nil && s.Trip.IsLeader(a.ProfileID) {
		return true
	}
	if policy&CapSelf != 0 && s.OwnerID != uuid.Nil && s.OwnerID == a.ProfileID {
		return true
	}
	return false
}

// Authorize returns NotPermitted(ReasonForbidden) unless Allowed.
func Authorize(a Actor, policy Policy, s Subject) error {
	if !Allowed(a, policy, s) {
		return NotPermitted(ReasonForbidden)
	}
	return nil
}
