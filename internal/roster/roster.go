// Package roster implements the trip roster state machine: joining,
// leaving, cancelling and resizing a trip while keeping its seat counter
// consistent with its participant list.
//
// Every function validates all preconditions before touching the trip, so a
// returned error always means the trip is unchanged. Persistence and
// notifications are the caller's job; callers must run these inside a
// transaction that holds the trip's row lock.
package roster

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// Join adds user to the roster and claims one seat.
func Join(t *domain.Trip, user uuid.UUID, now time.Time) error {
	switch {
	case t.IsOver(now):
		return domain.NotPermitted(domain.ReasonTripOver)
	case t.Cancelled:
		return domain.NotPermitted(domain.ReasonTripCancelled)
	case t.HasParticipant(user):
		return domain.NotPermitted(domain.ReasonAlreadyJoined)
	case t.NumSeats <= 0:
		return domain.NotPermitted(domain.ReasonTripFull)
	}

	t.Participants = append(t.Participants, user)
	t.NumSeats--
	return nil
}

// Leave removes user from the roster and frees their seat.
// The leader can never leave, whatever the trip's state.
func Leave(t *domain.Trip, user uuid.UUID, now time.Time) error {
	switch {
	case t.IsLeader(user):
		return domain.NotPermitted(domain.ReasonIsLeader)
	case t.IsOver(now):
		return domain.NotPermitted(domain.ReasonTripOver)
	case t.Cancelled:
		return domain.NotPermitted(domain.ReasonTripCancelled)
	case !t.HasParticipant(user):
		return domain.NotPermitted(domain.ReasonNotParticipant)
	}

	t.Participants = slices.DeleteFunc(t.Participants, func(id uuid.UUID) bool { return id == user })
	t.NumSeats++
	return nil
}

// Cancel marks the trip cancelled. Only an admin or the trip's leader may
// cancel, and a trip can be cancelled once.
func Cancel(t *domain.Trip, actor domain.Actor, now time.Time) error {
	switch {
	case t.IsOver(now):
		return domain.NotPermitted(domain.ReasonTripOver)
	case t.Cancelled:
		return domain.NotPermitted(domain.ReasonTripCancelled)
	}
	if err := domain.Authorize(actor, domain.PolicyCancelTrip, domain.Subject{Trip: t}); err != nil {
		return err
	}

	t.Cancelled = true
	return nil
}

// Resize changes the trip's total capacity, shifting the free seats by the
// same delta so claimed seats are preserved. A capacity that would leave
// fewer seats than current participants is rejected.
func Resize(t *domain.Trip, capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", domain.ErrValidation)
	}

	seats := t.NumSeats + capacity - t.Capacity
	if seats < 0 || seats > capacity {
		return domain.NotPermitted(domain.ReasonCapacityBelowRoster)
	}

	t.Capacity = capacity
	t.NumSeats = seats
	return nil
}

// Check verifies the seat invariants of t.
func Check(t domain.Trip) error {
	if t.NumSeats < 0 || t.NumSeats > t.Capacity {
		return fmt.Errorf("%w: trip %s has %d free seats of %d", domain.ErrIntegrity, t.ID, t.NumSeats, t.Capacity)
	}
	if t.NumSeats+len(t.Participants) != t.Capacity {
		return fmt.Errorf("%w: trip %s has %d free seats and %d participants but capacity %d",
			domain.ErrIntegrity, t.ID, t.NumSeats, len(t.Participants), t.Capacity)
	}
	return nil
}
