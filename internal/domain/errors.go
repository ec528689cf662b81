package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// trip, comment, notification or profile does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, end time before start time).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNotPermitted is matched by every *PermissionError. It covers both
// roster preconditions (trip full, already joined) and authorization.
// Handlers should map this to HTTP 403.
var ErrNotPermitted = errors.New("not permitted")

// ErrIntegrity signals stored data that breaks a structural invariant,
// such as a comment whose parent is missing. It is never recovered from.
var ErrIntegrity = errors.New("integrity violation")

// ErrStore wraps driver failures from the persistence layer. The failed
// operation made no change and the caller may retry it as a whole.
var ErrStore = errors.New("store unavailable")

// Reason identifies which precondition a roster or authorization check failed.
type Reason string

const (
	ReasonAlreadyJoined       Reason = "already_joined"
	ReasonTripOver            Reason = "trip_over"
	ReasonTripFull            Reason = "trip_full"
	ReasonTripCancelled       Reason = "trip_cancelled"
	ReasonNotParticipant      Reason = "not_participant"
	ReasonIsLeader            Reason = "is_leader"
	ReasonForbidden           Reason = "forbidden"
	ReasonCapacityBelowRoster Reason = "capacity_below_roster"
	ReasonProfileIncomplete   Reason = "profile_incomplete"
)

var reasonMessages = map[Reason]string{
	ReasonAlreadyJoined:       "you are already signed up for this trip",
	ReasonTripOver:            "this trip is over",
	ReasonTripFull:            "this trip is full",
	ReasonTripCancelled:       "this trip has been cancelled",
	ReasonNotParticipant:      "you are not signed up for this trip",
	ReasonIsLeader:            "the trip leader cannot leave; cancel the trip or have an admin reassign the leader",
	ReasonForbidden:           "you do not have permission to do that",
	ReasonCapacityBelowRoster: "capacity cannot be lower than the number of participants",
	ReasonProfileIncomplete:   "you must first fill out your profile page",
}

// Message returns the user-facing text for r.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return string(r)
}

// PermissionError is a NotPermitted outcome carrying the failed precondition.
type PermissionError struct {
	Reason Reason
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotPermitted, e.Reason)
}

// Is makes errors.Is(err, ErrNotPermitted) true for every PermissionError.
func (e *PermissionError) Is(target error) bool {
	return target == ErrNotPermitted
}

// NotPermitted returns a *PermissionError for r.
func NotPermitted(r Reason) error {
	return &PermissionError{Reason: r}
}

// ReasonOf extracts the Reason from a wrapped PermissionError.
func ReasonOf(err error) (Reason, bool) {
	var pe *PermissionError
	if errors.As(err, &pe) {
		return pe.Reason, true
	}
	return "", false
}
