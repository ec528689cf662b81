package domain

// TripReport is the leader's view of a trip: the roster with emergency
// contact details. Participants are ordered by last name.
type TripReport struct {
	Trip         Trip
	Leader       UserProfile
	Participants []UserProfile
}
