package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminLevel is a profile's permission level.
type AdminLevel string

const (
	LevelAdmin  AdminLevel = "admin"
	LevelLeader AdminLevel = "leader"
	LevelUser   AdminLevel = "user"
)

// Valid reports whether l is one of the known levels.
func (l AdminLevel) Valid() bool {
	switch l {
	case LevelAdmin, LevelLeader, LevelUser:
		return true
	}
	return false
}

// Title is the display name used in notifications ("Admin", "Leader", "User").
func (l AdminLevel) Title() string {
	switch l {
	case LevelAdmin:
		return "Admin"
	case LevelLeader:
		return "Leader"
	default:
		return "User"
	}
}

// UserProfile is a club member. Emergency contact fields are only shown to
// trip leaders and admins through a TripReport. CanJoinTrip is set once the
// member has signed the liability waiver.
type UserProfile struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	AdminLevel   AdminLevel
	DateOfBirth  *time.Time
	Phone        string
	ContactName  string
	ContactPhone string
	CanJoinTrip  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name.
func (p UserProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// ReadyForWaiver reports whether the details the waiver relies on are all
// filled in: date of birth, phone and an emergency contact with a phone.
func (p UserProfile) ReadyForWaiver() bool {
	return p.DateOfBirth != nil && p.Phone != "" && p.ContactName != "" && p.ContactPhone != ""
}

// ClubStats summarises the membership for the landing page.
type ClubStats struct {
	Profiles int64
	Trips    int64
	Admins   int64
}
