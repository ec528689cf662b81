package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/metrics"
	"github.com/umoc/basecamp/backend/internal/repo"
	"github.com/umoc/basecamp/backend/internal/roster"
)

// TripService implements trip management and the roster operations.
// Every roster change runs inside repo.TripRepo.Mutate, so concurrent
// joins on the same trip are serialized by the trip's row lock.
type TripService struct {
	trips    repo.TripRepo
	profiles repo.ProfileRepo
	notifier Notifier
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewTripService constructs a TripService.
func NewTripService(trips repo.TripRepo, profiles repo.ProfileRepo, notifier Notifier, log *slog.Logger) *TripService {
	return &TripService{
		trips:    trips,
		profiles: profiles,
		notifier: notifier,
		log:      log,
		now:      systemClock,
	}
}

// WithClock replaces the clock used to decide whether a trip is over.
func (s *TripService) WithClock(now func() time.Time) *TripService {
	s.now = now
	return s
}

// WithMetrics records roster outcomes on m.
func (s *TripService) WithMetrics(m *metrics.Metrics) *TripService {
	s.metrics = m
	return s
}

// Create validates and persists a new trip with every seat free.
// Only admins may create trips.
func (s *TripService) Create(ctx context.Context, actor domain.Actor, trip domain.Trip) (domain.Trip, error) {
	if err := domain.Authorize(actor, domain.PolicyManageTrips, domain.Subject{}); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	trip = normalizeTrip(trip)
	if trip.Capacity < 1 {
		return domain.Trip{}, fmt.Errorf("%w: capacity must be at least 1", domain.ErrValidation)
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	if err := s.requireLeader(ctx, trip.LeaderID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip.NumSeats = trip.Capacity
	trip.Cancelled = false
	trip.Participants = nil

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip with its roster.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListUpcoming returns trips that have not started yet, soonest first.
func (s *TripService) ListUpcoming(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListUpcoming: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListAll returns one page of every trip, newest first, and the total count.
func (s *TripService) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListAll: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update overwrites a trip's editable fields. A capacity change shifts the
// free seats by the same amount and is refused when it would drop below
// the current roster. Only admins may edit trips.
func (s *TripService) Update(ctx context.Context, actor domain.Actor, in domain.Trip) (domain.Trip, error) {
	if err := domain.Authorize(actor, domain.PolicyManageTrips, domain.Subject{}); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	in = normalizeTrip(in)
	if err := validateTrip(in); err != nil {
		return domain.Trip{}, err
	}
	if err := s.requireLeader(ctx, in.LeaderID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	result, err := s.trips.Mutate(ctx, in.ID, func(t *domain.Trip) error {
		if err := roster.Resize(t, in.Capacity); err != nil {
			return err
		}
		t.Name = in.Name
		t.Description = in.Description
		t.Tag = in.Tag
		t.StartTime = in.StartTime
		t.EndTime = in.EndTime
		t.LeaderID = in.LeaderID
		return roster.Check(*t)
	})
	s.metrics.RosterOp("resize", outcome(err))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip with its roster and comments. Admins only.
func (s *TripService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := domain.Authorize(actor, domain.PolicyManageTrips, domain.Subject{}); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Join signs the actor up for a trip and notifies them once it is stored.
func (s *TripService) Join(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.Mutate(ctx, id, func(t *domain.Trip) error {
		if err := roster.Join(t, actor.ProfileID, s.now()); err != nil {
			return err
		}
		return roster.Check(*t)
	})
	s.metrics.RosterOp("join", outcome(err))
	if err != nil {
		return domain.Trip{}, s.rosterError(ctx, "service.TripService.Join", id, err)
	}

	s.notifier.Notify(ctx, domain.Notification{
		RecipientID: actor.ProfileID,
		Message:     fmt.Sprintf("You joined %s successfully!", result.Name),
		Link:        tripLink(result.ID),
	})
	return result, nil
}

// Leave takes the actor off a trip's roster. The leader can never leave.
func (s *TripService) Leave(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.Mutate(ctx, id, func(t *domain.Trip) error {
		if err := roster.Leave(t, actor.ProfileID, s.now()); err != nil {
			return err
		}
		return roster.Check(*t)
	})
	s.metrics.RosterOp("leave", outcome(err))
	if err != nil {
		return domain.Trip{}, s.rosterError(ctx, "service.TripService.Leave", id, err)
	}
	return result, nil
}

// Cancel cancels a trip and tells every participant. Only an admin or the
// trip's leader may cancel; cancelling twice is refused and notifies nobody.
func (s *TripService) Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.Mutate(ctx, id, func(t *domain.Trip) error {
		if err := roster.Cancel(t, actor, s.now()); err != nil {
			return err
		}
		return roster.Check(*t)
	})
	s.metrics.RosterOp("cancel", outcome(err))
	if err != nil {
		return domain.Trip{}, s.rosterError(ctx, "service.TripService.Cancel", id, err)
	}

	for _, pid := range result.Participants {
		s.notifier.Notify(ctx, domain.Notification{
			RecipientID: pid,
			Message:     fmt.Sprintf("%s was cancelled", result.Name),
			Link:        tripLink(result.ID),
		})
	}
	return result, nil
}

// Report returns the trip's leader and roster with emergency contacts.
// Only the trip's leader or an admin may see it.
func (s *TripService) Report(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.TripReport, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.TripReport{}, fmt.Errorf("service.TripService.Report: %w", err)
	}
	if err := domain.Authorize(actor, domain.PolicyTripReport, domain.Subject{Trip: &trip}); err != nil {
		return domain.TripReport{}, fmt.Errorf("service.TripService.Report: %w", err)
	}

	report := domain.TripReport{Trip: trip}
	if trip.LeaderID != uuid.Nil {
		leader, err := s.profiles.GetByID(ctx, trip.LeaderID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.TripReport{}, fmt.Errorf("service.TripService.Report: leader: %w", err)
		}
		report.Leader = leader
	}
	participants, err := s.profiles.GetMany(ctx, trip.Participants)
	if err != nil {
		return domain.TripReport{}, fmt.Errorf("service.TripService.Report: participants: %w", err)
	}
	report.Participants = participants
	return report, nil
}

// requireLeader checks that leaderID names an existing profile.
func (s *TripService) requireLeader(ctx context.Context, leaderID uuid.UUID) error {
	if leaderID == uuid.Nil {
		return fmt.Errorf("%w: leader_id is required", domain.ErrValidation)
	}
	if _, err := s.profiles.GetByID(ctx, leaderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: leader %s does not exist", domain.ErrValidation, leaderID)
		}
		return err
	}
	return nil
}

// rosterError wraps a failed roster transition and raises integrity
// violations to error level.
func (s *TripService) rosterError(ctx context.Context, op string, tripID uuid.UUID, err error) error {
	if errors.Is(err, domain.ErrIntegrity) {
		s.log.ErrorContext(ctx, "trip roster invariant violated", "trip_id", tripID, "op", op, "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	t.Tag = Slugify(t.Tag)
	return t
}

// validateTrip enforces business rules common to both Create and Update.
func validateTrip(t domain.Trip) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if t.StartTime.IsZero() || t.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", domain.ErrValidation)
	}
	if !t.EndTime.After(t.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", domain.ErrValidation)
	}
	return nil
}
