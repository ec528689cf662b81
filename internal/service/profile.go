package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/repo"
)

// ProfileService manages member profiles and permission levels.
type ProfileService struct {
	profiles repo.ProfileRepo
	notifier Notifier
	log      *slog.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(profiles repo.ProfileRepo, notifier Notifier, log *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, notifier: notifier, log: log}
}

// Register creates a profile at the user level and greets the new member
// with a notification pointing at their profile page.
func (s *ProfileService) Register(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	p = normalizeProfile(p)
	if err := validateProfile(p); err != nil {
		return domain.UserProfile{}, err
	}
	p.AdminLevel = domain.LevelUser

	created, err := s.profiles.Create(ctx, p)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("service.ProfileService.Register: %w", err)
	}
	s.log.InfoContext(ctx, "profile registered", "profile_id", created.ID)

	s.notifier.Notify(ctx, domain.Notification{
		RecipientID: created.ID,
		Message:     "Welcome to the club! Click here to fill out your profile",
		Link:        profileLink,
	})
	return created, nil
}

// Get returns a profile by ID.
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("service.ProfileService.Get: %w", err)
	}
	return p, nil
}

// UpdateOwn overwrites the actor's own name, email and contact details.
// The admin level cannot be changed this way.
func (s *ProfileService) UpdateOwn(ctx context.Context, actor domain.Actor, p domain.UserProfile) (domain.UserProfile, error) {
	p = normalizeProfile(p)
	if err := validateProfile(p); err != nil {
		return domain.UserProfile{}, err
	}
	p.ID = actor.ProfileID

	updated, err := s.profiles.Update(ctx, p)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("service.ProfileService.UpdateOwn: %w", err)
	}
	return updated, nil
}

// List returns every profile ordered by last name. Admins only.
func (s *ProfileService) List(ctx context.Context, actor domain.Actor) ([]domain.UserProfile, error) {
	if err := domain.Authorize(actor, domain.PolicyManageProfiles, domain.Subject{}); err != nil {
		return nil, fmt.Errorf("service.ProfileService.List: %w", err)
	}
	out, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ProfileService.List: %w", err)
	}
	if out == nil {
		return []domain.UserProfile{}, nil
	}
	return out, nil
}

// SetAdminLevel changes a member's permission level and tells them. Admins only.
func (s *ProfileService) SetAdminLevel(ctx context.Context, actor domain.Actor, id uuid.UUID, level domain.AdminLevel) (domain.UserProfile, error) {
	if err := domain.Authorize(actor, domain.PolicyManageProfiles, domain.Subject{}); err != nil {
		return domain.UserProfile{}, fmt.Errorf("service.ProfileService.SetAdminLevel: %w", err)
	}
	if !level.Valid() {
		return domain.UserProfile{}, fmt.Errorf("%w: admin_level must be admin, leader or user", domain.ErrValidation)
	}

	updated, err := s.profiles.SetAdminLevel(ctx, id, level)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("service.ProfileService.SetAdminLevel: %w", err)
	}
	s.log.InfoContext(ctx, "admin level changed",
		"profile_id", id,
		"admin_level", level,
		"by", actor.ProfileID,
	)

	s.notifier.Notify(ctx, domain.Notification{
		RecipientID: updated.ID,
		Message:     "Your admin level was set to " + updated.AdminLevel.Title(),
	})
	return updated, nil
}

// SignWaiver records that the actor accepted the liability waiver, which
// lets them join trips. The waiver is refused with profile_incomplete until
// the date of birth, phone and emergency contact are filled in, and the
// signature must match the member's name.
func (s *ProfileService) SignWaiver(ctx context.Context, actor domain.Actor, signature string) (domain.UserProfile, error) {
	p, err := s.profiles.GetByID(ctx, actor.ProfileID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("service.ProfileService.SignWaiver: %w", err)
	}
	if !p.ReadyForWaiver() {
		return domain.UserProfile{}, fmt.Errorf("service.ProfileService.SignWaiver: %w", domain.NotPermitted(domain.ReasonProfileIncomplete))
	}
	if !strings.EqualFold(strings.Join(strings.Fields(signature), " "), p.FullName()) {
		return domain.UserProfile{}, fmt.Errorf("%w: signature must match your name as it appears on your profile", domain.ErrValidation)
	}
	if p.CanJoinTrip {
		return p, nil
	}

	signed, err := s.profiles.SetCanJoinTrip(ctx, p.ID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("service.ProfileService.SignWaiver: %w", err)
	}
	s.log.InfoContext(ctx, "waiver signed", "profile_id", signed.ID)
	return signed, nil
}

// ResolveActor loads the caller's current permission level. The level is
// read on every request so that a demotion takes effect immediately.
func (s *ProfileService) ResolveActor(ctx context.Context, profileID uuid.UUID) (domain.Actor, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("service.ProfileService.ResolveActor: %w", err)
	}
	return domain.Actor{ProfileID: p.ID, Level: p.AdminLevel}, nil
}

func normalizeProfile(p domain.UserProfile) domain.UserProfile {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.ContactName = strings.TrimSpace(p.ContactName)
	p.ContactPhone = strings.TrimSpace(p.ContactPhone)
	return p
}

func validateProfile(p domain.UserProfile) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	}
	return nil
}
