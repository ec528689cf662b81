package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/repo"
)

// NotificationService lists and dismisses a member's notifications.
type NotificationService struct {
	notifications repo.NotificationRepo
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications repo.NotificationRepo) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListActive returns the actor's undismissed notifications, newest first.
func (s *NotificationService) ListActive(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	out, err := s.notifications.ListActive(ctx, actor.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("service.NotificationService.ListActive: %w", err)
	}
	if out == nil {
		return []domain.Notification{}, nil
	}
	return out, nil
}

// Dismiss hides a notification. Only its recipient may dismiss it.
func (s *NotificationService) Dismiss(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.NotificationService.Dismiss: %w", err)
	}
	if err := domain.Authorize(actor, domain.PolicyOwnNotification, domain.Subject{OwnerID: n.RecipientID}); err != nil {
		return fmt.Errorf("service.NotificationService.Dismiss: %w", err)
	}
	if err := s.notifications.Dismiss(ctx, id); err != nil {
		return fmt.Errorf("service.NotificationService.Dismiss: %w", err)
	}
	return nil
}
