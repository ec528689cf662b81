package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/repo"
	"github.com/umoc/basecamp/backend/internal/thread"
)

// MaxCommentLength is the longest comment text accepted, in characters.
const MaxCommentLength = 2000

// CommentService posts comments on trips and returns them threaded.
type CommentService struct {
	trips    repo.TripRepo
	comments repo.CommentRepo
	profiles repo.ProfileRepo
	notifier Notifier
	log      *slog.Logger
}

// NewCommentService constructs a CommentService.
func NewCommentService(trips repo.TripRepo, comments repo.CommentRepo, profiles repo.ProfileRepo, notifier Notifier, log *slog.Logger) *CommentService {
	return &CommentService{trips: trips, comments: comments, profiles: profiles, notifier: notifier, log: log}
}

// List returns a trip's comments in display order: each comment followed
// by its replies, siblings oldest first.
// Returns domain.ErrNotFound if the trip does not exist and
// domain.ErrIntegrity if the stored comments do not form a tree.
func (s *CommentService) List(ctx context.Context, tripID uuid.UUID) ([]domain.ThreadedComment, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.CommentService.List: %w", err)
	}
	flat, err := s.comments.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.CommentService.List: %w", err)
	}

	threaded, err := thread.Thread(flat)
	if err != nil {
		if errors.Is(err, domain.ErrIntegrity) {
			s.log.ErrorContext(ctx, "comment thread is corrupt", "trip_id", tripID, "error", err)
		}
		return nil, fmt.Errorf("service.CommentService.List: %w", err)
	}
	return threaded, nil
}

// Post stores a comment by actor on a trip, optionally as a reply to
// parentID, and notifies whoever it answers: the parent's author for a
// reply, the trip leader otherwise. Nobody is notified about their own
// comment.
func (s *CommentService) Post(ctx context.Context, actor domain.Actor, tripID uuid.UUID, text string, parentID *uuid.UUID) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return domain.Comment{}, fmt.Errorf("%w: text must be at most %d characters", domain.ErrValidation, MaxCommentLength)
	}

	if parentID != nil && *parentID == uuid.Nil {
		parentID = nil
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.CommentService.Post: %w", err)
	}
	author, err := s.profiles.GetByID(ctx, actor.ProfileID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.CommentService.Post: author: %w", err)
	}

	c := domain.Comment{TripID: tripID, AuthorID: author.ID, Text: text, ParentID: parentID}
	recipient := trip.LeaderID
	message := fmt.Sprintf("%s %s commented on one of your trips", author.FirstName, author.LastName)
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, tripID, *parentID)
		if err != nil {
			return domain.Comment{}, fmt.Errorf("service.CommentService.Post: parent: %w", err)
		}
		c.Depth = parent.Depth + 1
		recipient = parent.AuthorID
		message = fmt.Sprintf("%s %s replied to your comment", author.FirstName, author.LastName)
	}

	created, err := s.comments.Create(ctx, c)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.CommentService.Post: %w", err)
	}

	if recipient != uuid.Nil && recipient != author.ID {
		s.notifier.Notify(ctx, domain.Notification{
			RecipientID: recipient,
			Message:     message,
			Link:        commentLink(tripID, created.ID),
		})
	}
	return created, nil
}
