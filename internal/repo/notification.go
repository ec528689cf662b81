package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// NotificationRepo defines the persistence operations for Notifications.
// Notifications are never deleted; dismissing one only flips its flag.
type NotificationRepo interface {
	// Create inserts a notification and returns the persisted record.
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// GetByID returns domain.ErrNotFound if no notification with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error)

	// ListActive returns the recipient's undismissed notifications, newest first.
	ListActive(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error)

	// Dismiss marks a notification dismissed. Dismissing twice is not an error.
	// Returns domain.ErrNotFound if no notification with that ID exists.
	Dismiss(ctx context.Context, id uuid.UUID) error
}

type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

const notificationColumns = `id, recipient_id, message, link, dismissed, created_at`

func (r *pgNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	const q = `
		INSERT INTO notifications (recipient_id, message, link)
		VALUES (@recipient_id, @message, @link)
		RETURNING ` + notificationColumns

	args := pgx.NamedArgs{
		"recipient_id": n.RecipientID,
		"message":      n.Message,
		"link":         n.Link,
	}
	result, err := scanNotification(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Notification{}, classify("repo.NotificationRepo.Create", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	const q = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = @id`

	result, err := scanNotification(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Notification{}, classify("repo.NotificationRepo.GetByID", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) ListActive(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error) {
	const q = `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = @recipient_id AND NOT dismissed
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"recipient_id": recipientID})
	if err != nil {
		return nil, classify("repo.NotificationRepo.ListActive", err)
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, classify("repo.NotificationRepo.ListActive: scan", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("repo.NotificationRepo.ListActive: rows", err)
	}
	return out, nil
}

func (r *pgNotificationRepo) Dismiss(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE notifications SET dismissed = true WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return classify("repo.NotificationRepo.Dismiss", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NotificationRepo.Dismiss: %w", domain.ErrNotFound)
	}
	return nil
}

func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n           domain.Notification
		id          pgtype.UUID
		recipientID pgtype.UUID
	)
	if err := s.Scan(&id, &recipientID, &n.Message, &n.Link, &n.Dismissed, &n.CreatedAt); err != nil {
		return domain.Notification{}, err
	}
	n.ID = uuid.UUID(id.Bytes)
	n.RecipientID = nullableUUID(recipientID)
	return n, nil
}
