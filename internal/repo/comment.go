package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// CommentRepo defines the persistence operations for trip Comments.
// Comments are append-only: there is no update or delete.
type CommentRepo interface {
	// Create inserts a comment and returns it with id, created_at and the
	// author's display name populated.
	Create(ctx context.Context, c domain.Comment) (domain.Comment, error)

	// GetByID retrieves a comment scoped to the given trip.
	// Returns domain.ErrNotFound if no such comment exists on that trip.
	GetByID(ctx context.Context, tripID, commentID uuid.UUID) (domain.Comment, error)

	// ListByTrip returns every comment on a trip in posting order
	// (created_at, then id), which guarantees parents precede replies.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Comment, error)
}

type pgCommentRepo struct {
	db db
}

// NewCommentRepo constructs a CommentRepo backed by the provided db connection.
func NewCommentRepo(db db) CommentRepo {
	return &pgCommentRepo{db: db}
}

const commentColumns = `
	c.id, c.trip_id, c.author_id,
	COALESCE(TRIM(p.first_name || ' ' || p.last_name), ''),
	c.parent_id, c.text, c.depth, c.created_at`

func (r *pgCommentRepo) Create(ctx context.Context, cm domain.Comment) (domain.Comment, error) {
	const q = `
		WITH c AS (
			INSERT INTO comments (trip_id, author_id, parent_id, text, depth)
			VALUES (@trip_id, @author_id, @parent_id, @text, @depth)
			RETURNING *
		)
		SELECT` + commentColumns + `
		FROM c
		LEFT JOIN user_profiles p ON p.id = c.author_id`

	var parent pgtype.UUID
	if cm.ParentID != nil {
		parent = pgtype.UUID{Bytes: *cm.ParentID, Valid: true}
	}
	args := pgx.NamedArgs{
		"trip_id":   cm.TripID,
		"author_id": optionalUUID(cm.AuthorID),
		"parent_id": parent,
		"text":      cm.Text,
		"depth":     cm.Depth,
	}

	result, err := scanComment(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Comment{}, classify("repo.CommentRepo.Create", err)
	}
	return result, nil
}

func (r *pgCommentRepo) GetByID(ctx context.Context, tripID, commentID uuid.UUID) (domain.Comment, error) {
	const q = `SELECT` + commentColumns + `
		FROM comments c
		LEFT JOIN user_profiles p ON p.id = c.author_id
		WHERE c.id = @id AND c.trip_id = @trip_id`

	result, err := scanComment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": commentID, "trip_id": tripID}))
	if err != nil {
		return domain.Comment{}, classify("repo.CommentRepo.GetByID", err)
	}
	return result, nil
}

func (r *pgCommentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Comment, error) {
	const q = `SELECT` + commentColumns + `
		FROM comments c
		LEFT JOIN user_profiles p ON p.id = c.author_id
		WHERE c.trip_id = @trip_id
		ORDER BY c.created_at, c.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, classify("repo.CommentRepo.ListByTrip", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, classify("repo.CommentRepo.ListByTrip: scan", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("repo.CommentRepo.ListByTrip: rows", err)
	}
	return comments, nil
}

func scanComment(s scanner) (domain.Comment, error) {
	var (
		c        domain.Comment
		id       pgtype.UUID
		tripID   pgtype.UUID
		authorID pgtype.UUID
		parentID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &authorID, &c.AuthorName, &parentID, &c.Text, &c.Depth, &c.CreatedAt)
	if err != nil {
		return domain.Comment{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.TripID = uuid.UUID(tripID.Bytes)
	c.AuthorID = nullableUUID(authorID)
	if parentID.Valid {
		pid := uuid.UUID(parentID.Bytes)
		c.ParentID = &pid
	}
	return c, nil
}
