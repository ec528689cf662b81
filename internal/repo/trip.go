package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips and their rosters.
// The service layer depends on this interface, not the Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip with an empty roster and returns the persisted
	// record (with DB-generated id, created_at and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a trip and its participants.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListUpcoming returns trips starting at or after from, soonest first.
	ListUpcoming(ctx context.Context, from time.Time) ([]domain.Trip, error)

	// ListPaged returns one page of all trips, newest start first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Mutate locks the trip row, loads the trip with its roster, applies fn
	// and writes back every mutable field plus the roster diff, all in one
	// transaction. If fn returns an error nothing is written and the error
	// is returned. Concurrent Mutate calls on the same trip are serialized.
	Mutate(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `
	t.id, t.name, t.description, t.tag, t.start_time, t.end_time,
	t.capacity, t.num_seats, t.cancelled, t.leader_id, t.created_at, t.updated_at`

// participantsColumn aggregates the roster in join order. It is only used
// on read paths; Mutate reloads the roster after taking the row lock.
const participantsColumn = `
	ARRAY(
		SELECT tp.profile_id FROM trip_participants tp
		WHERE tp.trip_id = t.id
		ORDER BY tp.joined_at, tp.profile_id
	)`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips AS t (name, description, tag, start_time, end_time, capacity, num_seats, cancelled, leader_id)
		VALUES (@name, @description, @tag, @start_time, @end_time, @capacity, @num_seats, @cancelled, @leader_id)
		RETURNING` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, classify("repo.TripRepo.Create", err)
	}
	result.Participants = []uuid.UUID{}
	return result, nil
}

// GetByID retrieves a trip by primary key together with its roster.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT` + tripColumns + `,` + participantsColumn + `
		FROM trips t
		WHERE t.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTripWithRoster(row)
	if err != nil {
		return domain.Trip{}, classify("repo.TripRepo.GetByID", err)
	}
	return result, nil
}

// ListUpcoming returns trips whose start_time is at or after from, ascending.
func (r *pgTripRepo) ListUpcoming(ctx context.Context, from time.Time) ([]domain.Trip, error) {
	q := `SELECT` + tripColumns + `,` + participantsColumn + `
		FROM trips t
		WHERE t.start_time >= @from
		ORDER BY t.start_time, t.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"from": from})
	if err != nil {
		return nil, classify("repo.TripRepo.ListUpcoming", err)
	}
	return collectTrips("repo.TripRepo.ListUpcoming", rows)
}

// ListPaged returns one page of trips ordered by start_time descending.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, classify("repo.TripRepo.ListPaged: count", err)
	}

	q := `SELECT` + tripColumns + `,` + participantsColumn + `
		FROM trips t
		ORDER BY t.start_time DESC, t.id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, classify("repo.TripRepo.ListPaged", err)
	}
	trips, err := collectTrips("repo.TripRepo.ListPaged", rows)
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// Mutate runs fn against the locked trip inside a transaction.
func (r *pgTripRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error) {
	const op = "repo.TripRepo.Mutate"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trip{}, classify(op+": begin", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	lockQ := `SELECT` + tripColumns + `
		FROM trips t
		WHERE t.id = @id
		FOR UPDATE`
	trip, err := scanTrip(tx.QueryRow(ctx, lockQ, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, classify(op+": lock", err)
	}

	// Read the roster in a new statement so it sees every commit made by
	// whoever held the lock before us.
	before, err := loadParticipants(ctx, tx, id)
	if err != nil {
		return domain.Trip{}, classify(op+": participants", err)
	}
	trip.Participants = append([]uuid.UUID(nil), before...)

	if err := fn(&trip); err != nil {
		return domain.Trip{}, classify(op, err)
	}

	const updateQ = `
		UPDATE trips AS t
		SET name        = @name,
		    description = @description,
		    tag         = @tag,
		    start_time  = @start_time,
		    end_time    = @end_time,
		    capacity    = @capacity,
		    num_seats   = @num_seats,
		    cancelled   = @cancelled,
		    leader_id   = @leader_id,
		    updated_at  = now()
		WHERE t.id = @id
		RETURNING` + tripColumns

	args := tripArgs(trip)
	args["id"] = id
	updated, err := scanTrip(tx.QueryRow(ctx, updateQ, args))
	if err != nil {
		return domain.Trip{}, classify(op+": update", err)
	}

	added, removed := diffRoster(before, trip.Participants)
	if len(removed) > 0 {
		const q = `DELETE FROM trip_participants WHERE trip_id = @trip_id AND profile_id = ANY(@ids)`
		if _, err := tx.Exec(ctx, q, pgx.NamedArgs{"trip_id": id, "ids": pgUUIDs(removed)}); err != nil {
			return domain.Trip{}, classify(op+": remove participants", err)
		}
	}
	for _, pid := range added {
		const q = `
			INSERT INTO trip_participants (trip_id, profile_id, joined_at)
			VALUES (@trip_id, @profile_id, clock_timestamp())`
		if _, err := tx.Exec(ctx, q, pgx.NamedArgs{"trip_id": id, "profile_id": pid}); err != nil {
			return domain.Trip{}, classify(op+": add participant", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Trip{}, classify(op+": commit", err)
	}

	updated.Participants = trip.Participants
	return updated, nil
}

// Delete removes a trip by primary key. Roster rows and comments cascade.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return classify("repo.TripRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":        t.Name,
		"description": t.Description,
		"tag":         t.Tag,
		"start_time":  t.StartTime,
		"end_time":    t.EndTime,
		"capacity":    t.Capacity,
		"num_seats":   t.NumSeats,
		"cancelled":   t.Cancelled,
		"leader_id":   optionalUUID(t.LeaderID),
	}
}

func loadParticipants(ctx context.Context, q db, tripID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT profile_id FROM trip_participants
		WHERE trip_id = @trip_id
		ORDER BY joined_at, profile_id`, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	return ids, rows.Err()
}

// diffRoster returns the ids present only in after (added) and only in before (removed).
func diffRoster(before, after []uuid.UUID) (added, removed []uuid.UUID) {
	was := make(map[uuid.UUID]bool, len(before))
	for _, id := range before {
		was[id] = true
	}
	is := make(map[uuid.UUID]bool, len(after))
	for _, id := range after {
		is[id] = true
		if !was[id] {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if !is[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func collectTrips(op string, rows pgx.Rows) ([]domain.Trip, error) {
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTripWithRoster(rows)
		if err != nil {
			return nil, classify(op+": scan", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op+": rows", err)
	}
	return trips, nil
}

// scanTrip maps the tripColumns of a row into a domain.Trip.
// Participants are left nil.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		id       pgtype.UUID
		leaderID pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &t.Description, &t.Tag, &t.StartTime, &t.EndTime,
		&t.Capacity, &t.NumSeats, &t.Cancelled, &leaderID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.LeaderID = nullableUUID(leaderID)
	return t, nil
}

// scanTripWithRoster maps tripColumns followed by participantsColumn.
func scanTripWithRoster(s scanner) (domain.Trip, error) {
	var (
		t            domain.Trip
		id           pgtype.UUID
		leaderID     pgtype.UUID
		participants []pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &t.Description, &t.Tag, &t.StartTime, &t.EndTime,
		&t.Capacity, &t.NumSeats, &t.Cancelled, &leaderID, &t.CreatedAt, &t.UpdatedAt, &participants)
	if err != nil {
		return domain.Trip{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.LeaderID = nullableUUID(leaderID)
	t.Participants = make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		t.Participants = append(t.Participants, uuid.UUID(p.Bytes))
	}
	return t, nil
}
