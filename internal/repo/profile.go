package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// ProfileRepo defines the persistence operations for UserProfiles.
type ProfileRepo interface {
	// Create inserts a new profile. A duplicate email is a domain.ErrValidation.
	Create(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error)

	// GetByID returns domain.ErrNotFound if no profile with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)

	// GetMany returns the profiles for ids that exist, ordered by last name.
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.UserProfile, error)

	// List returns every profile ordered by last name, then first name.
	List(ctx context.Context) ([]domain.UserProfile, error)

	// Update overwrites the name, email and contact fields of a profile.
	// The admin level is left untouched.
	Update(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error)

	// SetAdminLevel changes a profile's permission level.
	SetAdminLevel(ctx context.Context, id uuid.UUID, level domain.AdminLevel) (domain.UserProfile, error)

	// SetCanJoinTrip records that the member signed the waiver.
	SetCanJoinTrip(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)
}

type pgProfileRepo struct {
	db db
}

// NewProfileRepo constructs a ProfileRepo backed by the provided db connection.
func NewProfileRepo(db db) ProfileRepo {
	return &pgProfileRepo{db: db}
}

const profileColumns = `
	id, first_name, last_name, email, admin_level, date_of_birth,
	phone, contact_name, contact_phone, can_join_trip, created_at, updated_at`

func (r *pgProfileRepo) Create(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	const q = `
		INSERT INTO user_profiles (first_name, last_name, email, admin_level, date_of_birth, phone, contact_name, contact_phone)
		VALUES (@first_name, @last_name, @email, @admin_level, @date_of_birth, @phone, @contact_name, @contact_phone)
		RETURNING` + profileColumns

	if p.AdminLevel == "" {
		p.AdminLevel = domain.LevelUser
	}
	result, err := scanProfile(r.db.QueryRow(ctx, q, profileArgs(p)))
	if err != nil {
		return domain.UserProfile{}, classify("repo.ProfileRepo.Create", err)
	}
	return result, nil
}

func (r *pgProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	const q = `SELECT` + profileColumns + ` FROM user_profiles WHERE id = @id`

	result, err := scanProfile(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.UserProfile{}, classify("repo.ProfileRepo.GetByID", err)
	}
	return result, nil
}

func (r *pgProfileRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.UserProfile, error) {
	if len(ids) == 0 {
		return []domain.UserProfile{}, nil
	}
	const q = `SELECT` + profileColumns + `
		FROM user_profiles
		WHERE id = ANY(@ids)
		ORDER BY last_name, first_name, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": pgUUIDs(ids)})
	if err != nil {
		return nil, classify("repo.ProfileRepo.GetMany", err)
	}
	return collectProfiles("repo.ProfileRepo.GetMany", rows)
}

func (r *pgProfileRepo) List(ctx context.Context) ([]domain.UserProfile, error) {
	const q = `SELECT` + profileColumns + `
		FROM user_profiles
		ORDER BY last_name, first_name, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, classify("repo.ProfileRepo.List", err)
	}
	return collectProfiles("repo.ProfileRepo.List", rows)
}

func (r *pgProfileRepo) Update(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	const q = `
		UPDATE user_profiles
		SET first_name    = @first_name,
		    last_name     = @last_name,
		    email         = @email,
		    date_of_birth = @date_of_birth,
		    phone         = @phone,
		    contact_name  = @contact_name,
		    contact_phone = @contact_phone,
		    updated_at    = now()
		WHERE id = @id
		RETURNING` + profileColumns

	args := profileArgs(p)
	args["id"] = p.ID
	result, err := scanProfile(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.UserProfile{}, classify("repo.ProfileRepo.Update", err)
	}
	return result, nil
}

func (r *pgProfileRepo) SetAdminLevel(ctx context.Context, id uuid.UUID, level domain.AdminLevel) (domain.UserProfile, error) {
	const q = `
		UPDATE user_profiles
		SET admin_level = @level, updated_at = now()
		WHERE id = @id
		RETURNING` + profileColumns

	result, err := scanProfile(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "level": string(level)}))
	if err != nil {
		return domain.UserProfile{}, classify("repo.ProfileRepo.SetAdminLevel", err)
	}
	return result, nil
}

func (r *pgProfileRepo) SetCanJoinTrip(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	const q = `
		UPDATE user_profiles
		SET can_join_trip = true, updated_at = now()
		WHERE id = @id
		RETURNING` + profileColumns

	result, err := scanProfile(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.UserProfile{}, classify("repo.ProfileRepo.SetCanJoinTrip", err)
	}
	return result, nil
}

func profileArgs(p domain.UserProfile) pgx.NamedArgs {
	return pgx.NamedArgs{
		"first_name":    p.FirstName,
		"last_name":     p.LastName,
		"email":         p.Email,
		"admin_level":   string(p.AdminLevel),
		"date_of_birth": p.DateOfBirth, // nil becomes NULL
		"phone":         p.Phone,
		"contact_name":  p.ContactName,
		"contact_phone": p.ContactPhone,
	}
}

func collectProfiles(op string, rows pgx.Rows) ([]domain.UserProfile, error) {
	defer rows.Close()

	profiles := []domain.UserProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, classify(op+": scan", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op+": rows", err)
	}
	return profiles, nil
}

func scanProfile(s scanner) (domain.UserProfile, error) {
	var (
		p     domain.UserProfile
		id    pgtype.UUID
		level string
		dob   pgtype.Date
	)
	err := s.Scan(&id, &p.FirstName, &p.LastName, &p.Email, &level, &dob,
		&p.Phone, &p.ContactName, &p.ContactPhone, &p.CanJoinTrip, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.UserProfile{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.AdminLevel = domain.AdminLevel(level)
	if dob.Valid {
		d := dob.Time
		p.DateOfBirth = &d
	}
	return p, nil
}
