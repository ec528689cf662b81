package repo

import (
	"context"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// StatsRepo reads aggregate counts for the landing page.
type StatsRepo interface {
	Get(ctx context.Context) (domain.ClubStats, error)
}

type pgStatsRepo struct {
	db db
}

// NewStatsRepo constructs a StatsRepo backed by the provided db connection.
func NewStatsRepo(db db) StatsRepo {
	return &pgStatsRepo{db: db}
}

func (r *pgStatsRepo) Get(ctx context.Context) (domain.ClubStats, error) {
	const q = `
		SELECT
			(SELECT count(*) FROM user_profiles),
			(SELECT count(*) FROM trips),
			(SELECT count(*) FROM user_profiles WHERE admin_level = 'admin')`

	var s domain.ClubStats
	if err := r.db.QueryRow(ctx, q).Scan(&s.Profiles, &s.Trips, &s.Admins); err != nil {
		return domain.ClubStats{}, classify("repo.StatsRepo.Get", err)
	}
	return s, nil
}
