package service

import (
	"context"
	"fmt"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/repo"
)

// StatsService reports membership totals for the landing page.
type StatsService struct {
	stats repo.StatsRepo
}

// NewStatsService constructs a StatsService.
func NewStatsService(stats repo.StatsRepo) *StatsService {
	return &StatsService{stats: stats}
}

// Get returns the current totals.
func (s *StatsService) Get(ctx context.Context) (domain.ClubStats, error) {
	st, err := s.stats.Get(ctx)
	if err != nil {
		return domain.ClubStats{}, fmt.Errorf("service.StatsService.Get: %w", err)
	}
	return st, nil
}
