package service

import (
	"context"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"
)

const defaultTrendDays = 30

// ReportService exposes aggregate views over the caller's visible data.
// Privileged callers see totals across all users.
type ReportService interface {
	Counts(ctx context.Context, caller uint, roles domain.RoleSet) (*repository.EntityCounts, error)
	// WorkoutTrend returns per-day workout log counts for the last `days`
	// days, oldest first. days <= 0 falls back to the default window.
	WorkoutTrend(ctx context.Context, caller uint, roles domain.RoleSet, days int) ([]repository.DateCount, error)
	DietTrend(ctx context.Context, caller uint, roles domain.RoleSet, days int) ([]repository.DateCount, error)
	ClientBreakdown(ctx context.Context, caller uint, roles domain.RoleSet) ([]repository.ClientBreakdown, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new instance of reportService.
func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) Counts(ctx context.Context, caller uint, roles domain.RoleSet) (*repository.EntityCounts, error) {
	return s.reportRepo.EntityCounts(ctx, OwnerFilter(caller, roles))
}

func (s *reportService) WorkoutTrend(ctx context.Context, caller uint, roles domain.RoleSet, days int) ([]repository.DateCount, error) {
	start, end := trendWindow(days)
	return s.reportRepo.WorkoutLogTrend(ctx, OwnerFilter(caller, roles), start, end)
}

func (s *reportService) DietTrend(ctx context.Context, caller uint, roles domain.RoleSet, days int) ([]repository.DateCount, error) {
	start, end := trendWindow(days)
	return s.reportRepo.DietEntryTrend(ctx, OwnerFilter(caller, roles), start, end)
}

func (s *reportService) ClientBreakdown(ctx context.Context, caller uint, roles domain.RoleSet) ([]repository.ClientBreakdown, error) {
	return s.reportRepo.ClientPlanBreakdown(ctx, OwnerFilter(caller, roles))
}

func trendWindow(days int) (start, end time.Time) {
	if days <= 0 {
		days = defaultTrendDays
	}
	end = time.Now()
	start = end.AddDate(0, 0, -days)
	return start, end
}
