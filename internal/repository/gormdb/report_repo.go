package gormdb

import (
	"context"
	"time"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/gorm"
)

// reportRepository implements repository.ReportRepository with aggregate
// queries across the ownership chain.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a GORM-backed report repository.
func NewReportRepository(db *gorm.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) EntityCounts(ctx context.Context, owner *uint) (*repository.EntityCounts, error) {
	counts := &repository.EntityCounts{}

	clientQ := r.db.WithContext(ctx).Model(&domain.Client{})
	if owner != nil {
		clientQ = clientQ.Where("user_id = ?", *owner)
	}
	if err := clientQ.Count(&counts.Clients).Error; err != nil {
		return nil, err
	}

	type ownedCount struct {
		model interface{}
		table string
		dest  *int64
	}
	for _, oc := range []ownedCount{
		{&domain.WorkoutPlan{}, "workout_plans", &counts.WorkoutPlans},
		{&domain.DietPlan{}, "diet_plans", &counts.DietPlans},
		{&domain.ProtocolGoal{}, "protocol_goals", &counts.ProtocolGoals},
	} {
		q := r.db.WithContext(ctx).Model(oc.model)
		if owner != nil {
			q = q.Joins("JOIN clients ON clients.id = "+oc.table+".client_id").
				Where("clients.user_id = ?", *owner)
		}
		if err := q.Count(oc.dest).Error; err != nil {
			return nil, err
		}
	}
	return counts, nil
}

func (r *reportRepository) WorkoutLogTrend(ctx context.Context, owner *uint, start, end time.Time) ([]repository.DateCount, error) {
	q := r.db.WithContext(ctx).Model(&domain.WorkoutLog{}).
		Select("date(workout_logs.date) AS date, count(workout_logs.id) AS count")
	if owner != nil {
		q = q.Joins("JOIN clients ON clients.id = workout_logs.client_id").
			Where("clients.user_id = ?", *owner)
	}
	var rows []repository.DateCount
	err := q.Where("date(workout_logs.date) BETWEEN date(?) AND date(?)", start, end).
		Group("date(workout_logs.date)").
		Order("date(workout_logs.date) ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) DietEntryTrend(ctx context.Context, owner *uint, start, end time.Time) ([]repository.DateCount, error) {
	q := r.db.WithContext(ctx).Model(&domain.DietEntry{}).
		Select("date(diet_entries.date) AS date, count(diet_entries.id) AS count")
	if owner != nil {
		q = q.Joins("JOIN diet_plans ON diet_plans.id = diet_entries.plan_id").
			Joins("JOIN clients ON clients.id = diet_plans.client_id").
			Where("clients.user_id = ?", *owner)
	}
	var rows []repository.DateCount
	err := q.Where("date(diet_entries.date) BETWEEN date(?) AND date(?)", start, end).
		Group("date(diet_entries.date)").
		Order("date(diet_entries.date) ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) ClientPlanBreakdown(ctx context.Context, owner *uint) ([]repository.ClientBreakdown, error) {
	q := r.db.WithContext(ctx).Model(&domain.Client{}).
		Select(`clients.id AS client_id, clients.display_name AS display_name,
			(SELECT count(*) FROM workout_plans WHERE workout_plans.client_id = clients.id) AS workout_plans,
			(SELECT count(*) FROM diet_plans WHERE diet_plans.client_id = clients.id) AS diet_plans`)
	if owner != nil {
		q = q.Where("clients.user_id = ?", *owner)
	}
	var rows []repository.ClientBreakdown
	err := q.Order("clients.id").Scan(&rows).Error
	return rows, err
}
