package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	tablePolicy = "scheduling_policy"

	// singletonID политика хранится одной строкой
	singletonID = 1
)

// Repository репозиторий глобальной политики расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политики
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает сохраненную политику
func (r *Repository) Get(ctx context.Context) (*domain.SchedulingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"min_notice_hours",
		"max_days_in_future",
		"lunch_break_enabled",
		"lunch_break_start",
		"lunch_break_end",
		"week_view_start_time",
		"week_view_end_time",
		"global_timezone",
		"max_meetings_per_day",
		"max_meetings_per_week",
		"updated_at",
	).
		From(tablePolicy).
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.SchedulingPolicy
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.MinNoticeHours,
		&p.MaxDaysInFuture,
		&p.LunchBreakEnabled,
		&p.LunchBreakStart,
		&p.LunchBreakEnd,
		&p.WeekViewStartTime,
		&p.WeekViewEndTime,
		&p.GlobalTimezone,
		&p.MaxMeetingsPerDay,
		&p.MaxMeetingsPerWeek,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan policy: %v", ErrScanRow, err)
	}

	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// Save сохраняет политику (вставка или перезапись единственной строки)
func (r *Repository) Save(ctx context.Context, p *domain.SchedulingPolicy) (*domain.SchedulingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tablePolicy).
		Columns(
			"id",
			"min_notice_hours",
			"max_days_in_future",
			"lunch_break_enabled",
			"lunch_break_start",
			"lunch_break_end",
			"week_view_start_time",
			"week_view_end_time",
			"global_timezone",
			"max_meetings_per_day",
			"max_meetings_per_week",
		).
		Values(
			singletonID,
			p.MinNoticeHours,
			p.MaxDaysInFuture,
			p.LunchBreakEnabled,
			p.LunchBreakStart,
			p.LunchBreakEnd,
			p.WeekViewStartTime,
			p.WeekViewEndTime,
			p.GlobalTimezone,
			p.MaxMeetingsPerDay,
			p.MaxMeetingsPerWeek,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			min_notice_hours = EXCLUDED.min_notice_hours,
			max_days_in_future = EXCLUDED.max_days_in_future,
			lunch_break_enabled = EXCLUDED.lunch_break_enabled,
			lunch_break_start = EXCLUDED.lunch_break_start,
			lunch_break_end = EXCLUDED.lunch_break_end,
			week_view_start_time = EXCLUDED.week_view_start_time,
			week_view_end_time = EXCLUDED.week_view_end_time,
			global_timezone = EXCLUDED.global_timezone,
			max_meetings_per_day = EXCLUDED.max_meetings_per_day,
			max_meetings_per_week = EXCLUDED.max_meetings_per_week,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Save - execute insert: %v", ErrExecQuery, err)
	}

	p.UpdatedAt = updatedAt.Time

	return p, nil
}
