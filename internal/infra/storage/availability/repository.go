package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const tableRules = "availability_rules"

var ruleColumns = []string{
	"day_of_week",
	"start_time",
	"end_time",
	"is_active",
	"buffer_before_minutes",
	"buffer_after_minutes",
	"max_meetings_per_day",
	"max_meetings_per_week",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил доступности по дням недели
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDay получает правило дня недели.
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByDay(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(ruleColumns...).
		From(tableRules).
		Where(squirrel.Eq{"day_of_week": dayOfWeek})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDay - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDay - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// List получает все заданные правила, упорядоченные по дню недели
func (r *Repository) List(ctx context.Context) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From(tableRules).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.AvailabilityRule, 0, 7)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// Upsert создает правило дня или полностью перезаписывает существующее
func (r *Repository) Upsert(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableRules).
		Columns(
			"day_of_week",
			"start_time",
			"end_time",
			"is_active",
			"buffer_before_minutes",
			"buffer_after_minutes",
			"max_meetings_per_day",
			"max_meetings_per_week",
		).
		Values(
			rule.DayOfWeek,
			rule.StartTime,
			rule.EndTime,
			rule.IsActive,
			rule.BufferBefore,
			rule.BufferAfter,
			rule.MaxMeetingsPerDay,
			rule.MaxMeetingsPerWeek,
		).
		Suffix(`ON CONFLICT (day_of_week) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_active = EXCLUDED.is_active,
			buffer_before_minutes = EXCLUDED.buffer_before_minutes,
			buffer_after_minutes = EXCLUDED.buffer_after_minutes,
			max_meetings_per_day = EXCLUDED.max_meetings_per_day,
			max_meetings_per_week = EXCLUDED.max_meetings_per_week,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// CopyWindow записывает окно start-end во все активные дни, кроме sourceDay.
// Буферы и лимиты не меняются. Возвращает список обновленных дней
func (r *Repository) CopyWindow(ctx context.Context, sourceDay int, start, end types.TimeOfDay) ([]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableRules).
		Set("start_time", start).
		Set("end_time", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.NotEq{"day_of_week": sourceDay}).
		Suffix("RETURNING day_of_week").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CopyWindow - build update query: %v", ErrBuildQuery, err)
	}

	return r.queryDays(ctx, executor, "CopyWindow", query, args)
}

// ApplyCaps записывает лимиты встреч во все активные правила. Возвращает список обновленных дней
func (r *Repository) ApplyCaps(ctx context.Context, maxPerDay, maxPerWeek int) ([]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableRules).
		Set("max_meetings_per_day", maxPerDay).
		Set("max_meetings_per_week", maxPerWeek).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"is_active": true}).
		Suffix("RETURNING day_of_week").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ApplyCaps - build update query: %v", ErrBuildQuery, err)
	}

	return r.queryDays(ctx, executor, "ApplyCaps", query, args)
}

func (r *Repository) queryDays(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]int, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	days := make([]int, 0, 7)
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("%w: %s - scan day_of_week: %v", ErrScanRow, op, err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return days, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.AvailabilityRule, error) {
	var rule domain.AvailabilityRule
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&rule.DayOfWeek,
		&rule.StartTime,
		&rule.EndTime,
		&rule.IsActive,
		&rule.BufferBefore,
		&rule.BufferAfter,
		&rule.MaxMeetingsPerDay,
		&rule.MaxMeetingsPerWeek,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}
