package availability

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	GetByDay(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error)
	List(ctx context.Context) ([]*domain.AvailabilityRule, error)
	Upsert(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	CopyWindow(ctx context.Context, sourceDay int, start, end types.TimeOfDay) ([]int, error)
}

// RuleCache интерфейс кэша правил
type RuleCache interface {
	GetRule(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error)
	SetRule(ctx context.Context, rule *domain.AvailabilityRule) error
	InvalidateRules(ctx context.Context, days ...int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
