package policy

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// PolicyRepository интерфейс репозитория политики
type PolicyRepository interface {
	Get(ctx context.Context) (*domain.SchedulingPolicy, error)
	Save(ctx context.Context, p *domain.SchedulingPolicy) (*domain.SchedulingPolicy, error)
}

// RuleCapsRepository интерфейс для переноса лимитов политики в правила
type RuleCapsRepository interface {
	ApplyCaps(ctx context.Context, maxPerDay, maxPerWeek int) ([]int, error)
}

// PolicyCache интерфейс кэша политики и правил
type PolicyCache interface {
	GetPolicy(ctx context.Context) (*domain.SchedulingPolicy, error)
	SetPolicy(ctx context.Context, p *domain.SchedulingPolicy) error
	InvalidatePolicy(ctx context.Context) error
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
