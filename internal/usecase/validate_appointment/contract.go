package validate_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RuleProvider интерфейс получения правила доступности (nil, nil если правило не задано)
type RuleProvider interface {
	GetRule(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error)
}

// PolicyProvider интерфейс получения политики расписания
type PolicyProvider interface {
	Get(ctx context.Context) (*domain.SchedulingPolicy, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetActiveByDateRange(ctx context.Context, from, to types.Date) ([]*domain.Appointment, error)
}

// MetricsRecorder интерфейс записи метрик решений
type MetricsRecorder interface {
	ObserveValidation(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
