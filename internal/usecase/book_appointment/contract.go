package book_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	LockDate(ctx context.Context, date types.Date) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetActiveByDate(ctx context.Context, date types.Date) ([]*domain.Appointment, error)
	GetActiveByDateRange(ctx context.Context, from, to types.Date) ([]*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// RuleProvider интерфейс получения правила доступности (nil, nil если правило не задано)
type RuleProvider interface {
	GetRule(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error)
}

// PolicyProvider интерфейс получения политики расписания
type PolicyProvider interface {
	Get(ctx context.Context) (*domain.SchedulingPolicy, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс издателя событий записей
type EventPublisher interface {
	AppointmentBooked(ctx context.Context, appt *domain.Appointment, actorID int64) error
	AppointmentRescheduled(ctx context.Context, appt, previous *domain.Appointment, actorID int64) error
}

// MetricsRecorder интерфейс записи метрик
type MetricsRecorder interface {
	ObserveValidation(reason string)
	ObserveWriteConflict()
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
