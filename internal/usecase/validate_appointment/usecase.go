package validate_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/engine"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// decisionAccepted метка метрики для успешной проверки
const decisionAccepted = "OK"

// UseCase use case проверки записи по правилам расписания без сохранения
type UseCase struct {
	ruleProvider   RuleProvider
	policyProvider PolicyProvider
	apptRepo       AppointmentRepository
	metrics        MetricsRecorder
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ruleProvider RuleProvider,
	policyProvider PolicyProvider,
	apptRepo AppointmentRepository,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		ruleProvider:   ruleProvider,
		policyProvider: policyProvider,
		apptRepo:       apptRepo,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute загружает правило, политику и записи недели и проверяет кандидата.
// Отказ по правилам расписания возвращается в Response, а не ошибкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ValidateAppointment: date=%s, time=%s, duration=%d, exclude=%d",
		req.Date, req.StartTime, req.DurationMinutes, ptr.Value(req.ExcludeID))

	candidate := engine.Candidate{
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		ExcludeID:       req.ExcludeID,
	}

	// 1. Валидация входных данных
	if err := engine.ValidateInput(candidate); err != nil {
		uc.logger.Warn("ValidateAppointment: validation failed: %v", err)
		uc.metrics.ObserveValidation(engine.CodeInvalidInput)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Собираем снимок данных для проверки
	snapshot, err := uc.loadSnapshot(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	// 3. Проверка
	result, err := engine.Validate(candidate, *snapshot)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			uc.metrics.ObserveValidation(engine.CodeInvalidInput)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("ValidateAppointment: engine error: %v", err)
		return nil, fmt.Errorf("%w: validate: %v", ErrInternal, err)
	}

	if !result.OK {
		uc.metrics.ObserveValidation(result.Reason.String())
		uc.logger.Info("ValidateAppointment: rejected %s %s: %s", req.Date, req.StartTime, result.Reason)
		return &Response{OK: false, Reason: result.Reason.String(), ConflictIDs: result.ConflictIDs}, nil
	}

	uc.metrics.ObserveValidation(decisionAccepted)
	uc.logger.Info("ValidateAppointment: accepted %s %s", req.Date, req.StartTime)
	return &Response{OK: true}, nil
}

// loadSnapshot загружает правило дня недели, политику и активные записи недели даты
func (uc *UseCase) loadSnapshot(ctx context.Context, date types.Date) (*engine.Snapshot, error) {
	rule, err := uc.ruleProvider.GetRule(ctx, date.Weekday())
	if err != nil {
		uc.logger.Error("ValidateAppointment: failed to get rule for day=%d: %v", date.Weekday(), err)
		return nil, fmt.Errorf("%w: failed to get rule: %v", ErrInternal, err)
	}

	policy, err := uc.policyProvider.Get(ctx)
	if err != nil {
		uc.logger.Error("ValidateAppointment: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	week, err := uc.apptRepo.GetActiveByDateRange(ctx, date.WeekStart(), date.WeekEnd())
	if err != nil {
		uc.logger.Error("ValidateAppointment: failed to get appointments for week of %s: %v", date, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	day := make([]*domain.Appointment, 0, len(week))
	for _, appt := range week {
		if appt.Date.Equal(date) {
			day = append(day, appt)
		}
	}

	return &engine.Snapshot{
		Rule:             rule,
		Policy:           policy,
		DayAppointments:  day,
		WeekAppointments: week,
		Now:              uc.timeProvider.Now(),
	}, nil
}
