package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/engine"
)

// dayMinutes верхняя граница длительности и шага
const dayMinutes = 24 * 60

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	ruleProvider   RuleProvider
	policyProvider PolicyProvider
	apptRepo       AppointmentRepository
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ruleProvider RuleProvider,
	policyProvider PolicyProvider,
	apptRepo AppointmentRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		ruleProvider:   ruleProvider,
		policyProvider: policyProvider,
		apptRepo:       apptRepo,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Слот попадает в ответ, только если проходит все проверки расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, duration=%d, step=%d", req.Date, req.DurationMinutes, req.StepMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем правило дня недели
	rule, err := uc.ruleProvider.GetRule(ctx, req.Date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get rule for day=%d: %v", req.Date.Weekday(), err)
		return nil, fmt.Errorf("%w: failed to get rule: %v", ErrInternal, err)
	}

	if rule == nil || !rule.IsActive {
		uc.logger.Info("GetAvailableSlots: day %s is unavailable", req.Date)
		return &Response{Date: req.Date, DurationMinutes: req.DurationMinutes, Slots: []Slot{}}, nil
	}

	// 3. Получаем политику
	policy, err := uc.policyProvider.Get(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	// 4. Получаем активные записи недели (для недельного лимита) и выделяем записи дня
	week, err := uc.apptRepo.GetActiveByDateRange(ctx, req.Date.WeekStart(), req.Date.WeekEnd())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	day := make([]*domain.Appointment, 0, len(week))
	for _, appt := range week {
		if appt.Date.Equal(req.Date) {
			day = append(day, appt)
		}
	}

	// 5. Перебираем кандидатов
	snapshot := engine.Snapshot{
		Rule:             rule,
		Policy:           policy,
		DayAppointments:  day,
		WeekAppointments: week,
		Now:              uc.timeProvider.Now(),
	}

	available, err := engine.AvailableSlots(req.Date, req.DurationMinutes, req.StepMinutes, snapshot)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	slots := make([]Slot, 0, len(available))
	for _, s := range available {
		slots = append(slots, Slot{StartTime: s.StartTime, EndTime: s.EndTime})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for date=%s", len(slots), req.Date)

	return &Response{
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Slots:           slots,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes > dayMinutes {
		return fmt.Errorf("%w: duration must be 1..%d minutes", ErrInvalidInput, dayMinutes)
	}
	if req.StepMinutes < 0 || req.StepMinutes > dayMinutes {
		return fmt.Errorf("%w: step must be 0..%d minutes", ErrInvalidInput, dayMinutes)
	}
	return nil
}
