package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/engine"
	apptRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// decisionAccepted метка метрики для успешной проверки
const decisionAccepted = "OK"

// UseCase use case создания и переноса записи с проверкой по правилам расписания
type UseCase struct {
	apptRepo       AppointmentRepository
	ruleProvider   RuleProvider
	policyProvider PolicyProvider
	txManager      TransactionManager
	publisher      EventPublisher
	metrics        MetricsRecorder
	timeProvider   TimeProvider
	timeout        time.Duration
	logger         Logger
}

// NewUseCase создает новый экземпляр use case.
// timeout ограничивает всю операцию вместе с ожиданием блокировки даты (0 = без ограничения)
func NewUseCase(
	apptRepo AppointmentRepository,
	ruleProvider RuleProvider,
	policyProvider PolicyProvider,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	timeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:       apptRepo,
		ruleProvider:   ruleProvider,
		policyProvider: policyProvider,
		txManager:      txManager,
		publisher:      publisher,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		timeout:        timeout,
		logger:         logger,
	}
}

// Create создает запись.
// Проверка и вставка выполняются в сериализуемой транзакции под блокировкой даты
func (uc *UseCase) Create(ctx context.Context, req *CreateRequest) (*domain.Appointment, error) {
	uc.logger.Info("CreateAppointment: user=%d, date=%s, time=%s, duration=%d",
		req.UserID, req.Date, req.StartTime, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateCreateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		uc.metrics.ObserveValidation(engine.CodeInvalidInput)
		return nil, err
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	// 2. Правило и политика (допускается чтение из кэша)
	rule, policy, err := uc.loadSettings(ctx, "CreateAppointment", req.Date)
	if err != nil {
		return nil, uc.finalError(ctx, "CreateAppointment", err)
	}

	status := req.Status
	if status == "" {
		status = domain.StatusConfirmed
	}

	candidate := engine.Candidate{
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	}

	var result *domain.Appointment

	// 3. Проверка и вставка в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		snapshot, err := uc.lockAndSnapshot(txCtx, "CreateAppointment", req.Date, rule, policy)
		if err != nil {
			return err
		}

		if err := uc.check(candidate, snapshot); err != nil {
			uc.logger.Warn("CreateAppointment: %s %s rejected: %v", req.Date, req.StartTime, err)
			return err
		}

		appt := &domain.Appointment{
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Status:          status,
			ClientName:      strings.TrimSpace(req.ClientName),
			ClientEmail:     req.ClientEmail,
			ClientPhone:     req.ClientPhone,
			Notes:           req.Notes,
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return storageError("create appointment", err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, uc.finalError(ctx, "CreateAppointment", err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d on %s %s-%s",
		result.ID, result.Date, result.StartTime, result.EndTime)

	// 4. Событие публикуется после фиксации транзакции
	if err := uc.publisher.AppointmentBooked(ctx, result, req.UserID); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return result, nil
}

// Reschedule переносит запись на новые дату, время и длительность.
// Переносимая запись исключается из проверки пересечений и лимитов
func (uc *UseCase) Reschedule(ctx context.Context, req *RescheduleRequest) (*domain.Appointment, error) {
	uc.logger.Info("RescheduleAppointment: user=%d, id=%d, date=%s, time=%s, duration=%d",
		req.UserID, req.AppointmentID, req.Date, req.StartTime, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRescheduleRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		uc.metrics.ObserveValidation(engine.CodeInvalidInput)
		return nil, err
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	// 2. Правило и политика новой даты
	rule, policy, err := uc.loadSettings(ctx, "RescheduleAppointment", req.Date)
	if err != nil {
		return nil, uc.finalError(ctx, "RescheduleAppointment", err)
	}

	var previous, result *domain.Appointment

	// 3. Блокировка записи и даты, проверка, обновление
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.apptRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return storageError("get appointment", err)
		}

		if !current.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d has status=%s", current.ID, current.Status)
			return fmt.Errorf("%w: status %s", ErrCannotReschedule, current.Status)
		}

		duration := req.DurationMinutes
		if duration == 0 {
			duration = current.DurationMinutes
		}

		candidate := engine.Candidate{
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			ExcludeID:       &current.ID,
		}
		if err := validateCandidate(candidate); err != nil {
			uc.metrics.ObserveValidation(engine.CodeInvalidInput)
			return err
		}

		snapshot, err := uc.lockAndSnapshot(txCtx, "RescheduleAppointment", req.Date, rule, policy)
		if err != nil {
			return err
		}

		if err := uc.check(candidate, snapshot); err != nil {
			uc.logger.Warn("RescheduleAppointment: id=%d to %s %s rejected: %v", current.ID, req.Date, req.StartTime, err)
			return err
		}

		before := *current
		moved := *current
		moved.Date = req.Date
		moved.StartTime = req.StartTime
		moved.DurationMinutes = duration

		updated, err := uc.apptRepo.UpdateSchedule(txCtx, &moved)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", current.ID, err)
			return storageError("update appointment", err)
		}

		previous = &before
		result = updated
		return nil
	})
	if err != nil {
		return nil, uc.finalError(ctx, "RescheduleAppointment", err)
	}

	uc.logger.Info("RescheduleAppointment: moved appointment id=%d from %s %s to %s %s",
		result.ID, previous.Date, previous.StartTime, result.Date, result.StartTime)

	if err := uc.publisher.AppointmentRescheduled(ctx, result, previous, req.UserID); err != nil {
		uc.logger.Error("RescheduleAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return result, nil
}

// loadSettings загружает правило дня недели даты и политику
func (uc *UseCase) loadSettings(ctx context.Context, op string, date types.Date) (*domain.AvailabilityRule, *domain.SchedulingPolicy, error) {
	rule, err := uc.ruleProvider.GetRule(ctx, date.Weekday())
	if err != nil {
		uc.logger.Error("%s: failed to get rule for day=%d: %v", op, date.Weekday(), err)
		return nil, nil, fmt.Errorf("%w: failed to get rule: %v", ErrInternal, err)
	}

	policy, err := uc.policyProvider.Get(ctx)
	if err != nil {
		uc.logger.Error("%s: failed to get policy: %v", op, err)
		return nil, nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	return rule, policy, nil
}

// lockAndSnapshot блокирует дату и читает активные записи дня (FOR UPDATE) и недели
func (uc *UseCase) lockAndSnapshot(
	txCtx context.Context,
	op string,
	date types.Date,
	rule *domain.AvailabilityRule,
	policy *domain.SchedulingPolicy,
) (engine.Snapshot, error) {
	if err := uc.apptRepo.LockDate(txCtx, date); err != nil {
		uc.logger.Error("%s: failed to lock date %s: %v", op, date, err)
		return engine.Snapshot{}, storageError("lock date", err)
	}

	day, err := uc.apptRepo.GetActiveByDate(txCtx, date)
	if err != nil {
		uc.logger.Error("%s: failed to get appointments on %s: %v", op, date, err)
		return engine.Snapshot{}, storageError("get day appointments", err)
	}

	week, err := uc.apptRepo.GetActiveByDateRange(txCtx, date.WeekStart(), date.WeekEnd())
	if err != nil {
		uc.logger.Error("%s: failed to get appointments for week of %s: %v", op, date, err)
		return engine.Snapshot{}, storageError("get week appointments", err)
	}

	for _, appt := range day {
		if appt.HasEndTimeMismatch() {
			uc.logger.Warn("%s: appointment id=%d stored end_time %s differs from start+duration %s, using computed value",
				op, appt.ID, appt.EndTime, types.TimeOfDay(appt.EndMinutes()))
		}
	}

	return engine.Snapshot{
		Rule:             rule,
		Policy:           policy,
		DayAppointments:  day,
		WeekAppointments: week,
		Now:              uc.timeProvider.Now(),
	}, nil
}

// check запускает проверку и превращает отказ в *RejectionError
func (uc *UseCase) check(candidate engine.Candidate, snapshot engine.Snapshot) error {
	result, err := engine.Validate(candidate, snapshot)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			uc.metrics.ObserveValidation(engine.CodeInvalidInput)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return fmt.Errorf("%w: validate: %v", ErrInternal, err)
	}

	if !result.OK {
		uc.metrics.ObserveValidation(result.Reason.String())
		return &RejectionError{Reason: result.Reason, ConflictIDs: result.ConflictIDs}
	}

	uc.metrics.ObserveValidation(decisionAccepted)
	return nil
}

// finalError приводит ошибку транзакции к ошибкам usecase
func (uc *UseCase) finalError(ctx context.Context, op string, err error) error {
	var rejection *RejectionError
	switch {
	case errors.As(err, &rejection):
		return rejection
	case errors.Is(err, txmanager.ErrConflictOnWrite):
		uc.metrics.ObserveWriteConflict()
		uc.logger.Warn("%s: concurrent write detected: %v", op, err)
		return fmt.Errorf("%w: %v", ErrConflictOnWrite, err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		uc.logger.Error("%s: timed out: %v", op, err)
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return err
	}
}

func (uc *UseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

// storageError сохраняет признак конкурентной записи, остальные ошибки хранилища становятся ErrInternal
func storageError(op string, err error) error {
	if txmanager.IsConflict(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
