package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	apptRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service сервис для работы с записями
type Service struct {
	apptRepo  AppointmentRepository
	publisher EventPublisher
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	apptRepo AppointmentRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:  apptRepo,
		publisher: publisher,
		txManager: txManager,
		logger:    logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.warnEndMismatch("GetByID", appt)

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// ListByDate получает записи на одну дату
func (s *Service) ListByDate(ctx context.Context, date types.Date, includeInactive bool) (*models.AppointmentListResponse, error) {
	return s.List(ctx, &models.ListAppointmentsRequest{
		StartDate:       date,
		EndDate:         date,
		IncludeInactive: includeInactive,
	})
}

// List получает записи за период с фильтрацией по статусу
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListAppointments: fetching appointments for %s..%s, includeInactive=%t",
		req.StartDate, req.EndDate, req.IncludeInactive)

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		s.logger.Warn("ListAppointments: period is required")
		return nil, fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		s.logger.Warn("ListAppointments: endDate %s before startDate %s", req.EndDate, req.StartDate)
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListAppointments: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appts, err := s.apptRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAppointments - repository error: %v", ErrInternal, err)
	}

	for _, appt := range appts {
		s.warnEndMismatch("ListAppointments", appt)
	}

	s.logger.Info("ListAppointments: successfully fetched %d appointments", len(appts))
	return models.FromDomainAppointmentList(appts), nil
}

// UpdateStatus меняет статус записи.
// Разрешены переходы pending -> confirmed|cancelled и confirmed -> completed|cancelled|no_show
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d", id, req.Status, req.UserID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("UpdateStatus: cancellation reason too long for appointment id=%d", id)
		return nil, fmt.Errorf("%w: cancellationReason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var (
		previous domain.AppointmentStatus
		updated  *domain.Appointment
	)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.apptRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if !appt.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d",
				appt.Status, newStatus, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
		}

		var reason *string
		if newStatus == domain.StatusCancelled {
			reason = req.CancellationReason
		}

		if err := s.apptRepo.UpdateStatus(txCtx, id, newStatus, reason); err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		fresh, err := s.apptRepo.GetByID(txCtx, id)
		if err != nil {
			s.logger.Error("UpdateStatus: failed to reload appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - reload: %v", ErrInternal, err)
		}

		previous = appt.Status
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.AppointmentStatusChanged(ctx, updated, previous, req.UserID); err != nil {
		s.logger.Error("UpdateStatus: failed to publish event for appointment id=%d: %v", id, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d %s -> %s", id, previous, updated.Status)
	return models.FromDomainAppointment(updated), nil
}

func (s *Service) warnEndMismatch(op string, appt *domain.Appointment) {
	if appt.HasEndTimeMismatch() {
		s.logger.Warn("%s: appointment id=%d stored end_time %s differs from start+duration %s",
			op, appt.ID, appt.EndTime, types.TimeOfDay(appt.EndMinutes()))
	}
}
