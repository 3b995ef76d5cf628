package book_appointment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/engine"
)

// validateCreateRequest валидирует входные данные создания записи
func validateCreateRequest(req *CreateRequest) error {
	if err := validateCandidate(engine.Candidate{
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	}); err != nil {
		return err
	}

	switch req.Status {
	case "", domain.StatusPending, domain.StatusConfirmed:
	default:
		return fmt.Errorf("%w: initial status must be pending or confirmed, got %q", ErrInvalidInput, req.Status)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName exceeds %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateRescheduleRequest валидирует входные данные переноса записи.
// Длительность 0 означает "оставить текущую", её форма проверяется после загрузки записи
func validateRescheduleRequest(req *RescheduleRequest) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	if req.DurationMinutes == 0 {
		return validateCandidate(engine.Candidate{Date: req.Date, StartTime: req.StartTime, DurationMinutes: 1})
	}
	return validateCandidate(engine.Candidate{
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
}

// validateCandidate проверяет форму кандидата до загрузки данных
func validateCandidate(c engine.Candidate) error {
	if err := engine.ValidateInput(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
