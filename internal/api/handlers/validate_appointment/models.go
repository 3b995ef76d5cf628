package validate_appointment

import (
	"fmt"

	validateAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ValidateRequest HTTP request model
type ValidateRequest struct {
	Date            string `json:"date"`      // "2025-10-15"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	ExcludeID       *int64 `json:"excludeId,omitempty"`
}

// ValidateResponse HTTP response model
type ValidateResponse struct {
	OK          bool    `json:"ok"`
	Reason      string  `json:"reason,omitempty"`
	Message     string  `json:"message,omitempty"`
	ConflictIDs []int64 `json:"conflictIds,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateRequest) ToUseCaseRequest() (*validateAppointment.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	start, err := types.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &validateAppointment.Request{
		Date:            date,
		StartTime:       start,
		DurationMinutes: r.DurationMinutes,
		ExcludeID:       r.ExcludeID,
	}, nil
}
