package reschedule_appointment

import (
	"fmt"

	bookAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	Date            string `json:"date"`                      // "2025-10-15"
	StartTime       string `json:"startTime"`                 // "10:00"
	DurationMinutes int    `json:"durationMinutes,omitempty"` // 0 = оставить текущую
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(userID, appointmentID int64) (*bookAppointment.RescheduleRequest, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	start, err := types.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &bookAppointment.RescheduleRequest{
		UserID:          userID,
		AppointmentID:   appointmentID,
		Date:            date,
		StartTime:       start,
		DurationMinutes: r.DurationMinutes,
	}, nil
}
