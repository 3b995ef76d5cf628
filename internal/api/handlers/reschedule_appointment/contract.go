package reschedule_appointment

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
)

type RescheduleAppointmentUseCase interface {
	Reschedule(ctx context.Context, req *bookAppointment.RescheduleRequest) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
