package create_appointment

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
)

type CreateAppointmentUseCase interface {
	Create(ctx context.Context, req *bookAppointment.CreateRequest) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
