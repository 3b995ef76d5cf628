package validate_appointment

import (
	"context"

	validateAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/validate_appointment"
)

type ValidateAppointmentUseCase interface {
	Execute(ctx context.Context, req *validateAppointment.Request) (*validateAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
