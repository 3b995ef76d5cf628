package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	bookAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInput       = "некорректные данные записи"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTimeout            = "не удалось создать запись за отведенное время, повторите запрос"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	appt, err := h.useCase.Create(r.Context(), useCaseReq)
	if err != nil {
		var rejection *bookAppointment.RejectionError
		switch {
		case errors.As(err, &rejection):
			h.logger.Warn("POST /appointments - Rejected: user_id=%d, date=%s, start=%s, reason=%s",
				userID, req.Date, req.StartTime, rejection.Reason)
			handlers.RespondRejection(w, rejection.Reason.String(), handlers.RejectionMessage(rejection.Reason))

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookAppointment.ErrConflictOnWrite):
			h.logger.Warn("POST /appointments - Conflict on write: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondConflictOnWrite(w)

		case errors.Is(err, bookAppointment.ErrTimeout):
			h.logger.Error("POST /appointments - Timeout: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgTimeout)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%d",
		appt.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(appt))
}
