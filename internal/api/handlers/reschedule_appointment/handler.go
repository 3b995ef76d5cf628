package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	bookAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInput         = "некорректные данные переноса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgCannotReschedule     = "запись в текущем статусе нельзя перенести"
	msgTimeout              = "не удалось перенести запись за отведенное время, повторите запрос"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointments/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, appointmentID)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	appt, err := h.useCase.Reschedule(r.Context(), useCaseReq)
	if err != nil {
		var rejection *bookAppointment.RejectionError
		switch {
		case errors.As(err, &rejection):
			h.logger.Warn("PUT /appointments/{id} - Rejected: appointment_id=%d, date=%s, start=%s, reason=%s",
				appointmentID, req.Date, req.StartTime, rejection.Reason)
			handlers.RespondRejection(w, rejection.Reason.String(), handlers.RejectionMessage(rejection.Reason))

		case errors.Is(err, bookAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookAppointment.ErrCannotReschedule):
			h.logger.Warn("PUT /appointments/{id} - Cannot reschedule: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondError(w, http.StatusConflict, msgCannotReschedule)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/{id} - Invalid input: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookAppointment.ErrConflictOnWrite):
			h.logger.Warn("PUT /appointments/{id} - Conflict on write: appointment_id=%d", appointmentID)
			handlers.RespondConflictOnWrite(w)

		case errors.Is(err, bookAppointment.ErrTimeout):
			h.logger.Error("PUT /appointments/{id} - Timeout: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgTimeout)

		default:
			h.logger.Error("PUT /appointments/{id} - Failed to reschedule: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id} - Appointment rescheduled successfully: appointment_id=%d, user_id=%d",
		appt.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointment(appt))
}
