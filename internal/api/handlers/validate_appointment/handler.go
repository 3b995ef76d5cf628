package validate_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/engine"
	validateAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/validate_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidSlot        = "некорректный временной интервал"
)

type Handler struct {
	useCase ValidateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ValidateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/validate
// Проверка без сохранения: отказ по правилам возвращается с кодом 200 и ok=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments/validate - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, validateAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/validate - Invalid slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("POST /appointments/validate - Failed to validate: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := ValidateResponse{
		OK:          result.OK,
		Reason:      result.Reason,
		ConflictIDs: result.ConflictIDs,
	}
	if !result.OK {
		response.Message = handlers.RejectionMessage(engine.Reason(result.Reason))
	}

	h.logger.Info("POST /appointments/validate - date=%s, start=%s, ok=%t, reason=%s",
		req.Date, req.StartTime, result.OK, result.Reason)
	handlers.RespondJSON(w, http.StatusOK, response)
}
