package copy_availability_window

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidDayOfWeek = "некорректный день недели, ожидается 0 (воскресенье) .. 6 (суббота)"
	msgRuleNotFound     = "для дня не задано правило доступности"
	msgSourceInactive   = "исходный день неактивен"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability-rules/{dayOfWeek}/copy-window
// Копирует окно дня во все остальные активные дни
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dayOfWeek, err := strconv.Atoi(mux.Vars(r)["dayOfWeek"])
	if err != nil {
		h.logger.Warn("POST /availability-rules/{day}/copy-window - Invalid day of week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	result, err := h.service.CopyWindowToActiveDays(r.Context(), dayOfWeek)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("POST /availability-rules/{day}/copy-window - Invalid day: %d", dayOfWeek)
			handlers.RespondBadRequest(w, msgInvalidDayOfWeek)

		case errors.Is(err, availability.ErrRuleNotFound):
			h.logger.Warn("POST /availability-rules/{day}/copy-window - Rule not found: day=%d", dayOfWeek)
			handlers.RespondNotFound(w, msgRuleNotFound)

		case errors.Is(err, availability.ErrSourceDayInactive):
			h.logger.Warn("POST /availability-rules/{day}/copy-window - Source day inactive: day=%d", dayOfWeek)
			handlers.RespondError(w, http.StatusConflict, msgSourceInactive)

		default:
			h.logger.Error("POST /availability-rules/{day}/copy-window - Failed to copy window: day=%d, error=%v",
				dayOfWeek, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability-rules/{day}/copy-window - Window copied successfully: day=%d, updated=%v",
		dayOfWeek, result.UpdatedDays)
	handlers.RespondJSON(w, http.StatusOK, result)
}
