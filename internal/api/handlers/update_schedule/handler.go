package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/akosarev/ABS-SlotService/internal/api/handlers"
	"github.com/akosarev/ABS-SlotService/internal/service/schedule"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidWeekday     = "некорректный день недели, ожидается 1 (понедельник) .. 7 (воскресенье)"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWindows     = "некорректные окна доступности"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/schedule/weekdays/{weekday}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule/weekdays/{weekday} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	weekday, err := strconv.Atoi(vars["weekday"])
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule/weekdays/{weekday} - Invalid weekday: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	var req UpdateWeekdayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule/weekdays/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.UpdateWeekday(r.Context(), req.ToServiceRequest(businessID, weekday))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidWeekday):
			h.logger.Warn("PUT /businesses/{id}/schedule/weekdays/{weekday} - Invalid weekday %d", weekday)
			handlers.RespondBadRequest(w, msgInvalidWeekday)

		case errors.Is(err, schedule.ErrInvalidWindow), errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/schedule/weekdays/{weekday} - Invalid windows: business_id=%d: %v",
				businessID, err)
			handlers.RespondBadRequest(w, msgInvalidWindows)

		default:
			h.logger.Error("PUT /businesses/{id}/schedule/weekdays/{weekday} - Failed to update: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/schedule/weekdays/{weekday} - Windows replaced: business_id=%d, weekday=%d",
		businessID, weekday)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
