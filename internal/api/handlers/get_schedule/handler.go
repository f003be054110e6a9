package get_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/akosarev/ABS-SlotService/internal/api/handlers"
	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/internal/service/schedule"
	"github.com/akosarev/ABS-SlotService/internal/service/schedule/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidQuery      = "некорректные параметры запроса"
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

// Handle GET /api/v1/businesses/{businessId}/schedule
// Query params: from, to (YYYY-MM-DD, период выборки исключений)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/schedule - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	req := &models.GetScheduleRequest{BusinessID: businessID}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/schedule - Invalid from date %q: %v", fromStr, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.From = &from
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/schedule - Invalid to date %q: %v", toStr, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.To = &to
	}

	result, err := h.service.GetSchedule(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/schedule - Invalid request: business_id=%d: %v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /businesses/{id}/schedule - Failed to get schedule: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/schedule - Schedule retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
