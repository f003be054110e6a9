package set_exception

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/akosarev/ABS-SlotService/internal/api/handlers"
	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/internal/service/schedule"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDate        = "дата обязательна"
	msgInvalidException   = "некорректное исключение расписания"
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

// HandleSet PUT /api/v1/businesses/{businessId}/schedule/exceptions
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule/exceptions - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req SetExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(businessID)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule/exceptions - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	err = h.service.SetException(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidException),
			errors.Is(err, schedule.ErrInvalidWindow),
			errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/schedule/exceptions - Invalid exception: business_id=%d: %v",
				businessID, err)
			handlers.RespondBadRequest(w, msgInvalidException)

		default:
			h.logger.Error("PUT /businesses/{id}/schedule/exceptions - Failed to set exception: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/schedule/exceptions - Exception set: business_id=%d, date=%s",
		businessID, req.Date)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleClear DELETE /api/v1/businesses/{businessId}/schedule/exceptions
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/schedule/exceptions - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("DELETE /businesses/{id}/schedule/exceptions - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/schedule/exceptions - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.ClearExceptions(r.Context(), businessID, date); err != nil {
		h.logger.Error("DELETE /businesses/{id}/schedule/exceptions - Failed to clear: business_id=%d, error=%v",
			businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/schedule/exceptions - Exceptions cleared: business_id=%d, date=%s",
		businessID, dateStr)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
