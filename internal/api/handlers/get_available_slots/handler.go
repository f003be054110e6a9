package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/akosarev/ABS-SlotService/internal/api/handlers"
	"github.com/akosarev/ABS-SlotService/internal/api/middleware"
	"github.com/akosarev/ABS-SlotService/internal/domain"
	getAvailableSlots "github.com/akosarev/ABS-SlotService/internal/usecase/get_available_slots"
	"github.com/akosarev/ABS-SlotService/pkg/ptr"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidGranularity = "некорректный шаг сетки слотов"
	msgInvalidTimezone    = "неизвестная таймзона"
	msgServiceNotFound    = "услуга не найдена"
	msgDateTooSoon        = "дата слишком близко: раньше минимального времени предупреждения"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgInvalidRequest     = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	policy  Policy
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, policy Policy, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		policy:  policy,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/services/{serviceId}/available-slots
// Query params: date (required, YYYY-MM-DD), timezone, granularity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	granularity := h.policy.GranularityMinutes
	if granularityStr := r.URL.Query().Get("granularity"); granularityStr != "" {
		granularity, err = strconv.Atoi(granularityStr)
		if err != nil || granularity <= 0 {
			h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Invalid granularity %q", granularityStr)
			handlers.RespondBadRequest(w, msgInvalidGranularity)
			return
		}
	}

	useCaseReq := &getAvailableSlots.Request{
		BusinessID:         businessID,
		ServiceID:          serviceID,
		Date:               date,
		Timezone:           r.URL.Query().Get("timezone"),
		GranularityMinutes: granularity,
		MinAdvanceMinutes:  h.policy.MinAdvanceMinutes,
		MaxDaysInFuture:    h.policy.MaxDaysInFuture,
	}

	// Дневной лимит проверяется только для аутентифицированных запросов
	if userID, ok := middleware.UserID(r.Context()); ok {
		useCaseReq.RequestingUserID = ptr.Ptr(userID)
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Service not found: business_id=%d, service_id=%d",
				businessID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidTimezone):
			h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Invalid timezone: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, getAvailableSlots.ErrDateTooSoon):
			h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Date too soon: business_id=%d, date=%s",
				businessID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooSoon)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Date too far: business_id=%d, date=%s",
				businessID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /businesses/{id}/services/{id}/available-slots - Failed to get slots: business_id=%d, service_id=%d, error=%v",
				businessID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(businessID, serviceID, result)

	h.logger.Info("GET /businesses/{id}/services/{id}/available-slots - Slots retrieved successfully: business_id=%d, service_id=%d, slots_count=%d",
		businessID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
