package get_user_bookings

import (
	"net/http"
	"strconv"

	"github.com/akosarev/ABS-SlotService/internal/api/handlers"
	"github.com/akosarev/ABS-SlotService/internal/api/middleware"
	"github.com/akosarev/ABS-SlotService/internal/service/bookings/models"
	"github.com/akosarev/ABS-SlotService/pkg/ptr"
)

const (
	msgUnauthorized      = "требуется аутентификация"
	msgInvalidBusinessID = "некорректный ID бизнеса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me/bookings
// Query params: businessId (optional), includeCancelled (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	req := &models.GetUserBookingsRequest{
		UserID:           userID,
		IncludeCancelled: r.URL.Query().Get("includeCancelled") == "true",
	}

	if businessIDStr := r.URL.Query().Get("businessId"); businessIDStr != "" {
		businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /users/me/bookings - Invalid business ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBusinessID)
			return
		}
		req.BusinessID = ptr.Ptr(businessID)
	}

	result, err := h.service.GetUserBookings(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /users/me/bookings - Failed to get bookings: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/me/bookings - Retrieved %d bookings for user_id=%d", len(result.Bookings), userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
