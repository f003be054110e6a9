package create_booking

import (
	"errors"
	"net/http"

	"github.com/akosarev/ABS-SlotService/internal/api/handlers"
	"github.com/akosarev/ABS-SlotService/internal/api/middleware"
	createBooking "github.com/akosarev/ABS-SlotService/internal/usecase/create_booking"
)

const (
	msgUnauthorized       = "требуется аутентификация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidTimeRange   = "время окончания должно быть позже времени начала"
	msgInvalidTimezone    = "неизвестная таймзона"
	msgServiceNotFound    = "услуга не найдена"
	msgDateInPast         = "дата бронирования в прошлом"
	msgDuplicateBooking   = "бронирование на этот слот уже существует"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgUserLimitReached   = "достигнут дневной лимит бронирований"
	msgInvalidRequest     = "некорректные параметры запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: user_id=%d, date=%s, start=%s",
				userID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, business_id=%d", userID, req.BusinessID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrUserLimitReached):
			h.logger.Warn("POST /bookings - User limit reached: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondConflict(w, msgUserLimitReached)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d, service_id=%d",
				req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrInvalidTimeRange):
			h.logger.Warn("POST /bookings - Invalid time range: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createBooking.ErrInvalidTimezone):
			h.logger.Warn("POST /bookings - Invalid timezone: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /bookings - Date in past: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid request: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, business_id=%d, error=%v",
				userID, req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: id=%d, reference=%s, user_id=%d",
		result.Booking.ID, result.Booking.Reference, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
