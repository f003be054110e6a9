package get_business_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/internal/service/bookings/models"
	"github.com/akosarev/ABS-SlotService/pkg/ptr"
)

// ParseQuery строит запрос сервиса из query параметров
// Поддерживаются: serviceId, startDate, endDate (YYYY-MM-DD), includeCancelled
func ParseQuery(businessID int64, query url.Values) (*models.GetBusinessBookingsRequest, error) {
	req := &models.GetBusinessBookingsRequest{
		BusinessID:       businessID,
		IncludeCancelled: query.Get("includeCancelled") == "true",
	}

	if serviceIDStr := query.Get("serviceId"); serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = ptr.Ptr(serviceID)
	}

	if startDateStr := query.Get("startDate"); startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = ptr.Ptr(startDate)
	}

	if endDateStr := query.Get("endDate"); endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = ptr.Ptr(endDate)
	}

	return req, nil
}
