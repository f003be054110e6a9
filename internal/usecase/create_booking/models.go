package create_booking

import (
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// Request запрос на создание бронирования
type Request struct {
	BusinessID int64
	ServiceID  int64
	UserID     int64

	// Date дата бронирования (время внутри даты игнорируется)
	Date time.Time

	// Timezone IANA-таймзона бизнеса; пустая строка означает UTC
	Timezone string

	// StartTime начало слота в локальном времени бизнеса
	StartTime types.TimeString

	// EndTime окончание слота; если не задано, вычисляется как
	// StartTime + длительность услуги
	EndTime types.TimeString

	// GroupCount количество мест в групповой услуге; 0 трактуется как 1
	GroupCount int

	Notes *string
}

// Response результат создания бронирования
type Response struct {
	Booking *domain.Booking
}
