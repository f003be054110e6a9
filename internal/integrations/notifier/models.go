package notifier

// BookingEvent событие о подтвержденном бронировании для сервиса уведомлений
type BookingEvent struct {
	Reference   string `json:"reference"`
	BusinessID  int64  `json:"business_id"`
	ServiceID   int64  `json:"service_id"`
	ServiceName string `json:"service_name"`
	UserID      int64  `json:"user_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	GroupCount  int    `json:"group_count"`
}

// CancellationEvent событие об отмене бронирования
type CancellationEvent struct {
	Reference string  `json:"reference"`
	UserID    int64   `json:"user_id"`
	Reason    *string `json:"reason,omitempty"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
