package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с NotifierService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifierService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// BookingConfirmed отправляет событие о подтвержденном бронировании
//
// Клиент применяет graceful degradation: при недоступности сервиса
// возвращается ErrServiceDegraded, бронирование при этом не отменяется
func (c *Client) BookingConfirmed(ctx context.Context, event *BookingEvent) error {
	if err := c.post(ctx, "/internal/notifications/booking-confirmed", event); err != nil {
		c.log.Error("NotifierService unavailable for booking %s: %v", event.Reference, err)
		return fmt.Errorf("%w: reference=%s, error=%v", ErrServiceDegraded, event.Reference, err)
	}

	c.log.Info("Booking confirmation notification sent, reference=%s", event.Reference)
	return nil
}

// BookingCancelled отправляет событие об отмене бронирования
func (c *Client) BookingCancelled(ctx context.Context, event *CancellationEvent) error {
	if err := c.post(ctx, "/internal/notifications/booking-cancelled", event); err != nil {
		c.log.Error("NotifierService unavailable for booking %s: %v", event.Reference, err)
		return fmt.Errorf("%w: reference=%s, error=%v", ErrServiceDegraded, event.Reference, err)
	}

	c.log.Info("Booking cancellation notification sent, reference=%s", event.Reference)
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
