package venueservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Client клиент для работы с каталогом площадки (корты и временные слоты)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента VenueService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCourt получает корт по ID
func (c *Client) GetCourt(ctx context.Context, courtID int64) (*domain.Court, error) {
	url := fmt.Sprintf("%s/internal/courts/%d", c.baseURL, courtID)

	var court Court
	if err := c.get(ctx, url, ErrCourtNotFound, &court); err != nil {
		return nil, err
	}

	return court.ToDomain(), nil
}

// GetTimeSlot получает временной слот с тарифами по ID
func (c *Client) GetTimeSlot(ctx context.Context, slotID int64) (*domain.TimeSlot, error) {
	url := fmt.Sprintf("%s/internal/time-slots/%d", c.baseURL, slotID)

	var slot TimeSlot
	if err := c.get(ctx, url, ErrTimeSlotNotFound, &slot); err != nil {
		return nil, err
	}

	return slot.ToDomain()
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("VenueService request failed: url=%s, error=%v", url, err)
		return fmt.Errorf("%w: failed to execute request: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return notFound
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("VenueService returned status %d: url=%s, body=%s", resp.StatusCode, url, string(body))
		return fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, errorMessage(body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

func errorMessage(body []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return string(body)
}

// IsNotFound возвращает true для ошибок отсутствия корта или слота
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCourtNotFound) || errors.Is(err, ErrTimeSlotNotFound)
}
