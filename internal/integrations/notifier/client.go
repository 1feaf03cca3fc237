package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
)

// Client отправляет события записей во внешний сервис уведомлений
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient создает новый экземпляр webhook-клиента
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Handle реализует events.Listener
func (c *Client) Handle(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(toPayload(event))
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Name", string(event.Name))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(respBody))
	}

	return nil
}

func toPayload(e events.Event) Payload {
	a := e.Appointment
	return Payload{
		Event:            string(e.Name),
		OccurredAt:       e.OccurredAt,
		Actor:            e.Actor,
		RequiresApproval: e.RequiresApproval,
		Reason:           e.Reason,
		Appointment: AppointmentPayload{
			ID:                a.ID,
			Date:              a.Date.Format(domain.DateFormat),
			StartTime:         a.StartTime.String(),
			EndTime:           a.EndTime.String(),
			Status:            string(a.Status),
			AccountID:         a.AccountID,
			Email:             a.Email,
			Phone:             a.Phone,
			ValidationCode:    a.ValidationCode,
			ConfirmationToken: a.ConfirmationToken,
			UserNotes:         a.UserNotes,
		},
		Calendar: CalendarPayload{
			ID:       e.Calendar.ID,
			Name:     e.Calendar.Name,
			Timezone: e.Calendar.Timezone,
		},
	}
}
