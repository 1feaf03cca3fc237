package identityservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент сервиса аккаунтов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса аккаунтов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ResolveOrCreate находит аккаунт по хешу национального номера и email или создает новый
func (c *Client) ResolveOrCreate(ctx context.Context, nationalIDHash, email string, profile Profile) (int64, error) {
	url := fmt.Sprintf("%s/internal/accounts/resolve", c.baseURL)

	payload, err := json.Marshal(ResolveRequest{
		NationalIDHash: nationalIDHash,
		Email:          email,
		Profile:        profile,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusConflict:
		return 0, ErrIdentityConflict
	case http.StatusBadRequest:
		return 0, fmt.Errorf("%w: identity rejected by account service", ErrInvalidResponse)
	default:
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var result ResolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if result.AccountID <= 0 {
		return 0, fmt.Errorf("%w: account id is missing", ErrInvalidResponse)
	}

	if result.Created {
		c.log.Info("ResolveOrCreate: created account id=%d", result.AccountID)
	}

	return result.AccountID, nil
}
