package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Статусы платёжного намерения на стороне шлюза.
const (
	IntentStatusRequiresConfirmation = "requires_confirmation"
	IntentStatusConfirmed            = "confirmed"
	IntentStatusCancelled            = "cancelled"
)

// ErrIntentNotFound возвращается, когда шлюз не знает такого намерения.
var ErrIntentNotFound = errors.New("payments: intent not found")

// Intent платёжное намерение: резервирование суммы до подтверждения сделки.
type Intent struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	Reference   string `json:"reference"`
}

// Client реализует клиента платёжного шлюза поверх его REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateIntent резервирует сумму под сделку. reference — идентификатор
// сущности на нашей стороне (например, id оффера).
func (c *Client) CreateIntent(ctx context.Context, amountCents int64, currency, reference string) (*Intent, error) {
	payload := map[string]any{
		"amount_cents": amountCents,
		"currency":     currency,
		"reference":    reference,
	}

	var intent Intent
	if err := c.post(ctx, "/intents", payload, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// ConfirmIntent подтверждает списание по намерению.
func (c *Client) ConfirmIntent(ctx context.Context, intentID string) (*Intent, error) {
	var intent Intent
	if err := c.post(ctx, "/intents/"+intentID+"/confirm", nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CancelIntent снимает резервирование.
func (c *Client) CancelIntent(ctx context.Context, intentID string) (*Intent, error) {
	var intent Intent
	if err := c.post(ctx, "/intents/"+intentID+"/cancel", nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// GetIntent возвращает текущее состояние намерения.
func (c *Client) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("payments: baseURL не задан")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/intents/"+intentID), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrIntentNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("payments: код ответа %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// post выполняет POST запрос к шлюзу и декодирует ответ в out.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("payments: baseURL не задан")
	}

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrIntentNotFound
	}
	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("payments: код ответа %d: %v", resp.StatusCode, errorBody)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) url(path string) string {
	return strings.TrimSuffix(c.baseURL, "/") + path
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
