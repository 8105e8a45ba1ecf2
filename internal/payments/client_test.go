package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newGatewayStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/intents":
			var payload map[string]any
			_ = json.NewDecoder(r.Body).Decode(&payload)
			_ = json.NewEncoder(w).Encode(Intent{
				ID:          "pi_test",
				AmountCents: int64(payload["amount_cents"].(float64)),
				Currency:    payload["currency"].(string),
				Status:      IntentStatusRequiresConfirmation,
				Reference:   payload["reference"].(string),
			})
		case r.Method == http.MethodPost && r.URL.Path == "/intents/pi_test/confirm":
			_ = json.NewEncoder(w).Encode(Intent{ID: "pi_test", Status: IntentStatusConfirmed})
		case r.Method == http.MethodPost && r.URL.Path == "/intents/pi_test/cancel":
			_ = json.NewEncoder(w).Encode(Intent{ID: "pi_test", Status: IntentStatusCancelled})
		case r.Method == http.MethodGet && r.URL.Path == "/intents/pi_test":
			_ = json.NewEncoder(w).Encode(Intent{ID: "pi_test", Status: IntentStatusConfirmed})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClient_CreateIntent(t *testing.T) {
	server := newGatewayStub(t)
	defer server.Close()

	client := NewClient(server.URL, "secret")
	intent, err := client.CreateIntent(context.Background(), 150000, "RUB", "offer-1")

	assert.NoError(t, err)
	assert.Equal(t, "pi_test", intent.ID)
	assert.Equal(t, int64(150000), intent.AmountCents)
	assert.Equal(t, IntentStatusRequiresConfirmation, intent.Status)
	assert.Equal(t, "offer-1", intent.Reference)
}

func TestClient_ConfirmAndCancel(t *testing.T) {
	server := newGatewayStub(t)
	defer server.Close()

	client := NewClient(server.URL, "")

	confirmed, err := client.ConfirmIntent(context.Background(), "pi_test")
	assert.NoError(t, err)
	assert.Equal(t, IntentStatusConfirmed, confirmed.Status)

	cancelled, err := client.CancelIntent(context.Background(), "pi_test")
	assert.NoError(t, err)
	assert.Equal(t, IntentStatusCancelled, cancelled.Status)
}

func TestClient_IntentNotFound(t *testing.T) {
	server := newGatewayStub(t)
	defer server.Close()

	client := NewClient(server.URL, "")

	_, err := client.ConfirmIntent(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrIntentNotFound)

	_, err = client.GetIntent(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestClient_NoBaseURL(t *testing.T) {
	client := NewClient("", "")

	_, err := client.CreateIntent(context.Background(), 100, "RUB", "ref")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "baseURL не задан")
}

func TestClient_SendsAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(Intent{ID: "pi_test"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "api-key")
	_, err := client.CreateIntent(context.Background(), 100, "RUB", "ref")

	assert.NoError(t, err)
	assert.Equal(t, "Bearer api-key", gotAuth)
}
