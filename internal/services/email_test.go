package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

func TestBrevoClient_Send(t *testing.T) {
	var got brevoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "xkeysib-test", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<202610141000.123@smtp-relay.mailin.fr>"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("xkeysib-test", srv.URL, Sender{Email: "shop@bakery.test", Name: "Toshan Bakery"}, time.Second, zap.NewNop())
	id, err := c.Send(context.Background(), "c@x.com", "Hello", "<p>hi</p>")
	require.NoError(t, err)

	assert.Equal(t, "<202610141000.123@smtp-relay.mailin.fr>", id)
	assert.Equal(t, Sender{Email: "shop@bakery.test", Name: "Toshan Bakery"}, got.Sender)
	assert.Equal(t, []brevoRecipient{{Email: "c@x.com"}}, got.To)
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, "<p>hi</p>", got.HTMLContent)
}

func TestBrevoClient_Failures(t *testing.T) {
	rejected := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized","message":"Key not found"}`))
	}))
	defer rejected.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer slow.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name    string
		url     string
		timeout time.Duration
	}{
		{"non-2xx", rejected.URL, time.Second},
		{"timeout", slow.URL, 50 * time.Millisecond},
		{"network", closedURL, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBrevoClient("k", tt.url, Sender{Email: "a@b.c"}, tt.timeout, zap.NewNop())
			_, err := c.Send(context.Background(), "c@x.com", "s", "b")
			assert.ErrorIs(t, err, ErrDispatchFailed)
		})
	}
}

func TestLogDispatcher_ReturnsMessageID(t *testing.T) {
	id, err := NewLogDispatcher(zap.NewNop()).Send(context.Background(), "c@x.com", "s", "b")
	require.NoError(t, err)
	assert.Contains(t, id, "@dev.local>")
}

func TestDeliveryEmailBody(t *testing.T) {
	body, err := DeliveryEmailBody(&models.Order{
		ID:      "abcdefgh12345678",
		Address: models.Address{Name: "<Asha>"},
		Items:   []models.OrderItem{{Name: "Cake", Quantity: 1}, {Quantity: 0}},
		Total:   decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	assert.Contains(t, body, "#12345678")
	assert.Contains(t, body, "&lt;Asha&gt;")
	assert.Contains(t, body, "Cake × 1")
	assert.Contains(t, body, "Item × 1")
	assert.Contains(t, body, "₹300.00")

	empty, err := DeliveryEmailBody(&models.Order{ID: "x"})
	require.NoError(t, err)
	assert.Contains(t, empty, "Hi <strong>Customer</strong>")
	assert.Contains(t, empty, "N/A")
	assert.Contains(t, empty, "₹0.00")
}
