package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

// newEmulatorStore connects to the Firestore emulator; the client picks up
// FIRESTORE_EMULATOR_HOST on its own.
func newEmulatorStore(t *testing.T) *FirestoreStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	s, err := NewFirestoreStore(context.Background(), "bakery-test", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFirestoreStore_OTPContract(t *testing.T) {
	s := newEmulatorStore(t)
	testOTPStoreContract(t, s, "order-"+uuid.NewString())
}

func TestFirestoreStore_ConcurrentDeleteHasOneWinner(t *testing.T) {
	s := newEmulatorStore(t)
	testConcurrentDelete(t, s, "order-"+uuid.NewString())
}

func TestFirestoreStore_Orders(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()

	date := "2026-10-14"
	legacyID := "legacy-" + uuid.NewString()
	currentID := "current-" + uuid.NewString()
	placed := time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC)

	// documents shaped the way the storefront writes them
	_, err := s.client.Collection(orderCollection).Doc(legacyID).Set(ctx, map[string]interface{}{
		"deliveryDate":  date,
		"address":       map[string]interface{}{"name": "Asha"},
		"userEmail":     "asha@example.com",
		"items":         []interface{}{map[string]interface{}{"name": "Croissant", "qty": 2}},
		"totalAmount":   249.5,
		"paymentMethod": "COD",
		"paymentStatus": "pending",
		"orderStatus":   "pending",
		"timestamp":     placed,
	})
	require.NoError(t, err)
	_, err = s.client.Collection(orderCollection).Doc(currentID).Set(ctx, map[string]interface{}{
		"deliveryDate": date,
		"items":        []interface{}{map[string]interface{}{"name": "Baguette", "quantity": 1}},
		"total":        80,
		"orderStatus":  "pending",
	})
	require.NoError(t, err)

	o, err := s.GetOrder(ctx, legacyID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", o.Address.Name)
	assert.Equal(t, []models.OrderItem{{Name: "Croissant", Quantity: 2}}, o.Items)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("249.5")), o.Total.String())
	assert.True(t, o.Timestamp.Equal(placed))

	o, err = s.GetOrder(ctx, currentID)
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(80)), o.Total.String())

	orders, err := s.OrdersByDeliveryDate(ctx, date)
	require.NoError(t, err)
	var ids []string
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.Subset(t, ids, []string{legacyID, currentID})

	require.NoError(t, s.MarkDelivered(ctx, legacyID))
	o, err = s.GetOrder(ctx, legacyID)
	require.NoError(t, err)
	assert.True(t, o.IsDelivered())
	assert.Equal(t, models.PaymentStatusConfirmed, o.PaymentStatus)

	assert.ErrorIs(t, s.MarkDelivered(ctx, "missing-"+uuid.NewString()), ErrNotFound)
	_, err = s.GetOrder(ctx, "missing-"+uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
