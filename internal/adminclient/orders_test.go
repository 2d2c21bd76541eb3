package adminclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
	"github.com/toshankanwar/bakery-delivery-backend/internal/storage"
)

func ids(orders []*models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func sampleOrders() []*models.Order {
	return []*models.Order{
		{ID: "a", Address: models.Address{Name: "Asha Verma"}, Items: []models.OrderItem{{Name: "Croissant"}}, OrderStatus: "pending", Timestamp: time.Unix(100, 0)},
		{ID: "b", UserEmail: "rohit@example.com", Items: []models.OrderItem{{Name: "Black Forest Cake"}}, OrderStatus: "pending", Timestamp: time.Unix(300, 0)},
		{ID: "c", Address: models.Address{Name: "Meera"}, OrderStatus: "Delivered", Timestamp: time.Unix(400, 0)},
		{ID: "d", Address: models.Address{Name: "Dev"}, Items: []models.OrderItem{{Name: "Baguette"}}, OrderStatus: "pending"},
	}
}

func TestFilterOrders_ActiveSortedNewestFirst(t *testing.T) {
	got := FilterOrders(sampleOrders(), "")
	assert.Equal(t, []string{"b", "a", "d"}, ids(got))
}

func TestFilterOrders_Search(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"asha", []string{"a"}},
		{"ROHIT", []string{"b"}},
		{"cake", []string{"b"}},
		{"bag", []string{"d"}},
		{"meera", []string{}},
		{"   ", []string{"b", "a", "d"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterOrders(sampleOrders(), tt.search)))
		})
	}
}

func TestFilterOrders_PendingPendingDelivered(t *testing.T) {
	orders := []*models.Order{
		{ID: "p1", OrderStatus: "pending", Timestamp: time.Unix(1, 0)},
		{ID: "p2", OrderStatus: "pending", Timestamp: time.Unix(2, 0)},
		{ID: "d1", OrderStatus: "delivered", Timestamp: time.Unix(3, 0)},
	}
	assert.Equal(t, []string{"p2", "p1"}, ids(FilterOrders(orders, "")))
}

type failingSource struct{}

func (failingSource) OrdersByDeliveryDate(context.Context, string) ([]*models.Order, error) {
	return nil, errors.New("unavailable")
}

func TestLister_FetchesTodayOnly(t *testing.T) {
	store := storage.NewMemoryStore()
	store.PutOrder(&models.Order{ID: "today", DeliveryDate: "2026-10-14", OrderStatus: "pending"})
	store.PutOrder(&models.Order{ID: "tomorrow", DeliveryDate: "2026-10-15", OrderStatus: "pending"})

	l := NewLister(store)
	l.now = func() time.Time { return time.Date(2026, 10, 14, 23, 59, 0, 0, time.Local) }

	got, err := l.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"today"}, ids(got))

	_, err = NewLister(failingSource{}).Fetch(context.Background(), "")
	assert.Error(t, err)
}
