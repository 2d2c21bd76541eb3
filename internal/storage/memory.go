package storage

import (
	"context"
	"sync"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

// MemoryStore holds all data in memory. Used for local development and tests.
type MemoryStore struct {
	otps   map[string]models.OTPRecord
	orders map[string]models.Order

	otpMu   sync.RWMutex
	orderMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		otps:   make(map[string]models.OTPRecord),
		orders: make(map[string]models.Order),
	}
}

// OTP operations
func (m *MemoryStore) PutOTP(_ context.Context, rec *models.OTPRecord) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	m.otps[rec.OrderID] = *rec
	return nil
}

func (m *MemoryStore) GetOTP(_ context.Context, orderID string) (*models.OTPRecord, error) {
	m.otpMu.RLock()
	defer m.otpMu.RUnlock()

	rec, exists := m.otps[orderID]
	if !exists {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *MemoryStore) DeleteOTP(_ context.Context, orderID string) (bool, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	if _, exists := m.otps[orderID]; !exists {
		return false, nil
	}
	delete(m.otps, orderID)
	return true, nil
}

// Order operations

// PutOrder stores or replaces an order. The storefront owns orders in production;
// this exists for seeding development data and tests.
func (m *MemoryStore) PutOrder(o *models.Order) {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	m.orders[o.ID] = cp
}

func (m *MemoryStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	o, exists := m.orders[id]
	if !exists {
		return nil, ErrNotFound
	}
	return copyOrder(o), nil
}

func (m *MemoryStore) MarkDelivered(_ context.Context, id string) error {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	o, exists := m.orders[id]
	if !exists {
		return ErrNotFound
	}
	o.Delivered = true
	o.OrderStatus = models.OrderStatusDelivered
	o.PaymentStatus = models.PaymentStatusConfirmed
	m.orders[id] = o
	return nil
}

func (m *MemoryStore) OrdersByDeliveryDate(_ context.Context, date string) ([]*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	var orders []*models.Order
	for _, o := range m.orders {
		if o.DeliveryDate == date {
			orders = append(orders, copyOrder(o))
		}
	}
	return orders, nil
}

func copyOrder(o models.Order) *models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return &o
}
