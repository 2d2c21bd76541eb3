package storage

import (
	"context"
	"errors"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

// ErrNotFound is returned when a record or order does not exist.
var ErrNotFound = errors.New("not found")

// OTPStore keeps at most one pending OTP per order id. Expiry is checked by the caller,
// stores are not required to purge stale records.
type OTPStore interface {
	// PutOTP inserts or replaces the record for rec.OrderID.
	PutOTP(ctx context.Context, rec *models.OTPRecord) error
	// GetOTP returns ErrNotFound when the order has no pending OTP.
	GetOTP(ctx context.Context, orderID string) (*models.OTPRecord, error)
	// DeleteOTP removes the record and reports whether this call removed it.
	// Of two concurrent deletes for the same order only one reports true.
	DeleteOTP(ctx context.Context, orderID string) (bool, error)
}

// OrderStore reads storefront orders and applies the delivery transition.
type OrderStore interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// MarkDelivered sets delivered=true, orderStatus=delivered, paymentStatus=confirmed.
	// Returns ErrNotFound when the order does not exist.
	MarkDelivered(ctx context.Context, id string) error
	// OrdersByDeliveryDate returns every order with the given YYYY-MM-DD delivery date.
	OrdersByDeliveryDate(ctx context.Context, date string) ([]*models.Order, error)
}

// Store is a backend holding both collections.
type Store interface {
	OTPStore
	OrderStore
}
