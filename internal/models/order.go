package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order status values written by delivery confirmation.
const (
	OrderStatusDelivered   = "delivered"
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentMethodCOD       = "COD"
)

const (
	shortIDLength       = 8
	defaultCustomerName = "Customer"
	unknownCustomerName = "Unknown"
)

type Address struct {
	Name string `json:"name" firestore:"name"`
}

type OrderItem struct {
	Name     string `json:"name" firestore:"name"`
	Quantity int    `json:"quantity" firestore:"quantity"`
}

// Order is a storefront order. Total is already resolved from the legacy totalAmount field
// when the order was loaded.
type Order struct {
	ID            string          `gorm:"primaryKey;size:128" json:"id"`
	DeliveryDate  string          `gorm:"index;size:10" json:"deliveryDate"`
	Address       Address         `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	UserEmail     string          `json:"userEmail"`
	Items         []OrderItem     `gorm:"serializer:json" json:"items"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2)" json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	OrderStatus   string          `gorm:"index" json:"orderStatus"`
	Delivered     bool            `json:"delivered"`
	Timestamp     time.Time       `json:"timestamp"`
}

func (Order) TableName() string {
	return "orders"
}

// IsDelivered reports whether the order has been confirmed as delivered.
func (o *Order) IsDelivered() bool {
	return o.Delivered || strings.EqualFold(o.OrderStatus, OrderStatusDelivered)
}

// ShortID returns the last 8 characters of the order id, as shown to customers.
func (o *Order) ShortID() string {
	return ShortID(o.ID)
}

// ShortID returns the last 8 characters of id.
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[len(id)-shortIDLength:]
}

// CustomerLabel is the name used in admin listings: address name, then account email.
func (o *Order) CustomerLabel() string {
	if o.Address.Name != "" {
		return o.Address.Name
	}
	if o.UserEmail != "" {
		return o.UserEmail
	}
	return unknownCustomerName
}

// Greeting is the name used to address the customer in emails.
func (o *Order) Greeting() string {
	if o.Address.Name != "" {
		return o.Address.Name
	}
	return defaultCustomerName
}

// FirstItemName returns the name of the first line item, or "No items".
func (o *Order) FirstItemName() string {
	if len(o.Items) == 0 || o.Items[0].Name == "" {
		return "No items"
	}
	return o.Items[0].Name
}

// DisplayPaymentStatus returns the payment status lowercased, defaulting to pending.
func (o *Order) DisplayPaymentStatus() string {
	if o.PaymentStatus == "" {
		return PaymentStatusPending
	}
	return strings.ToLower(o.PaymentStatus)
}

// ItemLabel returns the item's name with the "Item" fallback.
func (i OrderItem) ItemLabel() string {
	if i.Name == "" {
		return "Item"
	}
	return i.Name
}

// Qty returns the quantity, defaulting to 1.
func (i OrderItem) Qty() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}
