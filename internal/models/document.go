package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderFromDocument normalizes a loosely typed order document (as stored by the storefront)
// into an Order. Numbers may arrive as int64 or float64, and the total may be stored under the
// legacy totalAmount key.
func OrderFromDocument(id string, data map[string]interface{}) *Order {
	o := &Order{
		ID:            id,
		DeliveryDate:  stringField(data, "deliveryDate"),
		UserEmail:     stringField(data, "userEmail"),
		PaymentMethod: stringField(data, "paymentMethod"),
		PaymentStatus: stringField(data, "paymentStatus"),
		OrderStatus:   stringField(data, "orderStatus"),
	}
	if d, ok := data["delivered"].(bool); ok {
		o.Delivered = d
	}
	if addr, ok := data["address"].(map[string]interface{}); ok {
		o.Address.Name = stringField(addr, "name")
	}
	if items, ok := data["items"].([]interface{}); ok {
		for _, raw := range items {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			qty, _ := numberField(m, "quantity")
			if qty.IsZero() {
				qty, _ = numberField(m, "qty")
			}
			o.Items = append(o.Items, OrderItem{
				Name:     stringField(m, "name"),
				Quantity: int(qty.IntPart()),
			})
		}
	}

	if total, ok := numberField(data, "total"); ok {
		o.Total = total
	} else if total, ok := numberField(data, "totalAmount"); ok {
		o.Total = total
	}

	o.Timestamp = timeField(data, "timestamp")
	return o
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]interface{}, key string) (decimal.Decimal, bool) {
	switch v := m[key].(type) {
	case int64:
		return decimal.NewFromInt(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case float64:
		return decimal.NewFromFloat(v), true
	default:
		return decimal.Zero, false
	}
}

// timeField accepts a native timestamp or milliseconds since the epoch.
func timeField(m map[string]interface{}, key string) time.Time {
	switch v := m[key].(type) {
	case time.Time:
		return v
	case int64:
		return time.UnixMilli(v)
	case float64:
		return time.UnixMilli(int64(v))
	default:
		return time.Time{}
	}
}
