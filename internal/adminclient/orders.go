// Package adminclient holds the admin app's view logic: today's undelivered orders,
// search over them, and calls to the OTP service.
package adminclient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

const dateLayout = "2006-01-02"

// OrderSource is the read side of the order store.
type OrderSource interface {
	OrdersByDeliveryDate(ctx context.Context, date string) ([]*models.Order, error)
}

// Today returns now's calendar date in its own location as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.Format(dateLayout)
}

// FilterOrders drops delivered orders, applies the search string and sorts newest first.
// A blank search keeps every active order. Matching is a case-insensitive substring test
// against the customer name (falling back to the account email) and every item name.
func FilterOrders(orders []*models.Order, search string) []*models.Order {
	needle := strings.ToLower(search)
	searching := strings.TrimSpace(search) != ""

	out := make([]*models.Order, 0, len(orders))
	for _, o := range orders {
		if strings.EqualFold(o.OrderStatus, models.OrderStatusDelivered) {
			continue
		}
		if searching && !matches(o, needle) {
			continue
		}
		out = append(out, o)
	}

	// zero timestamps are the minimum time, so they end up last
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func matches(o *models.Order, needle string) bool {
	name := o.Address.Name
	if name == "" {
		name = o.UserEmail
	}
	if strings.Contains(strings.ToLower(name), needle) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			return true
		}
	}
	return false
}

// Lister runs the fetch-filter-sort pipeline against the order store.
type Lister struct {
	source OrderSource
	now    func() time.Time
}

func NewLister(source OrderSource) *Lister {
	return &Lister{source: source, now: time.Now}
}

// Fetch loads every order due today and returns the active ones matching search.
func (l *Lister) Fetch(ctx context.Context, search string) ([]*models.Order, error) {
	orders, err := l.source.OrdersByDeliveryDate(ctx, Today(l.now()))
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	return FilterOrders(orders, search), nil
}
