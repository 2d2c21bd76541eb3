package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

// DatabaseStore keeps orders and OTP records in SQL tables through GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore wraps an open GORM connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Migrate creates or updates the otps and orders tables.
func (s *DatabaseStore) Migrate() error {
	return s.db.AutoMigrate(&models.OTPRecord{}, &models.Order{})
}

func (s *DatabaseStore) PutOTP(ctx context.Context, rec *models.OTPRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"otp", "email", "expires_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to save otp: %w", err)
	}
	return nil
}

func (s *DatabaseStore) GetOTP(ctx context.Context, orderID string) (*models.OTPRecord, error) {
	var rec models.OTPRecord
	err := s.db.WithContext(ctx).First(&rec, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load otp: %w", err)
	}
	return &rec, nil
}

func (s *DatabaseStore) DeleteOTP(ctx context.Context, orderID string) (bool, error) {
	res := s.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OTPRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete otp: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CreateOrder inserts an order. Used to seed development databases and by tests.
func (s *DatabaseStore) CreateOrder(ctx context.Context, o *models.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *DatabaseStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

func (s *DatabaseStore) MarkDelivered(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"delivered":      true,
			"order_status":   models.OrderStatusDelivered,
			"payment_status": models.PaymentStatusConfirmed,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStore) OrdersByDeliveryDate(ctx context.Context, date string) ([]*models.Order, error) {
	var orders []*models.Order
	if err := s.db.WithContext(ctx).Where("delivery_date = ?", date).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
