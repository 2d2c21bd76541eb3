package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

const (
	otpCollection   = "otps"
	orderCollection = "orders"
)

// FirestoreStore uses the storefront's Firestore project: otps/<orderId> and orders/<orderId>.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore opens a Firestore client. credentialsFile may be empty to use
// application default credentials.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

type firestoreOTP struct {
	OTP       string    `firestore:"otp"`
	Email     string    `firestore:"email"`
	ExpiresAt time.Time `firestore:"expiresAt"`
}

func (s *FirestoreStore) PutOTP(ctx context.Context, rec *models.OTPRecord) error {
	doc := firestoreOTP{OTP: rec.Code, Email: rec.Email, ExpiresAt: rec.ExpiresAt}
	if _, err := s.client.Collection(otpCollection).Doc(rec.OrderID).Set(ctx, doc); err != nil {
		return fmt.Errorf("failed to save otp: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetOTP(ctx context.Context, orderID string) (*models.OTPRecord, error) {
	snap, err := s.client.Collection(otpCollection).Doc(orderID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load otp: %w", err)
	}
	var doc firestoreOTP
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("corrupt otp record for %s: %w", orderID, err)
	}
	return &models.OTPRecord{OrderID: orderID, Code: doc.OTP, Email: doc.Email, ExpiresAt: doc.ExpiresAt}, nil
}

// DeleteOTP uses an Exists precondition so that only one concurrent caller observes the delete.
func (s *FirestoreStore) DeleteOTP(ctx context.Context, orderID string) (bool, error) {
	_, err := s.client.Collection(otpCollection).Doc(orderID).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete otp: %w", err)
	}
	return true, nil
}

func (s *FirestoreStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	snap, err := s.client.Collection(orderCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return models.OrderFromDocument(snap.Ref.ID, snap.Data()), nil
}

func (s *FirestoreStore) MarkDelivered(ctx context.Context, id string) error {
	_, err := s.client.Collection(orderCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "delivered", Value: true},
		{Path: "orderStatus", Value: models.OrderStatusDelivered},
		{Path: "paymentStatus", Value: models.PaymentStatusConfirmed},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (s *FirestoreStore) OrdersByDeliveryDate(ctx context.Context, date string) ([]*models.Order, error) {
	snaps, err := s.client.Collection(orderCollection).Where("deliveryDate", "==", date).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := make([]*models.Order, 0, len(snaps))
	for _, snap := range snaps {
		orders = append(orders, models.OrderFromDocument(snap.Ref.ID, snap.Data()))
	}
	return orders, nil
}
