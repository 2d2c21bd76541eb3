package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/toshankanwar/bakery-delivery-backend/internal/metrics"
	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
	"github.com/toshankanwar/bakery-delivery-backend/internal/storage"
	"github.com/toshankanwar/bakery-delivery-backend/internal/utils"
)

// OTPValidity is how long an issued code can be verified.
const OTPValidity = 10 * time.Minute

// OTPService issues delivery OTPs and confirms deliveries when a valid code is presented.
type OTPService struct {
	otps       storage.OTPStore
	orders     storage.OrderStore
	dispatcher Dispatcher
	log        *zap.Logger
	debugCodes bool

	now      func() time.Time
	generate func() (string, error)
}

// OTPOption customizes an OTPService.
type OTPOption func(*OTPService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) OTPOption {
	return func(s *OTPService) { s.now = now }
}

// WithGenerator replaces the random code generator.
func WithGenerator(gen func() (string, error)) OTPOption {
	return func(s *OTPService) { s.generate = gen }
}

// WithDebugCodes logs generated codes at debug level. Development only.
func WithDebugCodes(enabled bool) OTPOption {
	return func(s *OTPService) { s.debugCodes = enabled }
}

func NewOTPService(otps storage.OTPStore, orders storage.OrderStore, dispatcher Dispatcher, log *zap.Logger, opts ...OTPOption) *OTPService {
	s := &OTPService{
		otps:       otps,
		orders:     orders,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
		generate:   utils.GenerateOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue generates a code for orderID, stores it (replacing any previous code) and emails it.
// The stored record is not rolled back when the email fails; issuing again overwrites it.
func (s *OTPService) Issue(ctx context.Context, orderID, email string) error {
	if orderID == "" || email == "" {
		return fmt.Errorf("%w: orderId and email are required", ErrInvalidRequest)
	}

	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	if s.debugCodes {
		s.log.Debug("Generated OTP", zap.String("order_id", orderID), zap.String("otp", code))
	}

	rec := &models.OTPRecord{
		OrderID:   orderID,
		Code:      code,
		Email:     email,
		ExpiresAt: s.now().Add(OTPValidity),
	}
	if err := s.otps.PutOTP(ctx, rec); err != nil {
		return err
	}
	s.log.Info("Saved OTP", zap.String("order_id", orderID), zap.Time("expires_at", rec.ExpiresAt))

	body, err := OTPEmailBody(orderID, code, int(OTPValidity/time.Minute))
	if err != nil {
		return err
	}
	if _, err := s.dispatcher.Send(ctx, email, OTPEmailSubject, body); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("otp", "failed").Inc()
		return err
	}
	metrics.EmailsSentTotal.WithLabelValues("otp", "sent").Inc()
	metrics.OTPIssuedTotal.Inc()

	s.log.Info("OTP sent", zap.String("order_id", orderID), zap.String("email", email))
	return nil
}

// Verify checks code against the pending OTP for orderID. A missing, mismatched or expired
// code yields false with no error and leaves the record untouched.
//
// On a match the record is consumed first, then the order is marked delivered, then the
// confirmation email goes to the address captured at issuance. A failure after consumption
// is returned as an error and leaves the code unusable; there is no compensation step.
func (s *OTPService) Verify(ctx context.Context, orderID, code string) (bool, error) {
	if orderID == "" || code == "" {
		return false, fmt.Errorf("%w: orderId and otp are required", ErrInvalidRequest)
	}

	rec, err := s.otps.GetOTP(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warn("No OTP record", zap.String("order_id", orderID))
		metrics.OTPVerificationsTotal.WithLabelValues("missing").Inc()
		return false, nil
	}
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("error").Inc()
		return false, err
	}

	if rec.Code != code {
		s.log.Warn("OTP invalid", zap.String("order_id", orderID))
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return false, nil
	}
	if rec.Expired(s.now()) {
		s.log.Warn("OTP expired", zap.String("order_id", orderID), zap.Time("expires_at", rec.ExpiresAt))
		metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		return false, nil
	}

	consumed, err := s.otps.DeleteOTP(ctx, orderID)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("error").Inc()
		return false, err
	}
	if !consumed {
		// a concurrent verification already used this code
		s.log.Warn("OTP already consumed", zap.String("order_id", orderID))
		metrics.OTPVerificationsTotal.WithLabelValues("missing").Inc()
		return false, nil
	}

	if err := s.orders.MarkDelivered(ctx, orderID); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("error").Inc()
		s.log.Error("OTP consumed but order update failed; manual reconciliation needed",
			zap.String("order_id", orderID), zap.Error(err))
		return false, fmt.Errorf("failed to mark order %s delivered: %w", orderID, err)
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("failed to reload order %s: %w", orderID, err)
	}
	body, err := DeliveryEmailBody(order)
	if err != nil {
		return false, err
	}
	if _, err := s.dispatcher.Send(ctx, rec.Email, DeliveryEmailSubject, body); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("delivery", "failed").Inc()
		metrics.OTPVerificationsTotal.WithLabelValues("error").Inc()
		s.log.Error("Order delivered but confirmation email failed",
			zap.String("order_id", orderID), zap.Error(err))
		return false, err
	}
	metrics.EmailsSentTotal.WithLabelValues("delivery", "sent").Inc()
	metrics.OTPVerificationsTotal.WithLabelValues("valid").Inc()

	s.log.Info("OTP verified and delivery email sent", zap.String("order_id", orderID))
	return true, nil
}
