package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/toshankanwar/bakery-delivery-backend/internal/services"
)

// OTPService is the part of services.OTPService the HTTP layer needs.
type OTPService interface {
	Issue(ctx context.Context, orderID, email string) error
	Verify(ctx context.Context, orderID, code string) (bool, error)
}

// OTPHandler handles delivery OTP requests from the admin app
type OTPHandler struct {
	service OTPService
	timeout time.Duration
	log     *zap.Logger
}

// NewOTPHandler creates a new OTP handler. timeout bounds each request's store and email calls.
func NewOTPHandler(service OTPService, timeout time.Duration, log *zap.Logger) *OTPHandler {
	return &OTPHandler{
		service: service,
		timeout: timeout,
		log:     log,
	}
}

type sendOTPRequest struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
}

type verifyOTPRequest struct {
	OrderID string `json:"orderId"`
	OTP     string `json:"otp"`
}

func (h *OTPHandler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// SendOTP issues a code for the order and emails it to the customer
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	_ = c.BodyParser(&req)

	h.log.Info("Incoming send-otp", zap.String("order_id", req.OrderID), zap.String("email", req.Email))

	if req.OrderID == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing orderId or email.",
		})
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.service.Issue(ctx, req.OrderID, req.Email); err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Missing orderId or email.",
			})
		}
		h.log.Error("Error sending OTP", zap.String("order_id", req.OrderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send OTP",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// VerifyOTP checks the code and, when valid, marks the order delivered
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	_ = c.BodyParser(&req)

	h.log.Info("Incoming verify-otp", zap.String("order_id", req.OrderID))

	if req.OrderID == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"valid": false,
			"error": "orderId and otp are required.",
		})
	}

	ctx, cancel := h.context(c)
	defer cancel()

	valid, err := h.service.Verify(ctx, req.OrderID, req.OTP)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"valid": false,
				"error": "orderId and otp are required.",
			})
		}
		h.log.Error("Error in verify-otp", zap.String("order_id", req.OrderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"valid": false,
			"error": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"valid": valid})
}
