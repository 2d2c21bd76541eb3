package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

// Email subjects
const (
	OTPEmailSubject      = "🧾 Your OTP for Toshan Bakery Order"
	DeliveryEmailSubject = "✅ Your Toshan Bakery Order has been Delivered!"
)

var otpEmailTemplate = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; padding: 16px; max-width: 600px; margin: 0 auto; border: 1px solid #e5e7eb; border-radius: 8px;">
  <h2 style="color: #3b82f6; margin-top: 0;">🧁 Toshan Bakery - Order Verification</h2>
  <p>Hello 👋,</p>
  <p>Your OTP for order <strong>#{{.ShortID}}</strong> is:</p>
  <div style="font-size: 32px; font-weight: bold; margin: 20px 0; padding: 16px; background-color: #f0fdf4; border-radius: 8px; text-align: center; color: #10b981; letter-spacing: 4px;">
    {{.Code}}
  </div>
  <p style="color: #ef4444; font-weight: 500;">⏰ This OTP is valid for {{.ValidMinutes}} minutes only.</p>
  <div style="margin-top: 24px; padding-top: 24px; border-top: 1px solid #e5e7eb;">
    <p style="color: #6b7280; font-size: 14px; margin: 0;">Thank you for ordering with Toshan Bakery!</p>
    <p style="color: #9ca3af; font-size: 12px; margin-top: 8px;">Raipur's Most Famous Local Bakery 🍰</p>
  </div>
</div>
`))

var deliveryEmailTemplate = template.Must(template.New("delivery").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto; border: 1px solid #e5e7eb; border-radius: 8px;">
  <div style="background-color: #10b981; color: white; padding: 16px; border-radius: 8px 8px 0 0; margin: -20px -20px 20px -20px;">
    <h2 style="margin: 0; font-size: 24px;">✅ Order Delivered Successfully!</h2>
  </div>
  <p>Hi <strong>{{.Customer}}</strong>,</p>
  <p>Your order <strong>#{{.ShortID}}</strong> has been successfully delivered! 🎉</p>
  <div style="background-color: #f9fafb; padding: 16px; border-radius: 8px; margin: 16px 0;">
    <h3 style="margin-top: 0; color: #374151;">📦 Order Details</h3>
    <p style="margin: 8px 0;"><strong>Items:</strong></p>
    {{- if .Items}}
    <ul style="margin: 8px 0; padding-left: 20px;">
      {{- range .Items}}
      <li style="padding: 4px 0;">{{.Name}} × {{.Quantity}}</li>
      {{- end}}
    </ul>
    {{- else}}
    N/A
    {{- end}}
    <div style="margin-top: 16px; padding-top: 16px; border-top: 1px solid #e5e7eb;">
      <p style="margin: 4px 0;"><strong>Total Amount:</strong> ₹{{.Total}}</p>
      <p style="margin: 4px 0;"><strong>Payment Status:</strong> <span style="color: #10b981; font-weight: bold;">Confirmed ✓</span></p>
    </div>
  </div>
  <div style="background: linear-gradient(135deg, #fef3c7, #fde68a); padding: 16px; border-radius: 8px; margin: 16px 0;">
    <p style="margin: 0; font-size: 16px;">🙏 Thank you for your order!</p>
    <p style="margin: 8px 0 0 0; font-size: 14px;">We appreciate your support and hope you enjoy our products! 🧁</p>
  </div>
  <div style="margin-top: 24px; padding-top: 24px; border-top: 1px solid #e5e7eb; text-align: center;">
    <p style="color: #6b7280; font-size: 14px; margin: 0;">Toshan Bakery - Raipur's Most Famous Local Bakery</p>
    <p style="color: #9ca3af; font-size: 12px; margin-top: 8px;">
      <a href="https://bakery.toshankanwar.website" style="color: #3b82f6; text-decoration: none;">Visit Our Shop</a> |
      <a href="mailto:contact@toshankanwar.website" style="color: #3b82f6; text-decoration: none;">Contact Us</a>
    </p>
  </div>
</div>
`))

type deliveryLine struct {
	Name     string
	Quantity int
}

// OTPEmailBody renders the verification email for orderID.
func OTPEmailBody(orderID, code string, validMinutes int) (string, error) {
	var buf bytes.Buffer
	err := otpEmailTemplate.Execute(&buf, struct {
		ShortID      string
		Code         string
		ValidMinutes int
	}{models.ShortID(orderID), code, validMinutes})
	if err != nil {
		return "", fmt.Errorf("failed to render otp email: %w", err)
	}
	return buf.String(), nil
}

// DeliveryEmailBody renders the delivery confirmation summarizing items and total.
func DeliveryEmailBody(o *models.Order) (string, error) {
	lines := make([]deliveryLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, deliveryLine{Name: it.ItemLabel(), Quantity: it.Qty()})
	}

	var buf bytes.Buffer
	err := deliveryEmailTemplate.Execute(&buf, struct {
		Customer string
		ShortID  string
		Items    []deliveryLine
		Total    string
	}{o.Greeting(), o.ShortID(), lines, o.Total.StringFixed(2)})
	if err != nil {
		return "", fmt.Errorf("failed to render delivery email: %w", err)
	}
	return buf.String(), nil
}
