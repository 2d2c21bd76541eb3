package models

import "time"

// OTPRecord is the single pending one-time password for an order.
// A new issuance replaces the previous record for the same order.
type OTPRecord struct {
	OrderID   string    `gorm:"primaryKey;size:128" firestore:"-" json:"orderId"`
	Code      string    `gorm:"column:otp;not null;size:6" firestore:"otp" json:"otp"`
	Email     string    `gorm:"not null" firestore:"email" json:"email"`
	ExpiresAt time.Time `gorm:"not null" firestore:"expiresAt" json:"expiresAt"`
}

func (OTPRecord) TableName() string {
	return "otps"
}

// Expired reports whether the code can no longer be used at now.
func (r *OTPRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
