package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OTPIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_otp_issued_total",
		Help: "Total number of OTPs stored and emailed successfully.",
	})

	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_otp_verifications_total",
		Help: "OTP verification attempts by result (valid, invalid, expired, missing, error).",
	},
		[]string{"result"},
	)

	EmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_emails_sent_total",
		Help: "Transactional emails by kind (otp, delivery) and outcome (sent, failed).",
	},
		[]string{"kind", "outcome"},
	)

	HeartbeatTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_heartbeat_total",
		Help: "Self-heartbeat pings by outcome.",
	},
		[]string{"outcome"},
	)
)
