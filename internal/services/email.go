package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher sends one transactional HTML email and returns the provider's message id.
// Every failure is reported as ErrDispatchFailed.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// Sender identifies the From address of outgoing email.
type Sender struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BrevoClient sends email through Brevo's transactional email API (POST /v3/smtp/email).
type BrevoClient struct {
	APIKey     string
	APIURL     string
	Sender     Sender
	HTTPClient *http.Client
	log        *zap.Logger
}

// NewBrevoClient returns a client for the given API key. apiURL may be empty for the public endpoint.
func NewBrevoClient(apiKey, apiURL string, sender Sender, timeout time.Duration, log *zap.Logger) *BrevoClient {
	if apiURL == "" {
		apiURL = "https://api.brevo.com/v3/smtp/email"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BrevoClient{
		APIKey:     apiKey,
		APIURL:     apiURL,
		Sender:     sender,
		HTTPClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type brevoRecipient struct {
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      Sender           `json:"sender"`
	To          []brevoRecipient `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
}

type brevoResponse struct {
	MessageID string `json:"messageId"`
}

// Send posts the message to Brevo. Non-2xx responses, timeouts and network errors
// all wrap ErrDispatchFailed.
func (c *BrevoClient) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	raw, err := json.Marshal(brevoRequest{
		Sender:      c.Sender,
		To:          []brevoRecipient{{Email: to}},
		Subject:     subject,
		HTMLContent: htmlBody,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.Error("❌ Failed to send email", zap.String("to", to), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("❌ Failed to send email",
			zap.String("to", to),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", fmt.Errorf("%w: brevo status=%d body=%s", ErrDispatchFailed, resp.StatusCode, string(body))
	}

	var out brevoResponse
	_ = json.Unmarshal(body, &out)

	c.log.Info("✅ Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("message_id", out.MessageID))
	return out.MessageID, nil
}

// LogDispatcher logs messages instead of sending them. Intended for development
// when no provider key is configured.
type LogDispatcher struct {
	log *zap.Logger
}

func NewLogDispatcher(log *zap.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Send(_ context.Context, to, subject, htmlBody string) (string, error) {
	id := "<" + uuid.NewString() + "@dev.local>"
	d.log.Info("📧 Email not sent (development dispatcher)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("html_bytes", len(htmlBody)),
		zap.String("message_id", id))
	return id, nil
}
