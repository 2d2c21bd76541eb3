package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrOTPRejected is returned when the service answers send-otp with success=false.
var ErrOTPRejected = errors.New("otp service rejected request")

// OTPClient calls the delivery OTP service on behalf of an operator.
type OTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewOTPClient returns a client for baseURL, e.g. https://delivery-app-otp-verifier.onrender.com.
func NewOTPClient(baseURL string, timeout time.Duration) *OTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OTPClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type otpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error"`
}

func (c *OTPClient) post(ctx context.Context, path string, payload interface{}) (int, *otpResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var out otpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode %s response (status %d): %w", path, resp.StatusCode, err)
	}
	return resp.StatusCode, &out, nil
}

// SendOTP asks the service to email a code to the order's customer.
func (c *OTPClient) SendOTP(ctx context.Context, orderID, email string) error {
	status, out, err := c.post(ctx, "/send-otp", map[string]string{"orderId": orderID, "email": email})
	if err != nil {
		return err
	}
	if status != http.StatusOK || !out.Success {
		return fmt.Errorf("%w: status %d: %s", ErrOTPRejected, status, out.Message)
	}
	return nil
}

// VerifyOTP submits the code the customer read out. false means invalid or expired.
func (c *OTPClient) VerifyOTP(ctx context.Context, orderID, otp string) (bool, error) {
	status, out, err := c.post(ctx, "/verify-otp", map[string]string{"orderId": orderID, "otp": otp})
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("verify-otp: status %d: %s", status, out.Error)
	}
	return out.Valid, nil
}
