package adminclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/send-otp":
			if body["email"] == "" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"success":false,"message":"Missing orderId or email."}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true}`))
		case "/verify-otp":
			switch body["otp"] {
			case "482913":
				_, _ = w.Write([]byte(`{"valid":true}`))
			case "500000":
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"valid":false,"error":"Internal server error"}`))
			default:
				_, _ = w.Write([]byte(`{"valid":false}`))
			}
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewOTPClient(srv.URL+"/", time.Second)

	require.NoError(t, c.SendOTP(ctx, "order123", "c@x.com"))

	err := c.SendOTP(ctx, "order123", "")
	assert.ErrorIs(t, err, ErrOTPRejected)
	assert.Contains(t, err.Error(), "Missing orderId or email.")

	valid, err := c.VerifyOTP(ctx, "order123", "482913")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = c.VerifyOTP(ctx, "order123", "111111")
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = c.VerifyOTP(ctx, "order123", "500000")
	assert.ErrorContains(t, err, "Internal server error")
}
