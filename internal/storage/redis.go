package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toshankanwar/bakery-delivery-backend/internal/models"
)

const otpKeyPrefix = "otps:"

// RedisOTPStore keeps OTP records as JSON strings under otps:<orderId>.
// Keys expire together with the code, so abandoned records do not accumulate.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore wraps a connected go-redis client.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type redisOTP struct {
	OTP       string    `json:"otp"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *RedisOTPStore) PutOTP(ctx context.Context, rec *models.OTPRecord) error {
	raw, err := json.Marshal(redisOTP{OTP: rec.Code, Email: rec.Email, ExpiresAt: rec.ExpiresAt})
	if err != nil {
		return err
	}
	ttl := time.Until(rec.ExpiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, otpKeyPrefix+rec.OrderID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save otp: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) GetOTP(ctx context.Context, orderID string) (*models.OTPRecord, error) {
	raw, err := s.client.Get(ctx, otpKeyPrefix+orderID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load otp: %w", err)
	}
	var v redisOTP
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("corrupt otp record for %s: %w", orderID, err)
	}
	return &models.OTPRecord{OrderID: orderID, Code: v.OTP, Email: v.Email, ExpiresAt: v.ExpiresAt}, nil
}

func (s *RedisOTPStore) DeleteOTP(ctx context.Context, orderID string) (bool, error) {
	n, err := s.client.Del(ctx, otpKeyPrefix+orderID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete otp: %w", err)
	}
	return n > 0, nil
}
