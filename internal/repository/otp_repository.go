package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTP purposes. The purpose namespaces the Redis key so a verification
// code issued for one flow cannot be replayed against another.
const (
	OTPPurposeVerifyEmail   = "verify_email"
	OTPPurposeResetPassword = "reset_password"
)

// OTPRepository stores one-time passwords in Redis with a TTL. Expiry is
// delegated to Redis entirely; a missing key and an expired key are the
// same outcome.
type OTPRepository struct {
	client *redis.Client
}

// NewOTPRepository constructs the repository.
func NewOTPRepository(client *redis.Client) *OTPRepository {
	return &OTPRepository{client: client}
}

func otpKey(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

// Store saves the code under (purpose, email), replacing any previous one.
func (r *OTPRepository) Store(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	if err := r.client.Set(ctx, otpKey(purpose, email), code, ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

// Verify compares the supplied code against the stored one and deletes it
// on success, so a code is single-use.
func (r *OTPRepository) Verify(ctx context.Context, purpose, email, code string) (bool, error) {
	key := otpKey(purpose, email)
	stored, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read otp: %w", err)
	}
	if stored != code {
		return false, nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return true, nil
}
